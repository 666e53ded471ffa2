package dic

import "sync"

// CharTable interns every character stored in the trie so that all nodes
// share one canonical value per distinct character.
type CharTable struct {
	mu    sync.RWMutex
	chars map[rune]rune
}

// defaultChars is shared by every Dictionary in the process.
var defaultChars = NewCharTable()

// NewCharTable creates an empty table.
func NewCharTable() *CharTable {
	return &CharTable{chars: make(map[rune]rune, 16)}
}

// DefaultCharTable returns the process-wide table.
func DefaultCharTable() *CharTable {
	return defaultChars
}

// Intern returns the canonical value for r, adding it on first sight.
func (t *CharTable) Intern(r rune) rune {
	t.mu.RLock()
	c, ok := t.chars[r]
	t.mu.RUnlock()
	if ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.chars[r]; ok {
		return c
	}
	t.chars[r] = r
	return r
}

// Contains reports whether r was ever interned.
func (t *CharTable) Contains(r rune) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.chars[r]
	return ok
}

// Len returns the number of distinct characters seen so far.
func (t *CharTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.chars)
}
