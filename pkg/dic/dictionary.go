package dic

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var errStopVisit = errors.New("stop visit")

// Dictionary is a trie root plus an index of the stored entries.
// The trie answers matches; the patricia index enumerates entries, which
// the trie itself cannot do without rebuilding words from its nodes.
type Dictionary struct {
	root  *Segment
	chars *CharTable

	mu    sync.RWMutex
	index *patricia.Trie
	words atomic.Int64
}

// Stats describes the shape of a dictionary.
type Stats struct {
	Words      int
	Nodes      int
	ArrayNodes int
	MapNodes   int
	Leaves     int
	MaxDepth   int
	MaxFanout  int
	Chars      int
}

// NewDictionary creates an empty dictionary backed by the process-wide CharTable.
func NewDictionary() *Dictionary {
	return NewDictionaryWithTable(defaultChars)
}

// NewDictionaryWithTable creates an empty dictionary interning into table.
func NewDictionaryWithTable(table *CharTable) *Dictionary {
	if table == nil {
		table = defaultChars
	}
	return &Dictionary{
		root:  NewRoot(),
		chars: table,
		index: patricia.NewTrie(),
	}
}

// Root exposes the trie root.
func (d *Dictionary) Root() *Segment {
	return d.root
}

// AddWord inserts word after trimming surrounding space.
// It reports whether the word was new; blank words are ignored.
func (d *Dictionary) AddWord(word string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, nil
	}
	chars := []rune(word)
	if err := d.root.fill(chars, 0, len(chars), d.chars); err != nil {
		return false, err
	}

	d.mu.Lock()
	inserted := d.index.Insert(patricia.Prefix(word), len(chars))
	d.mu.Unlock()
	if inserted {
		d.words.Add(1)
	}
	return inserted, nil
}

// AddWords inserts all words, skipping (and logging) the invalid ones.
// It returns the number of new entries.
func (d *Dictionary) AddWords(words []string) int {
	added := 0
	for _, w := range words {
		ok, err := d.AddWord(w)
		if err != nil {
			log.Warnf("Skipping dictionary entry %q: %v", w, err)
			continue
		}
		if ok {
			added++
		}
	}
	return added
}

// Match looks up text[begin:begin+length].
func (d *Dictionary) Match(text []rune, begin, length int) Hit {
	return d.root.Match(text, begin, length)
}

// MatchString looks up the whole of s.
func (d *Dictionary) MatchString(s string) Hit {
	chars := []rune(s)
	return d.root.Match(chars, 0, len(chars))
}

// MatchNext extends a prefix hit by one character.
func (d *Dictionary) MatchNext(h Hit, r rune) Hit {
	if h.node == nil || !h.IsPrefix() {
		return Hit{Begin: h.Begin, End: h.End + 1}
	}
	child := h.node.Child(r)
	if child == nil {
		return Hit{Begin: h.Begin, End: h.End + 1}
	}
	return hitFor(child, h.Begin, h.End+1)
}

// Contains reports whether s is a stored entry.
func (d *Dictionary) Contains(s string) bool {
	return d.MatchString(s).IsMatch()
}

// Len returns the number of distinct entries.
func (d *Dictionary) Len() int {
	return int(d.words.Load())
}

// Expand lists stored entries starting with prefix, including prefix itself.
// A limit <= 0 means no limit.
func (d *Dictionary) Expand(prefix string, limit int) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var words []string
	visit := func(p patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(p))
		if limit > 0 && len(words) >= limit {
			return errStopVisit
		}
		return nil
	}

	var err error
	if prefix == "" {
		err = d.index.Visit(visit)
	} else {
		err = d.index.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	if err != nil && !errors.Is(err, errStopVisit) {
		log.Errorf("Error visiting dictionary index: %v", err)
	}
	return words
}

// Words lists every stored entry.
func (d *Dictionary) Words() []string {
	return d.Expand("", 0)
}

// Stats walks the trie. It is a full traversal; do not call it per request.
func (d *Dictionary) Stats() Stats {
	st := Stats{
		Words: d.Len(),
		Chars: d.chars.Len(),
	}
	d.root.walk(func(seg *Segment, depth int) {
		if seg == d.root {
			return
		}
		st.Nodes++
		switch seg.Mode() {
		case StorageArray:
			st.ArrayNodes++
		case StorageMap:
			st.MapNodes++
		default:
			st.Leaves++
		}
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		if n := seg.ChildCount(); n > st.MaxFanout {
			st.MaxFanout = n
		}
	})
	if n := d.root.ChildCount(); n > st.MaxFanout {
		st.MaxFanout = n
	}
	return st
}
