/*
Package dic implements the dictionary trie used to recognise words in text
that has no explicit word boundaries.

Every Segment represents one character. Children of a node live in a small
fixed array while the node has at most three of them and move to a map on
the fourth insertion; most nodes deep in the trie have a fan-out of one or
two, so only the crowded upper levels pay for a map.

	root := dic.NewRoot()
	root.Fill([]rune("北京大学"), 0, 4)
	hit := root.Match([]rune("北京"), 0, 2) // hit.IsPrefix() == true

Insertion locks one node at a time. Matching never locks: each node publishes
its child storage through an atomic pointer, so a reader sees either the
array or the migrated map, never a half-built one.
*/
package dic

import (
	"errors"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// arrayLimit is the number of children kept in the inline array.
const arrayLimit = 3

// ErrNoCharacter is returned when a segment would be built without a usable character.
var ErrNoCharacter = errors.New("dic: segment requires a character")

// StorageMode tells how a node currently keeps its children.
type StorageMode int

const (
	StorageNone StorageMode = iota
	StorageArray
	StorageMap
)

func (m StorageMode) String() string {
	switch m {
	case StorageArray:
		return "array"
	case StorageMap:
		return "map"
	default:
		return "none"
	}
}

// children is either *slotChildren or *mapChildren.
type children interface {
	lookup(r rune) *Segment
	each(fn func(*Segment))
	mode() StorageMode
}

type slotChildren struct {
	slots [arrayLimit]atomic.Pointer[Segment]
}

func (s *slotChildren) lookup(r rune) *Segment {
	for i := range s.slots {
		if seg := s.slots[i].Load(); seg != nil && seg.char == r {
			return seg
		}
	}
	return nil
}

func (s *slotChildren) each(fn func(*Segment)) {
	for i := range s.slots {
		if seg := s.slots[i].Load(); seg != nil {
			fn(seg)
		}
	}
}

func (s *slotChildren) mode() StorageMode { return StorageArray }

type mapChildren struct {
	m sync.Map // rune -> *Segment
}

func (c *mapChildren) lookup(r rune) *Segment {
	v, ok := c.m.Load(r)
	if !ok {
		return nil
	}
	return v.(*Segment)
}

func (c *mapChildren) each(fn func(*Segment)) {
	c.m.Range(func(_, v any) bool {
		fn(v.(*Segment))
		return true
	})
}

func (c *mapChildren) mode() StorageMode { return StorageMap }

// storage boxes the active children so both variants share one atomic pointer.
type storage struct {
	kids children
}

// Segment is one trie node.
type Segment struct {
	char  rune
	mu    sync.Mutex
	store atomic.Pointer[storage]
	size  atomic.Int32
	end   atomic.Bool
}

// NewSegment creates a detached node for r.
func NewSegment(r rune) (*Segment, error) {
	if !validChar(r) {
		return nil, ErrNoCharacter
	}
	return &Segment{char: r}, nil
}

// NewRoot creates the characterless root of a trie.
func NewRoot() *Segment {
	return &Segment{}
}

func validChar(r rune) bool {
	return r != 0 && utf8.ValidRune(r)
}

// Char returns the character held by the node.
func (s *Segment) Char() rune {
	return s.char
}

// IsWordEnd reports whether the path from the root to s spells an entry.
func (s *Segment) IsWordEnd() bool {
	return s.end.Load()
}

// HasNext reports whether s has at least one child.
func (s *Segment) HasNext() bool {
	return s.size.Load() > 0
}

// ChildCount returns the number of children of s.
func (s *Segment) ChildCount() int {
	return int(s.size.Load())
}

// Mode returns the storage currently used for the children of s.
func (s *Segment) Mode() StorageMode {
	box := s.store.Load()
	if box == nil {
		return StorageNone
	}
	return box.kids.mode()
}

// Child returns the child for r, or nil.
func (s *Segment) Child(r rune) *Segment {
	box := s.store.Load()
	if box == nil {
		return nil
	}
	return box.kids.lookup(r)
}

// Match descends from s over chars[begin:begin+length]. A length running past
// the end of chars is cut at the end. Empty input gives an unmatched Hit.
func (s *Segment) Match(chars []rune, begin, length int) Hit {
	if begin < 0 || begin >= len(chars) || length <= 0 {
		return Hit{Begin: begin, End: begin}
	}
	if length > len(chars)-begin {
		length = len(chars) - begin
	}
	end := begin + length

	node := s
	for i := begin; i < end; i++ {
		if node = node.Child(chars[i]); node == nil {
			return Hit{Begin: begin, End: end}
		}
	}
	return hitFor(node, begin, end)
}

// Fill inserts chars[begin:begin+length] below s using the process-wide CharTable.
func (s *Segment) Fill(chars []rune, begin, length int) error {
	return s.fill(chars, begin, length, defaultChars)
}

func (s *Segment) fill(chars []rune, begin, length int, table *CharTable) error {
	if begin < 0 || begin >= len(chars) || length <= 0 {
		return nil
	}
	if length > len(chars)-begin {
		length = len(chars) - begin
	}
	word := chars[begin : begin+length]
	for _, r := range word {
		if !validChar(r) {
			return ErrNoCharacter
		}
	}

	node := s
	for _, r := range word {
		node = node.lookupOrCreate(table.Intern(r))
	}
	node.end.Store(true)
	return nil
}

// lookupOrCreate returns the child for r, linking a new one if needed.
// The new child is complete before it is published.
func (s *Segment) lookupOrCreate(r rune) *Segment {
	s.mu.Lock()
	defer s.mu.Unlock()

	box := s.store.Load()
	if box == nil {
		box = &storage{kids: &slotChildren{}}
		s.store.Store(box)
	}
	if seg := box.kids.lookup(r); seg != nil {
		return seg
	}

	seg := &Segment{char: r}
	switch kids := box.kids.(type) {
	case *slotChildren:
		if n := int(s.size.Load()); n < arrayLimit {
			kids.slots[n].Store(seg)
		} else {
			s.migrate(kids, seg)
		}
	case *mapChildren:
		kids.m.Store(r, seg)
	}
	s.size.Add(1)
	return seg
}

// migrate moves the full array into a map together with extra. Called with s.mu held.
func (s *Segment) migrate(kids *slotChildren, extra *Segment) {
	table := &mapChildren{}
	kids.each(func(c *Segment) {
		table.m.Store(c.char, c)
	})
	table.m.Store(extra.char, extra)
	s.store.Store(&storage{kids: table})
}

// walk visits s and every node below it, depth first, with its depth.
func (s *Segment) walk(fn func(seg *Segment, depth int)) {
	type frame struct {
		seg   *Segment
		depth int
	}
	stack := []frame{{s, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.seg, f.depth)
		if box := f.seg.store.Load(); box != nil {
			box.kids.each(func(c *Segment) {
				stack = append(stack, frame{c, f.depth + 1})
			})
		}
	}
}
