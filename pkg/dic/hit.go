package dic

import "strings"

const (
	hitUnmatch uint8 = 0
	hitMatch   uint8 = 1 << 0
	hitPrefix  uint8 = 1 << 1
)

// Hit is the outcome of one trie descent. Match and prefix can hold at the
// same time; a Hit with neither is unmatched.
type Hit struct {
	state uint8
	// Begin and End delimit the matched characters in the query, half-open.
	Begin int
	End   int
	// node is the segment the descent stopped on, kept for MatchNext.
	node *Segment
}

// IsMatch reports whether the path ends on a complete dictionary entry.
func (h Hit) IsMatch() bool {
	return h.state&hitMatch != 0
}

// IsPrefix reports whether longer entries extend the path.
func (h Hit) IsPrefix() bool {
	return h.state&hitPrefix != 0
}

// IsUnmatch reports whether the path is neither an entry nor a prefix.
func (h Hit) IsUnmatch() bool {
	return h.state == hitUnmatch
}

// Len is the number of characters covered by the hit.
func (h Hit) Len() int {
	return h.End - h.Begin
}

func (h Hit) String() string {
	if h.IsUnmatch() {
		return "unmatch"
	}
	var parts []string
	if h.IsMatch() {
		parts = append(parts, "match")
	}
	if h.IsPrefix() {
		parts = append(parts, "prefix")
	}
	return strings.Join(parts, "|")
}

func hitFor(node *Segment, begin, end int) Hit {
	h := Hit{Begin: begin, End: end, node: node}
	if node.IsWordEnd() {
		h.state |= hitMatch
	}
	if node.HasNext() {
		h.state |= hitPrefix
	}
	return h
}
