package query

import (
	"fmt"
	"sort"
)

// Lexeme is a positioned term found in the text. Begin and End are rune
// offsets, half-open.
type Lexeme struct {
	Begin int
	End   int
	Text  string
}

// NewLexeme builds a lexeme covering [begin, end).
func NewLexeme(begin, end int, text string) *Lexeme {
	return &Lexeme{Begin: begin, End: end, Text: text}
}

// Len returns the number of runes covered.
func (l *Lexeme) Len() int {
	return l.End - l.Begin
}

// Overlaps reports whether l and o share at least one position.
func (l *Lexeme) Overlaps(o *Lexeme) bool {
	return l.Begin < o.End && o.Begin < l.End
}

func (l *Lexeme) String() string {
	return fmt.Sprintf("%d-%d : %s", l.Begin, l.End, l.Text)
}

// SortLexemes orders lexemes by begin offset, longer ones first on ties.
// This is the order a Branch expects.
func SortLexemes(lexemes []Lexeme) {
	sort.SliceStable(lexemes, func(i, j int) bool {
		if lexemes[i].Begin != lexemes[j].Begin {
			return lexemes[i].Begin < lexemes[j].Begin
		}
		return lexemes[i].Len() > lexemes[j].Len()
	})
}
