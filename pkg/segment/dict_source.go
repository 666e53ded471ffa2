// Package segment finds the lexemes of a text, the input of a query.Branch.
package segment

import (
	"unicode"

	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/query"
)

// DictSource reports every dictionary word occurring in the text, overlaps
// included. Runes covered by no word are reported on their own unless
// SingleRunes is off. Whitespace is never reported.
type DictSource struct {
	dict        *dic.Dictionary
	SingleRunes bool
}

// NewDictSource creates a source over d.
func NewDictSource(d *dic.Dictionary) *DictSource {
	return &DictSource{dict: d, SingleRunes: true}
}

// Lexemes implements query.Source.
func (s *DictSource) Lexemes(text string) ([]query.Lexeme, error) {
	chars := []rune(text)
	covered := make([]bool, len(chars))
	var lexemes []query.Lexeme

	for begin := range chars {
		if unicode.IsSpace(chars[begin]) {
			continue
		}
		end := begin + 1
		h := s.dict.Match(chars, begin, 1)
		for {
			if h.IsMatch() {
				lexemes = append(lexemes, query.Lexeme{Begin: begin, End: end, Text: string(chars[begin:end])})
				for i := begin; i < end; i++ {
					covered[i] = true
				}
			}
			if !h.IsPrefix() || end >= len(chars) {
				break
			}
			h = s.dict.MatchNext(h, chars[end])
			end++
		}
	}

	if s.SingleRunes {
		for i, c := range chars {
			if !covered[i] && !unicode.IsSpace(c) {
				lexemes = append(lexemes, query.Lexeme{Begin: i, End: i + 1, Text: string(c)})
			}
		}
	}

	query.SortLexemes(lexemes)
	return lexemes, nil
}
