package segment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordseg/pkg/query"
	"github.com/charmbracelet/log"
	"github.com/go-ego/gse"
)

// gseFrequency is the weight given to words added on top of the gse dictionary.
const gseFrequency = 1000.0

// GseSource segments text with gse. Its readings never overlap, so a Branch
// built from it is a plain AND chain.
type GseSource struct {
	seg gse.Segmenter
}

// NewGseSource loads the gse default dictionary and adds words to it.
func NewGseSource(words []string) (*GseSource, error) {
	seg, err := gse.New()
	if err != nil {
		return nil, fmt.Errorf("failed to init gse segmenter: %w", err)
	}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			seg.AddToken(w, gseFrequency)
		}
	}
	log.Debugf("gse source ready with %d extra words", len(words))
	return &GseSource{seg: seg}, nil
}

// Lexemes implements query.Source. gse works on byte offsets; they are
// converted to rune offsets here.
func (s *GseSource) Lexemes(text string) ([]query.Lexeme, error) {
	data := []byte(text)
	var lexemes []query.Lexeme

	bytePos, runePos := 0, 0
	for _, sg := range s.seg.Segment(data) {
		start, end := sg.Start(), sg.End()
		if start < bytePos || end > len(data) || end <= start {
			return nil, fmt.Errorf("gse returned segment [%d,%d) outside [%d,%d)", start, end, bytePos, len(data))
		}
		runePos += utf8.RuneCount(data[bytePos:start])
		word := string(data[start:end])
		n := utf8.RuneCountInString(word)
		if strings.TrimSpace(word) != "" {
			lexemes = append(lexemes, query.Lexeme{Begin: runePos, End: runePos + n, Text: word})
		}
		bytePos, runePos = end, runePos+n
	}
	return lexemes, nil
}
