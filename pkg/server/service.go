package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bastiangx/wordseg/internal/utils"
	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/dictionary"
	"github.com/bastiangx/wordseg/pkg/query"
	"github.com/charmbracelet/log"
)

var (
	ErrEmptyText   = errors.New("text is empty")
	ErrTextTooLong = errors.New("text too long")
	ErrBadRange    = errors.New("begin/length out of range")
)

// Service answers the operations shared by the IPC and HTTP transports.
type Service struct {
	dict   *dic.Dictionary
	parser *query.Parser
	loader *dictionary.ChunkLoader

	DefaultField string
	MaxTextLen   int // in characters, 0 means unlimited
	ExpandLimit  int
}

// NewService creates a service matching against d and analyzing with src.
func NewService(d *dic.Dictionary, src query.Source) *Service {
	return &Service{
		dict:         d,
		parser:       query.NewParser(src),
		DefaultField: "content",
		ExpandLimit:  64,
	}
}

// Parser exposes the parser so callers can change its options.
func (s *Service) Parser() *query.Parser {
	return s.parser
}

// WithLoader makes Stats report the progress of a lazy chunk loader.
func (s *Service) WithLoader(cl *dictionary.ChunkLoader) *Service {
	s.loader = cl
	return s
}

func (s *Service) checkText(text string) error {
	if utils.IsBlank(text) {
		return ErrEmptyText
	}
	if s.MaxTextLen > 0 && utils.RuneCount(text) > s.MaxTextLen {
		return fmt.Errorf("%w: more than %d characters", ErrTextTooLong, s.MaxTextLen)
	}
	return nil
}

// Match looks up text[begin:begin+length]; a length of 0 means the rest of the text.
func (s *Service) Match(text string, begin, length int) (MatchResponse, error) {
	if err := s.checkText(text); err != nil {
		return MatchResponse{}, err
	}
	chars := []rune(text)
	if begin >= 0 && length == 0 {
		length = len(chars) - begin
	}
	if begin < 0 || begin >= len(chars) || length <= 0 || length > len(chars)-begin {
		return MatchResponse{}, fmt.Errorf("%w: begin=%d length=%d size=%d", ErrBadRange, begin, length, len(chars))
	}
	h := s.dict.Match(chars, begin, length)
	return MatchResponse{
		Match:   h.IsMatch(),
		Prefix:  h.IsPrefix(),
		Unmatch: h.IsUnmatch(),
		Begin:   h.Begin,
		End:     h.End,
	}, nil
}

// Analyze finds the lexemes of text and builds the expression for field.
func (s *Service) Analyze(field, text string) (AnalyzeResponse, error) {
	if err := s.checkText(text); err != nil {
		return AnalyzeResponse{}, err
	}
	if field == "" {
		field = s.DefaultField
	}

	start := time.Now()
	expr, lexemes, err := s.parser.ParseLexemes(field, text)
	if err != nil {
		return AnalyzeResponse{}, err
	}
	elapsed := time.Since(start)

	out := make([]Lexeme, len(lexemes))
	for i, l := range lexemes {
		out[i] = Lexeme{Begin: l.Begin, End: l.End, Text: l.Text}
	}
	log.Debugf("Analyzed %q into %d lexemes in %v", text, len(lexemes), elapsed)
	return AnalyzeResponse{
		Field:     field,
		Lexemes:   out,
		Expr:      expr.String(),
		TimeTaken: elapsed.Microseconds(),
	}, nil
}

// Expand lists dictionary words starting with prefix, capped at ExpandLimit.
func (s *Service) Expand(prefix string, limit int) ExpandResponse {
	if limit <= 0 || (s.ExpandLimit > 0 && limit > s.ExpandLimit) {
		limit = s.ExpandLimit
	}
	words := s.dict.Expand(prefix, limit)
	if words == nil {
		words = []string{}
	}
	return ExpandResponse{Words: words, Count: len(words)}
}

// Stats walks the dictionary; it is not meant for hot paths.
func (s *Service) Stats() StatsResponse {
	st := s.dict.Stats()
	resp := StatsResponse{
		Words:      st.Words,
		Nodes:      st.Nodes,
		ArrayNodes: st.ArrayNodes,
		MapNodes:   st.MapNodes,
		MaxDepth:   st.MaxDepth,
		Chars:      st.Chars,
	}
	if s.loader != nil {
		ls := s.loader.GetStats()
		resp.LoadedChunks = ls.LoadedChunks
		resp.Loading = ls.IsLoading
	}
	return resp
}

// StatusCode maps a service error to an HTTP style status code.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrBadRange), errors.Is(err, query.ErrNoField):
		return http.StatusBadRequest
	case errors.Is(err, ErrTextTooLong):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
