package query

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNoField is returned when no field name is given.
	ErrNoField = errors.New("query: field is required")
	// ErrLengthMismatch is returned when parallel argument slices differ in length.
	ErrLengthMismatch = errors.New("query: argument lengths differ")
)

// Source finds the lexemes of a piece of text, ordered for a Branch.
type Source interface {
	Lexemes(text string) ([]Lexeme, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(text string) ([]Lexeme, error)

// Lexemes calls f(text).
func (f SourceFunc) Lexemes(text string) ([]Lexeme, error) {
	return f(text)
}

// Analyze runs src over text and folds the result into a new root branch.
func Analyze(src Source, text string) (*Branch, []Lexeme, error) {
	lexemes, err := src.Lexemes(text)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find lexemes: %w", err)
	}
	root := NewBranch(nil)
	for i := range lexemes {
		if _, err := root.Accept(&lexemes[i]); err != nil {
			return nil, nil, fmt.Errorf("failed to accept %s: %w", lexemes[i].String(), err)
		}
	}
	return root, lexemes, nil
}

// Parser turns user text into expressions over one or more fields.
type Parser struct {
	source Source
	// SplitWhitespace analyzes each whitespace separated part on its own and
	// ORs the parts together.
	SplitWhitespace bool
}

// NewParser creates a parser splitting on whitespace.
func NewParser(src Source) *Parser {
	return &Parser{source: src, SplitWhitespace: true}
}

// Parse analyzes text for one field. Blank text gives a term with empty text;
// text without any lexeme gives nil.
func (p *Parser) Parse(field, text string) (*Expr, error) {
	e, _, err := p.ParseLexemes(field, text)
	return e, err
}

// ParseLexemes is Parse that also returns the lexemes the expression was built
// from, with offsets in characters of the whole text.
func (p *Parser) ParseLexemes(field, text string) (*Expr, []Lexeme, error) {
	if field == "" {
		return nil, nil, ErrNoField
	}
	parts := []string{text}
	if p.SplitWhitespace {
		parts = strings.Fields(text)
	}
	if len(parts) <= 1 {
		return p.parsePart(field, text, 0)
	}

	result := Bool()
	var all []Lexeme
	cursor := 0
	for _, part := range parts {
		idx := cursor + strings.Index(text[cursor:], part)
		e, lexemes, err := p.parsePart(field, part, utf8.RuneCountInString(text[:idx]))
		if err != nil {
			return nil, nil, err
		}
		cursor = idx + len(part)
		all = append(all, lexemes...)
		if usable(e) {
			result.Add(Should, e)
		}
	}
	return result, all, nil
}

// parsePart analyzes one part of a text starting offset characters in.
func (p *Parser) parsePart(field, text string, offset int) (*Expr, []Lexeme, error) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	offset += utf8.RuneCountInString(text) - utf8.RuneCountInString(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return Term(field, ""), nil, nil
	}
	root, lexemes, err := Analyze(p.source, trimmed)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Lexeme, len(lexemes))
	for i, l := range lexemes {
		out[i] = Lexeme{Begin: l.Begin + offset, End: l.End + offset, Text: l.Text}
	}
	return root.Expr(field), out, nil
}

// ParseMultiField ORs the parse of text over every non-empty field.
func (p *Parser) ParseMultiField(fields []string, text string) (*Expr, error) {
	if len(fields) == 0 {
		return nil, ErrNoField
	}
	occurs := make([]Occur, len(fields))
	for i := range occurs {
		occurs[i] = Should
	}
	return p.ParseMultiFieldOccur(fields, text, occurs)
}

// ParseMultiFieldOccur parses text over every non-empty field, each joined with its own occur.
func (p *Parser) ParseMultiFieldOccur(fields []string, text string, occurs []Occur) (*Expr, error) {
	texts := make([]string, len(fields))
	for i := range texts {
		texts[i] = text
	}
	return p.ParseFieldsOccur(fields, texts, occurs)
}

// ParseFields ORs the parse of texts[i] over fields[i].
func (p *Parser) ParseFields(fields, texts []string) (*Expr, error) {
	occurs := make([]Occur, len(fields))
	for i := range occurs {
		occurs[i] = Should
	}
	return p.ParseFieldsOccur(fields, texts, occurs)
}

// ParseFieldsOccur parses texts[i] over fields[i] joined with occurs[i].
// Empty field names are skipped.
func (p *Parser) ParseFieldsOccur(fields, texts []string, occurs []Occur) (*Expr, error) {
	if len(fields) == 0 {
		return nil, ErrNoField
	}
	if len(texts) != len(fields) || len(occurs) != len(fields) {
		return nil, fmt.Errorf("%w: fields=%d texts=%d occurs=%d", ErrLengthMismatch, len(fields), len(texts), len(occurs))
	}

	result := Bool()
	for i, field := range fields {
		if field == "" {
			continue
		}
		e, err := p.Parse(field, texts[i])
		if err != nil {
			return nil, err
		}
		if usable(e) {
			result.Add(occurs[i], e)
		}
	}
	return result, nil
}

func usable(e *Expr) bool {
	return e != nil && !e.IsEmpty()
}
