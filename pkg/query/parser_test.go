package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableSource answers from a fixed table of analyzed parts.
func tableSource(table map[string][]Lexeme) Source {
	return SourceFunc(func(text string) ([]Lexeme, error) {
		return table[text], nil
	})
}

var testTable = map[string][]Lexeme{
	"北京大学": {
		{Begin: 0, End: 4, Text: "北京大学"},
		{Begin: 0, End: 2, Text: "北京"},
		{Begin: 2, End: 4, Text: "大学"},
	},
	"学生":  {{Begin: 0, End: 2, Text: "学生"}},
	"???": nil,
}

func TestAnalyze(t *testing.T) {
	root, lexemes, err := Analyze(tableSource(testTable), "北京大学")
	require.NoError(t, err)
	assert.Len(t, lexemes, 3)
	assert.True(t, root.Expr("f").IsOr())
}

func TestAnalyzeErrors(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Analyze(SourceFunc(func(string) ([]Lexeme, error) { return nil, boom }), "x")
	assert.ErrorIs(t, err, boom)

	unordered := SourceFunc(func(string) ([]Lexeme, error) {
		return []Lexeme{{Begin: 2, End: 3, Text: "b"}, {Begin: 0, End: 1, Text: "a"}}, nil
	})
	_, _, err = Analyze(unordered, "ab")
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestParse(t *testing.T) {
	p := NewParser(tableSource(testTable))

	got, err := p.Parse("f", "北京大学")
	require.NoError(t, err)
	assert.Equal(t, "f:北京大学 (+f:北京 +f:大学)", got.String())

	got, err = p.Parse("f", "北京大学 学生")
	require.NoError(t, err)
	assert.True(t, got.IsOr())
	assert.Equal(t, "(f:北京大学 (+f:北京 +f:大学)) f:学生", got.String())

	got, err = p.Parse("f", "   ")
	require.NoError(t, err)
	assert.True(t, Term("f", "").Equal(got))

	got, err = p.Parse("f", "???")
	require.NoError(t, err)
	assert.Nil(t, got)

	// parts without lexemes are dropped
	got, err = p.Parse("f", "学生 ???")
	require.NoError(t, err)
	assert.True(t, Or(Term("f", "学生")).Equal(got))

	_, err = p.Parse("", "学生")
	assert.ErrorIs(t, err, ErrNoField)
}

func TestParseLexemes(t *testing.T) {
	calls := map[string]int{}
	src := tableSource(testTable)
	p := NewParser(SourceFunc(func(text string) ([]Lexeme, error) {
		calls[text]++
		return src.Lexemes(text)
	}))

	got, lexemes, err := p.ParseLexemes("f", "北京大学")
	require.NoError(t, err)
	assert.Equal(t, "f:北京大学 (+f:北京 +f:大学)", got.String())
	assert.Equal(t, testTable["北京大学"], lexemes)
	assert.Equal(t, 1, calls["北京大学"])

	got, lexemes, err = p.ParseLexemes("f", " 学生  北京大学")
	require.NoError(t, err)
	assert.Equal(t, "f:学生 (f:北京大学 (+f:北京 +f:大学))", got.String())
	assert.Equal(t, []Lexeme{
		{Begin: 1, End: 3, Text: "学生"},
		{Begin: 5, End: 9, Text: "北京大学"},
		{Begin: 5, End: 7, Text: "北京"},
		{Begin: 7, End: 9, Text: "大学"},
	}, lexemes)
	assert.Equal(t, 2, calls["北京大学"])
	assert.Equal(t, 1, calls["学生"])

	p.SplitWhitespace = false
	_, lexemes, err = p.ParseLexemes("f", "  学生")
	require.NoError(t, err)
	assert.Equal(t, []Lexeme{{Begin: 2, End: 4, Text: "学生"}}, lexemes)
}

func TestParseWithoutSplitting(t *testing.T) {
	src := SourceFunc(func(text string) ([]Lexeme, error) {
		assert.Equal(t, "学生 学生", text)
		return []Lexeme{{Begin: 0, End: 2, Text: "学生"}, {Begin: 3, End: 5, Text: "学生"}}, nil
	})
	p := NewParser(src)
	p.SplitWhitespace = false

	got, err := p.Parse("f", "学生 学生")
	require.NoError(t, err)
	assert.True(t, And(Term("f", "学生"), Term("f", "学生")).Equal(got))
}

func TestParseMultiField(t *testing.T) {
	p := NewParser(tableSource(testTable))

	got, err := p.ParseMultiField([]string{"title", "", "body"}, "学生")
	require.NoError(t, err)
	assert.True(t, Or(Term("title", "学生"), Term("body", "学生")).Equal(got))

	got, err = p.ParseMultiFieldOccur([]string{"title", "body"}, "学生", []Occur{Must, MustNot})
	require.NoError(t, err)
	assert.Equal(t, "+title:学生 -body:学生", got.String())

	_, err = p.ParseMultiField(nil, "学生")
	assert.ErrorIs(t, err, ErrNoField)

	_, err = p.ParseMultiFieldOccur([]string{"title", "body"}, "学生", []Occur{Must})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParseFields(t *testing.T) {
	p := NewParser(tableSource(testTable))

	got, err := p.ParseFields([]string{"title", "body"}, []string{"学生", "???"})
	require.NoError(t, err)
	assert.True(t, Or(Term("title", "学生")).Equal(got))

	got, err = p.ParseFieldsOccur([]string{"title", "body"}, []string{"学生", "学生"}, []Occur{Must, Should})
	require.NoError(t, err)
	assert.Equal(t, "+title:学生 body:学生", got.String())

	_, err = p.ParseFields([]string{"title"}, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestExprHelpers(t *testing.T) {
	e := And(Term("f", "a"), nil, Or(Term("f", "b"), Term("f", "c")))
	require.Len(t, e.Clauses, 2)
	assert.True(t, e.IsAnd())
	assert.False(t, e.IsOr())
	assert.False(t, Bool().IsAnd())
	assert.True(t, Bool().IsEmpty())

	var texts []string
	for _, leaf := range e.Terms() {
		texts = append(texts, leaf.Text)
	}
	assert.Equal(t, []string{"a", "b", "c"}, texts)

	assert.Nil(t, Optimize(nil))
	assert.Same(t, e, Optimize([]*Expr{e}))
	assert.False(t, Term("f", "a").Equal(Term("g", "a")))
	assert.False(t, And(Term("f", "a")).Equal(Or(Term("f", "a"))))
	assert.Equal(t, "MUST_NOT", MustNot.String())
}
