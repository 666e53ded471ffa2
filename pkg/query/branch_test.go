package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const field = "content"

func lex(begin, end int, text string) *Lexeme {
	return NewLexeme(begin, end, text)
}

func build(t *testing.T, lexemes ...*Lexeme) *Branch {
	t.Helper()
	root := NewBranch(nil)
	for _, l := range lexemes {
		ok, err := root.Accept(l)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return root
}

func term(text string) *Expr {
	return Term(field, text)
}

func TestBranchSequentialTermsAreAnded(t *testing.T) {
	root := build(t, lex(0, 2, "北京"), lex(2, 4, "大学"))

	want := And(term("北京"), term("大学"))
	got := root.Expr(field)
	assert.True(t, want.Equal(got), "got %s", got)
	assert.True(t, got.IsAnd())
}

func TestBranchLongestFirstGivesOrOfReadings(t *testing.T) {
	root := build(t, lex(0, 4, "北京大学"), lex(0, 2, "北京"), lex(2, 4, "大学"))

	want := Or(term("北京大学"), And(term("北京"), term("大学")))
	got := root.Expr(field)
	assert.True(t, want.Equal(got), "got %s", got)
	assert.Equal(t, "content:北京大学 (+content:北京 +content:大学)", got.String())
}

func TestBranchShortFirstKeepsBothReadings(t *testing.T) {
	root := build(t, lex(0, 2, "北京"), lex(0, 4, "北京大学"), lex(2, 4, "大学"))

	want := Or(And(term("北京"), term("大学")), term("北京大学"))
	got := root.Expr(field)
	assert.True(t, want.Equal(got), "got %s", got)
	assert.True(t, got.IsOr())

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "北京", children[0].Lexeme().Text)
	require.NotNil(t, children[0].Next())
	assert.Nil(t, children[0].Next().Lexeme())
	assert.Equal(t, "北京大学", children[1].Lexeme().Text)
	assert.Nil(t, children[1].Next())
	assert.Equal(t, 0, root.LeftBorder())
	assert.Equal(t, 4, root.RightBorder())
}

func TestBranchCompoundAgainstChain(t *testing.T) {
	root := build(t,
		lex(0, 7, "中华人民共和国"),
		lex(0, 2, "中华"),
		lex(2, 4, "人民"),
		lex(4, 7, "共和国"),
	)

	want := Or(
		term("中华人民共和国"),
		And(term("中华"), term("人民"), term("共和国")),
	)
	got := root.Expr(field)
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestBranchNextChainOnRoot(t *testing.T) {
	root := build(t, lex(0, 1, "我"), lex(1, 2, "爱"), lex(2, 4, "北京"))

	want := And(term("我"), term("爱"), term("北京"))
	got := root.Expr(field)
	assert.True(t, want.Equal(got), "got %s", got)
	require.NotNil(t, root.Next())
	require.NotNil(t, root.Next().Next())
}

func TestBranchAmbiguityFollowedBySequence(t *testing.T) {
	root := build(t, lex(0, 2, "ab"), lex(0, 1, "a"), lex(1, 2, "b"), lex(2, 3, "c"))

	want := And(
		Or(term("ab"), And(term("a"), term("b"))),
		term("c"),
	)
	got := root.Expr(field)
	assert.True(t, want.Equal(got), "got %s", got)
	assert.Equal(t, "+(content:ab (+content:a +content:b)) +content:c", got.String())
}

func TestBranchSingleTerm(t *testing.T) {
	root := build(t, lex(0, 2, "北京"))
	got := root.Expr(field)
	assert.True(t, term("北京").Equal(got))
	assert.True(t, got.IsTerm())
}

func TestBranchEmpty(t *testing.T) {
	root := NewBranch(nil)
	assert.True(t, root.IsEmpty())
	assert.Nil(t, root.Expr(field))
	assert.Empty(t, root.ToExpr(field))
}

func TestBranchExprIsIdempotent(t *testing.T) {
	root := build(t, lex(0, 4, "北京大学"), lex(0, 2, "北京"), lex(2, 4, "大学"), lex(4, 6, "学生"))
	first := root.Expr(field)
	second := root.Expr(field)
	assert.True(t, first.Equal(second))
	assert.NotSame(t, first, second)
}

func TestBranchAcceptErrors(t *testing.T) {
	root := NewBranch(nil)

	_, err := root.Accept(nil)
	assert.ErrorIs(t, err, ErrNilLexeme)

	_, err = root.Accept(lex(3, 3, ""))
	assert.ErrorIs(t, err, ErrInvalidLexeme)
	_, err = root.Accept(lex(-1, 2, "x"))
	assert.ErrorIs(t, err, ErrInvalidLexeme)

	ok, err := root.Accept(lex(2, 4, "大学"))
	require.NoError(t, err)
	require.True(t, ok)

	before := root.Expr(field)
	ok, err = root.Accept(lex(0, 2, "北京"))
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.False(t, ok)
	assert.True(t, before.Equal(root.Expr(field)), "tree unchanged after a rejected lexeme")
}

func TestBranchAnchoredRefusesOverlap(t *testing.T) {
	b := NewBranch(lex(0, 4, "北京大学"))
	assert.False(t, b.accept(lex(2, 4, "大学")))
	assert.True(t, b.accept(lex(4, 6, "学生")))
	require.NotNil(t, b.Next())
	assert.Equal(t, "学生", b.Next().Children()[0].Lexeme().Text)
}

func TestSortLexemes(t *testing.T) {
	lexemes := []Lexeme{
		{Begin: 2, End: 4, Text: "大学"},
		{Begin: 0, End: 2, Text: "北京"},
		{Begin: 0, End: 4, Text: "北京大学"},
	}
	SortLexemes(lexemes)
	assert.Equal(t, "北京大学", lexemes[0].Text)
	assert.Equal(t, "北京", lexemes[1].Text)
	assert.Equal(t, "大学", lexemes[2].Text)
}

func TestLexemeOverlaps(t *testing.T) {
	a := lex(0, 4, "北京大学")
	assert.True(t, a.Overlaps(lex(2, 4, "大学")))
	assert.False(t, a.Overlaps(lex(4, 6, "学生")))
	assert.Equal(t, "0-4 : 北京大学", a.String())
}
