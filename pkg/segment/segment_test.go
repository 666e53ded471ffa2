package segment

import (
	"testing"

	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDict(t *testing.T, words ...string) *dic.Dictionary {
	t.Helper()
	d := dic.NewDictionaryWithTable(dic.NewCharTable())
	for _, w := range words {
		_, err := d.AddWord(w)
		require.NoError(t, err)
	}
	return d
}

func TestDictSourceLexemes(t *testing.T) {
	src := NewDictSource(newDict(t, "北京", "北京大学", "大学"))

	got, err := src.Lexemes("北京大学")
	require.NoError(t, err)
	assert.Equal(t, []query.Lexeme{
		{Begin: 0, End: 4, Text: "北京大学"},
		{Begin: 0, End: 2, Text: "北京"},
		{Begin: 2, End: 4, Text: "大学"},
	}, got)
}

func TestDictSourceUncoveredRunes(t *testing.T) {
	src := NewDictSource(newDict(t, "北京"))

	got, err := src.Lexemes("去 北京吧")
	require.NoError(t, err)
	assert.Equal(t, []query.Lexeme{
		{Begin: 0, End: 1, Text: "去"},
		{Begin: 2, End: 4, Text: "北京"},
		{Begin: 4, End: 5, Text: "吧"},
	}, got)

	src.SingleRunes = false
	got, err = src.Lexemes("去 北京吧")
	require.NoError(t, err)
	assert.Equal(t, []query.Lexeme{{Begin: 2, End: 4, Text: "北京"}}, got)
}

func TestDictSourceEmpty(t *testing.T) {
	src := NewDictSource(newDict(t, "北京"))
	got, err := src.Lexemes("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEndToEnd(t *testing.T) {
	src := NewDictSource(newDict(t, "北京", "北京大学", "大学"))

	root, lexemes, err := query.Analyze(src, "北京大学")
	require.NoError(t, err)
	require.Len(t, lexemes, 3)

	want := query.Or(
		query.Term("content", "北京大学"),
		query.And(query.Term("content", "北京"), query.Term("content", "大学")),
	)
	got := root.Expr("content")
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestEndToEndParser(t *testing.T) {
	src := NewDictSource(newDict(t, "中华", "人民", "共和国", "中华人民共和国", "万岁"))
	p := query.NewParser(src)

	got, err := p.Parse("f", "中华人民共和国万岁")
	require.NoError(t, err)
	want := query.And(
		query.Or(
			query.Term("f", "中华人民共和国"),
			query.And(query.Term("f", "中华"), query.Term("f", "人民"), query.Term("f", "共和国")),
		),
		query.Term("f", "万岁"),
	)
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestGseSourceOffsets(t *testing.T) {
	if testing.Short() {
		t.Skip("loading the gse dictionary is slow")
	}
	src, err := NewGseSource([]string{"北京大学"})
	require.NoError(t, err)

	text := "我在北京大学 读书"
	chars := []rune(text)
	got, err := src.Lexemes(text)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	prev := -1
	for _, l := range got {
		assert.Equal(t, string(chars[l.Begin:l.End]), l.Text)
		assert.GreaterOrEqual(t, l.Begin, prev)
		assert.NotEqual(t, " ", l.Text)
		prev = l.End
	}
}
