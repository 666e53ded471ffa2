package server

import (
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/bastiangx/wordseg/pkg/dic"
	"github.com/bastiangx/wordseg/pkg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	d := dic.NewDictionaryWithTable(dic.NewCharTable())
	d.AddWords([]string{"北京", "大学", "北京大学", "北京人"})
	return NewService(d, segment.NewDictSource(d))
}

func TestServiceMatch(t *testing.T) {
	s := newTestService(t)

	resp, err := s.Match("北京大学", 0, 2)
	require.NoError(t, err)
	assert.True(t, resp.Match)
	assert.True(t, resp.Prefix)
	assert.Equal(t, 0, resp.Begin)
	assert.Equal(t, 2, resp.End)

	resp, err = s.Match("北京大学", 0, 0)
	require.NoError(t, err)
	assert.True(t, resp.Match)
	assert.False(t, resp.Prefix)

	resp, err = s.Match("北京大学", 1, 2)
	require.NoError(t, err)
	assert.True(t, resp.Unmatch)

	_, err = s.Match("北京", 1, 5)
	assert.ErrorIs(t, err, ErrBadRange)
	_, err = s.Match("北京", -1, 1)
	assert.ErrorIs(t, err, ErrBadRange)
	_, err = s.Match("大学", 1, math.MaxInt)
	assert.ErrorIs(t, err, ErrBadRange)
	_, err = s.Match("大学", 2, 0)
	assert.ErrorIs(t, err, ErrBadRange)
	_, err = s.Match("  ", 0, 1)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestServiceAnalyze(t *testing.T) {
	s := newTestService(t)

	resp, err := s.Analyze("", "北京大学")
	require.NoError(t, err)
	assert.Equal(t, "content", resp.Field)
	assert.Equal(t, "content:北京大学 (+content:北京 +content:大学)", resp.Expr)
	require.Len(t, resp.Lexemes, 3)
	assert.Equal(t, Lexeme{Begin: 0, End: 4, Text: "北京大学"}, resp.Lexemes[0])

	resp, err = s.Analyze("title", "北京 大学")
	require.NoError(t, err)
	assert.Equal(t, "title:北京 title:大学", resp.Expr)
	assert.Equal(t, []Lexeme{
		{Begin: 0, End: 2, Text: "北京"},
		{Begin: 3, End: 5, Text: "大学"},
	}, resp.Lexemes)

	s.MaxTextLen = 3
	_, err = s.Analyze("title", "北京大学")
	assert.ErrorIs(t, err, ErrTextTooLong)
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusCode(err))
}

func TestServiceExpandAndStats(t *testing.T) {
	s := newTestService(t)
	s.ExpandLimit = 2

	resp := s.Expand("北京", 0)
	assert.Equal(t, 2, resp.Count)
	for _, w := range resp.Words {
		assert.True(t, strings.HasPrefix(w, "北京"))
	}

	resp = s.Expand("上海", 10)
	assert.Equal(t, []string{}, resp.Words)

	st := s.Stats()
	assert.Equal(t, 4, st.Words)
	assert.Greater(t, st.Nodes, 0)
	assert.Equal(t, 4, st.MaxDepth)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(ErrEmptyText))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(assert.AnError))
}
