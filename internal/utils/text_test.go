package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"北京大学", 2, "北京"},
		{"北京大学", 4, "北京大学"},
		{"北京大学", 10, "北京大学"},
		{"abc", 0, "abc"},
		{"", 3, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.max), "%q/%d", tt.in, tt.max)
	}
}

func TestTextHelpers(t *testing.T) {
	assert.True(t, IsBlank(" \t\n"))
	assert.False(t, IsBlank(" 北 "))
	assert.True(t, IsCJK('北'))
	assert.True(t, IsCJK('カ'))
	assert.False(t, IsCJK('a'))
	assert.Equal(t, 4, RuneCount("北京大学"))
	assert.Equal(t, '北', HeadRune("北京"))
	assert.Equal(t, utf8.RuneError, HeadRune(""))
}
