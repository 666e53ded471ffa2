package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsCJK reports whether r is a Han, Hiragana, Katakana or Hangul character.
func IsCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// RuneCount returns the number of characters in s.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateRunes cuts s to at most max characters. A max of 0 or less leaves s as is.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos]
		}
		i++
	}
	return s
}

// HeadRune returns the first character of s, or utf8.RuneError when s is empty.
func HeadRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
