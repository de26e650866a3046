package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a maximal run of either whitespace or non-whitespace text.
type Token struct {
	Text  string
	Space bool
}

// Tokenize splits s into alternating whitespace and word tokens.
// Concatenating the token texts reproduces s byte for byte.
func Tokenize(s string) []Token {
	var tokens []Token
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, Token{Text: s[start:i], Space: inSpace})
			start = i
			inSpace = space
		}
	}
	if start < len(s) {
		tokens = append(tokens, Token{Text: s[start:], Space: inSpace})
	}
	return tokens
}

// CountWords returns the number of non-whitespace tokens in s.
func CountWords(s string) int {
	n := 0
	for _, tok := range Tokenize(s) {
		if !tok.Space {
			n++
		}
	}
	return n
}

// markupDelimiters are the characters that make a word unsafe to transform:
// they belong to tags or character references.
const markupDelimiters = "<>&"

// Protected reports whether word must pass through without an effect.
// Protected words never count toward document position.
func Protected(word string) bool {
	return strings.ContainsAny(word, markupDelimiters) || !utf8.ValidString(word)
}
