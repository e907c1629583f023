// Package tokenizer splits text into alternating word and whitespace runs.
//
// Every byte of the input lands in exactly one token, so concatenating the
// token texts reproduces the input. Whitespace is decided by unicode.IsSpace;
// bytes that are not valid UTF-8 decode to utf8.RuneError and so count as
// word characters.
package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// Token is one maximal run of word or whitespace characters.
type Token struct {
	Text   string
	IsWord bool
	// WordIndex is the ordinal of a word among words. A whitespace run
	// carries the index of the word before it, or 0 when none precedes it.
	WordIndex int
}

// Tokenize splits text into tokens. Empty input yields nil.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}

	var (
		tokens []Token
		words  int
		start  int
	)
	first, _ := utf8.DecodeRuneInString(text)
	inWord := !unicode.IsSpace(first)

	emit := func(end int) {
		tok := Token{Text: text[start:end], IsWord: inWord}
		if inWord {
			tok.WordIndex = words
			words++
		} else {
			tok.WordIndex = max(words-1, 0)
		}
		tokens = append(tokens, tok)
		start = end
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		word := !unicode.IsSpace(r)
		if word != inWord {
			emit(i)
			inWord = word
		}
		i += size
	}
	emit(len(text))

	return tokens
}

// TotalWords counts the word tokens.
func TotalWords(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.IsWord {
			n++
		}
	}
	return n
}

// Visible reports whether tok is shown when visibleWords words are revealed.
// Whitespace is always shown so masked words keep their spacing.
func Visible(tok Token, visibleWords int) bool {
	return !tok.IsWord || tok.WordIndex < visibleWords
}
