package textindex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordSet is a membership test over the common-word dictionary.
type WordSet interface {
	Contains(word string) bool
}

// DefaultMinTermLength is the shortest term (in runes) that can be indexed.
const DefaultMinTermLength = 3

// Filter decides whether a normalized, lowercased term is indexable.
type Filter struct {
	words     WordSet
	minLength int
}

// NewFilter creates a Filter over the given common words.
// A nil set excludes nothing; minLength <= 0 uses DefaultMinTermLength.
func NewFilter(words WordSet, minLength int) *Filter {
	if minLength <= 0 {
		minLength = DefaultMinTermLength
	}
	return &Filter{words: words, minLength: minLength}
}

// Eligible reports whether term passes the length, leading-digit,
// common-word (including the simple plural) and URL checks.
func (f *Filter) Eligible(term string) bool {
	if utf8.RuneCountInString(term) < f.minLength {
		return false
	}

	first, _ := utf8.DecodeRuneInString(term)
	// Any numeric rune, superscripts and fractions included.
	if unicode.IsNumber(first) {
		return false
	}

	if f.words != nil && (f.words.Contains(term) || f.words.Contains(term+"s")) {
		return false
	}

	if strings.HasPrefix(term, "http://") || strings.HasPrefix(term, "https://") {
		return false
	}

	return true
}
