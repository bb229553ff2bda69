// internal/words/words.go
//
// Word counting and trap matching for prompt scoring.
//
// Responsibilities:
//   - Count words in a prompt (a word is a maximal run of non-whitespace).
//   - Normalize words for comparison (lowercase, surrounding punctuation stripped).
//   - Count whole-word occurrences of trap strings, including multi-word traps.
//
// Notes:
//   - Count follows strings.Fields, so "a  b\n" is 2 words and "   " is 0.
//   - Trap matching is case-insensitive and ignores punctuation that wraps a word,
//     so the trap "zara" matches "Zara," and "(ZARA)" but not "Zaras".

package words

import (
	"strings"
	"unicode"
)

// Count returns the number of whitespace-separated words in s.
func Count(s string) int {
	return len(strings.Fields(s))
}

// Normalize lowercases w and trims leading/trailing punctuation and symbols.
// Inner punctuation is kept ("h&m" stays "h&m", "don't" stays "don't").
func Normalize(w string) string {
	w = strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return strings.ToLower(w)
}

// Tokens splits s into normalized words, dropping tokens that were pure punctuation.
func Tokens(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := Normalize(f); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// CountOccurrences counts whole-word occurrences of phrase in text.
// A multi-word phrase must appear as consecutive words.
// Empty phrases never match.
func CountOccurrences(text, phrase string) int {
	needle := Tokens(phrase)
	if len(needle) == 0 {
		return 0
	}
	hay := Tokens(text)
	n := 0
	for i := 0; i+len(needle) <= len(hay); i++ {
		if matchAt(hay, needle, i) {
			n++
		}
	}
	return n
}

// TrapHits sums CountOccurrences of every trap across every prompt.
func TrapHits(prompts, traps []string) int {
	total := 0
	for _, p := range prompts {
		for _, t := range traps {
			total += CountOccurrences(p, t)
		}
	}
	return total
}

// matchAt reports whether needle appears in hay starting at index i.
func matchAt(hay, needle []string, i int) bool {
	for j, w := range needle {
		if hay[i+j] != w {
			return false
		}
	}
	return true
}
