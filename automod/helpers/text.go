package helpers

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rivo/uniseg"
	"github.com/spaolacci/murmur3"
	"golang.org/x/text/unicode/norm"
)

// returns a fast, compact hash of a string
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOfString(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}

// Splits text in to user-perceived characters (grapheme clusters), after NFC normalization.
func graphemes(s string) []string {
	s = norm.NFC.String(s)
	out := make([]string, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// Similarity ratio of two strings, between 0.0 (nothing in common) and 1.0 (identical).
//
// This is the Ratcliff/Obershelp "gestalt" ratio (2*M/T, where M is the total size of the longest matching blocks and T the combined length), computed over grapheme clusters. Edits that only touch whitespace or punctuation keep the score high; unrelated text of similar length scores low.
func Similarity(a, b string) float64 {
	ga := graphemes(a)
	gb := graphemes(b)
	if len(ga) == 0 && len(gb) == 0 {
		return 1.0
	}
	return difflib.NewMatcher(ga, gb).Ratio()
}

// Renders message content as a block quote, one "> " prefix per line. Empty content renders as an explicit placeholder.
func QuoteContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return "> *(no text content)*"
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
