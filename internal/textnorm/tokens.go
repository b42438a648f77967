package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"

	"FakeNewsFeatures/internal/domain"
)

// Words splits s on Unicode word boundaries (UAX #29) and drops segments made
// only of punctuation, symbols or whitespace.
func Words(s string) []string {
	var out []string
	tokens := words.FromString(s)
	for tokens.Next() {
		token := tokens.Value()
		if isWordlike(token) {
			out = append(out, token)
		}
	}
	return out
}

func isWordlike(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Len is the character length of s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// JoinFullText builds the full_text field from cleaned title and body.
func JoinFullText(title, text string) string {
	return title + ". " + text
}

// Measure computes the cleaning-stage counts over a cleaned full text.
func Measure(fullText string) domain.Metadata {
	return domain.Metadata{
		NWord: len(Words(fullText)),
		NChar: Len(fullText),
		NURL:  strings.Count(fullText, URLToken),
		NNum:  strings.Count(fullText, NumToken),
	}
}
