package knowledge

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Analyze lowercases text and splits it into terms. Runs of letters and
// digits form one term; every Han character is a term of its own, since
// lecture notes mix English with Chinese and there is no segmenter.
func Analyze(text string) []string {
	var terms []string
	i := 0

	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.Is(unicode.Han, r) {
			terms = append(terms, string(r))
			i += size
			continue
		}
		if !isWordRune(r) {
			i += size
			continue
		}

		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isWordRune(r) || unicode.Is(unicode.Han, r) {
				break
			}
			i += size
		}
		terms = append(terms, strings.ToLower(text[start:i]))
	}

	return terms
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
