// Package protector masks structure-bearing Obsidian syntax (image embeds and
// wiki links) behind placeholder tokens so a rewrite step cannot alter it,
// and puts the original text back afterwards.
//
// # Token format
//
//	__IMG_<n>__   for ![[...]]
//	__LINK_<n>__  for [[...]] not preceded by '!'
//
// <n> is a zero-based counter shared by both kinds within one Protect call.
// Tokens never occur in the input text.
package protector

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	KindImage = "IMG"
	KindLink  = "LINK"
)

var (
	imagePattern = regexp.MustCompile(`!\[\[.*?\]\]`)
	linkPattern  = regexp.MustCompile(`\[\[.*?\]\]`)
)

// maxAttempts bounds the retries with a shifted counter when an inserted
// token merges with neighbouring text into a second occurrence.
const maxAttempts = 8

// Map holds placeholder tokens and the substrings they stand for. The zero
// value is an empty map.
type Map struct {
	originals map[string]string
	order     []string
}

// Len returns the number of protected substrings.
func (m Map) Len() int {
	return len(m.order)
}

// Tokens returns the placeholder tokens in minting order.
func (m Map) Tokens() []string {
	return append([]string(nil), m.order...)
}

// Original returns the substring a token stands for.
func (m Map) Original(token string) (string, bool) {
	original, ok := m.originals[token]
	return original, ok
}

func (m *Map) add(token, original string) {
	if m.originals == nil {
		m.originals = make(map[string]string)
	}
	m.originals[token] = original
	m.order = append(m.order, token)
}

// Protect replaces image embeds, then links, with placeholder tokens.
func Protect(text string) (string, Map) {
	start := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		masked, m := mask(text, start)
		if roundTrips(text, masked, m) {
			return masked, m
		}
		start += m.Len() + 1
	}
	// No unambiguous numbering found: leave the text unprotected rather than
	// restore into the wrong place.
	return text, Map{}
}

// Restore replaces every token with its original substring. Tokens the
// rewrite step removed or altered are left as they are.
//
// Tokens are restored newest first so that a link wrapped around an embed
// ("[[a ![[b]] c]]") comes back whole.
func Restore(text string, m Map) string {
	for i := len(m.order) - 1; i >= 0; i-- {
		token := m.order[i]
		text = strings.ReplaceAll(text, token, m.originals[token])
	}
	return text
}

// Missing returns the tokens that no longer appear in text.
func Missing(text string, m Map) []string {
	var missing []string
	for _, token := range m.order {
		if !strings.Contains(text, token) {
			missing = append(missing, token)
		}
	}
	return missing
}

func mask(text string, start int) (string, Map) {
	var m Map
	counter := start

	masked := replace(text, KindImage, imagePattern, text, &counter, &m)
	masked = replace(masked, KindLink, linkPattern, text, &counter, &m)
	return masked, m
}

func replace(input, kind string, pattern *regexp.Regexp, original string, counter *int, m *Map) string {
	locs := pattern.FindAllStringIndex(input, -1)
	if len(locs) == 0 {
		return input
	}

	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		// RE2 has no lookbehind; an embed left over from the image pass
		// (unterminated on its line) must not be taken as a link.
		if kind == KindLink && loc[0] > 0 && input[loc[0]-1] == '!' {
			continue
		}
		token := nextToken(kind, counter, original, input)
		b.WriteString(input[prev:loc[0]])
		b.WriteString(token)
		m.add(token, input[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(input[prev:])
	return b.String()
}

// nextToken mints the next token that does not already occur in any of texts.
func nextToken(kind string, counter *int, texts ...string) string {
	for {
		token := fmt.Sprintf("__%s_%d__", kind, *counter)
		*counter++
		collides := false
		for _, t := range texts {
			if strings.Contains(t, token) {
				collides = true
				break
			}
		}
		if !collides {
			return token
		}
	}
}

// roundTrips reports whether restoring the untouched masked text gives back
// the input. It fails when a token merged with adjacent text into an extra
// occurrence, since Restore would then replace the wrong one.
func roundTrips(text, masked string, m Map) bool {
	return Restore(masked, m) == text
}
