// Package markers finds annotation spans in a note and splices replacements
// back into it.
//
// Spans are computed once against the original text. Apply then edits a
// single copy from the last span to the first, so the offsets of spans not
// yet edited stay valid whatever the replacement lengths are.
package markers

import (
	"regexp"
	"sort"
	"strings"
)

const (
	DefaultStart = "<ai>"
	DefaultEnd   = "</ai>"
)

// Span is one start/end marker pair in the original text. [Start, End) covers
// both markers; Inner is the text between them, captured verbatim.
type Span struct {
	Start int
	End   int
	Inner string
}

// Edit replaces a whole span, markers included.
type Edit struct {
	Span
	Replacement string
}

// Finder locates marker spans for one pair of literal markers.
type Finder struct {
	Start string
	End   string

	pattern *regexp.Regexp
}

// NewFinder builds a finder for the given markers. Empty markers fall back to
// the defaults.
func NewFinder(start, end string) *Finder {
	if start == "" {
		start = DefaultStart
	}
	if end == "" {
		end = DefaultEnd
	}
	return &Finder{
		Start: start,
		End:   end,
		// (?s) lets the lazy group cross lines.
		pattern: regexp.MustCompile(`(?s)` + regexp.QuoteMeta(start) + `(.*?)` + regexp.QuoteMeta(end)),
	}
}

// Contains is the cheap check run before any pattern matching. Files without
// the start marker are skipped entirely.
func (f *Finder) Contains(text string) bool {
	return strings.Contains(text, f.Start)
}

// Find returns all non-overlapping spans in document order. An unterminated
// start marker yields no span.
func (f *Finder) Find(text string) []Span {
	matches := f.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{
			Start: m[0],
			End:   m[1],
			Inner: text[m[2]:m[3]],
		})
	}
	return spans
}

// Apply splices every edit into text, last span first. Edits must come from
// Find on the same text; they are sorted here so callers may pass them in any
// order.
func Apply(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	buf := text
	for _, e := range ordered {
		buf = buf[:e.Start] + e.Replacement + buf[e.End:]
	}
	return buf
}
