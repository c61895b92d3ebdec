// Package segment classifies the text captured between annotation markers
// and rebuilds it around a rewritten body.
//
// Three shapes are recognised:
//
//	PlainText   hello world
//	Callout     > [!NOTE] Title
//	            > body
//	PlainQuote  > body
//
// Callout and quote bodies are stored without their quote markers; Reassemble
// puts them back.
package segment

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindPlainText  Kind = "plain_text"
	KindCallout    Kind = "callout"
	KindPlainQuote Kind = "plain_quote"
)

// QuoteMarker starts every blockquote line.
const QuoteMarker = ">"

// calloutHeader matches "> [!KIND] optional title" on a single line.
var calloutHeader = regexp.MustCompile(`^>[ \t]*\[!([^\]\n]*)\](.*)$`)

// Segment is one annotated span after classification.
type Segment struct {
	Kind Kind
	// Header is the normalized callout header, ">" for a bare quote, or
	// empty for plain text.
	Header string
	// Body is the de-quoted text handed to the rewrite step.
	Body string
	// Raw is the captured text exactly as it appeared between the markers.
	Raw string
}

// Quoted reports whether the segment is rendered as a blockquote.
func (s Segment) Quoted() bool {
	return s.Kind == KindCallout || s.Kind == KindPlainQuote
}

// CalloutType returns the bracketed kind of a callout ("NOTE" for
// "> [!NOTE] Risk"), or empty for other segments.
func (s Segment) CalloutType() string {
	if s.Kind != KindCallout {
		return ""
	}
	m := calloutHeader.FindStringSubmatch(s.Header)
	if m == nil {
		return ""
	}
	return m[1]
}

// Classify decides the shape of raw marker content. It never fails: text
// that is neither a callout nor a quote is plain text.
func Classify(raw string) Segment {
	text := strings.TrimSpace(raw)
	lines := strings.Split(text, "\n")
	first := strings.TrimRight(lines[0], "\r")

	if calloutHeader.MatchString(first) {
		return Segment{
			Kind:   KindCallout,
			Header: normalizeHeader(first),
			Body:   strings.TrimSpace(dequote(lines[1:])),
			Raw:    raw,
		}
	}

	if strings.HasPrefix(text, QuoteMarker) {
		return Segment{
			Kind:   KindPlainQuote,
			Header: QuoteMarker,
			Body:   strings.TrimSpace(dequote(lines)),
			Raw:    raw,
		}
	}

	return Segment{
		Kind: KindPlainText,
		Body: text,
		Raw:  raw,
	}
}

// normalizeHeader guarantees exactly one space after the leading '>'.
func normalizeHeader(line string) string {
	rest := strings.TrimPrefix(strings.TrimSpace(line), QuoteMarker)
	return QuoteMarker + " " + strings.TrimLeft(rest, " \t")
}

// dequote strips one quote marker and at most one following space or tab
// from each line. Lines without a marker are kept as they are.
func dequote(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, QuoteMarker) {
			line = line[len(QuoteMarker):]
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				line = line[1:]
			}
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// Requote prefixes every line, empty ones included, with "> ".
func Requote(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = QuoteMarker + " " + line
	}
	return strings.Join(lines, "\n")
}
