package knowledge

import (
	"regexp"
	"strings"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

var headingPattern = regexp.MustCompile(`^(#{1,3})[ \t]+(.+?)[ \t#]*$`)

// Piece is one chunk of text with the heading path it was found under.
type Piece struct {
	Heading string
	Content string
}

// Splitter cuts markdown into pieces. Sections are split on level 1-3
// headings first; long sections are then cut into windows of Size runes
// that overlap by Overlap runes, preferring paragraph, then line, then word
// boundaries.
type Splitter struct {
	Size    int
	Overlap int
}

// NewSplitter creates a splitter. Out-of-range values fall back to the
// defaults.
func NewSplitter(size, overlap int) Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}
	return Splitter{Size: size, Overlap: overlap}
}

type section struct {
	heading string
	lines   []string
}

// Split returns the pieces of text in document order. Whitespace-only
// pieces are dropped.
func (s Splitter) Split(text string) []Piece {
	var pieces []Piece
	for _, sec := range splitSections(text) {
		body := strings.TrimSpace(strings.Join(sec.lines, "\n"))
		if body == "" {
			continue
		}
		for _, chunk := range s.window(body) {
			pieces = append(pieces, Piece{Heading: sec.heading, Content: chunk})
		}
	}
	return pieces
}

func splitSections(text string) []section {
	var (
		sections []section
		path     [3]string
		current  section
		inFence  bool
	)

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		m := headingPattern.FindStringSubmatch(line)
		if m == nil || inFence {
			current.lines = append(current.lines, line)
			continue
		}

		sections = append(sections, current)

		level := len(m[1])
		path[level-1] = strings.TrimSpace(m[2])
		for i := level; i < len(path); i++ {
			path[i] = ""
		}
		current = section{heading: joinPath(path[:level])}
		// The heading line stays in the body so it is searchable.
		current.lines = append(current.lines, line)
	}

	return append(sections, current)
}

func joinPath(parts []string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " > ")
}

func (s Splitter) window(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.Size {
		return []string{text}
	}

	var out []string
	start := 0
	for start < len(runes) {
		end := start + s.Size
		if end >= len(runes) {
			end = len(runes)
		} else if cut := breakPoint(runes[start:end], s.Size/2); cut > 0 {
			end = start + cut
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			out = append(out, piece)
		}
		if end >= len(runes) {
			break
		}

		next := end - s.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

// breakPoint returns the rune offset just after the last paragraph break in
// w, else the last line break, else the last space. Offsets not past floor do
// not count. It returns 0 when nothing qualifies.
func breakPoint(w []rune, floor int) int {
	text := string(w)
	for _, sep := range []string{"\n\n", "\n", " "} {
		i := strings.LastIndex(text, sep)
		if i < 0 {
			continue
		}
		if cut := len([]rune(text[:i+len(sep)])); cut > floor {
			return cut
		}
	}
	return 0
}
