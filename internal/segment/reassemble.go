package segment

import (
	"regexp"
	"strings"

	"github.com/kendrickl1675/Lecture-Agent/internal/protector"
	"github.com/kendrickl1675/Lecture-Agent/internal/rewrite"
)

// TermAnalysisHeading is the heading the rewrite prompt asks the model to put
// its glossary under. The glossary is kept outside the callout.
const TermAnalysisHeading = "Key Term Analysis"

// termAnalysis matches "### Key Term Analysis" with an optional decorative
// glyph such as an emoji between the hashes and the words.
var termAnalysis = regexp.MustCompile(`###[ \t]*(?:[^\p{L}\p{N}\s]+[ \t]*)?` + regexp.QuoteMeta(TermAnalysisHeading))

// SplitTermAnalysis splits text at the first term-analysis heading. body is
// everything before it; trailing starts at the heading.
func SplitTermAnalysis(text string) (body, trailing string, found bool) {
	loc := termAnalysis.FindStringIndex(text)
	if loc == nil {
		return text, "", false
	}
	return text[:loc[0]], text[loc[0]:], true
}

// Reassemble produces the text that replaces the whole marked span,
// markers included.
//
// A no-op gives back the captured text unchanged. Otherwise placeholders are
// restored first; quoted segments get their header back and the body is
// re-quoted, with any term analysis block moved after the callout.
func Reassemble(seg Segment, res rewrite.Result, m protector.Map) string {
	if res.IsNoOp() {
		return seg.Raw
	}

	restored := strings.TrimSpace(protector.Restore(res.Text(), m))

	if !seg.Quoted() {
		return restored + "\n"
	}

	body, trailing, _ := SplitTermAnalysis(restored)
	body = strings.TrimSpace(body)
	trailing = strings.TrimSpace(trailing)

	var b strings.Builder
	b.WriteString(seg.Header)
	b.WriteString("\n")
	b.WriteString(Requote(body))
	b.WriteString("\n\n")
	b.WriteString(trailing)
	b.WriteString("\n")
	return b.String()
}
