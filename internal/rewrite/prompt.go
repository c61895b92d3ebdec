package rewrite

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// DefaultSentinel is what the model answers when a segment should be left
// alone.
const DefaultSentinel = "SKIP_PROCESSING"

const defaultTemplate = `You are a strict academic research assistant in Quantitative Finance.

[CONTEXT FROM LOCAL DATABASE]
(This provides specific lecture details. It might be empty if no prior notes exist.)
{{.Context}}

[TASK]
Refine the [USER INPUT] into rigorous **Academic English** Markdown based on TWO sources:
1. The [CONTEXT] provided above.
2. Your own **Internal Expert Knowledge** of Finance/Math/Coding.

[GATEKEEPING RULES]
- **CASE A (Chat/Nonsense):** If the input is purely conversational or lacks technical substance, output EXACTLY: "{{.Sentinel}}".
- **CASE B (Valid Content):** If input contains recognizable concepts, process it even if context is empty.

[CRITICAL RULES]
1. **PROTECTED TOKENS**: You will see placeholders like ` + "`__IMG_0__`" + ` or ` + "`__LINK_1__`" + `. **DO NOT CHANGE, DELETE, OR MOVE THEM.**
2. **TERM ANALYSIS (CONSTRAINTS)**:
   - **Quantity Limit**: TOP 3-5 critical terms only.
   - **Expansion Logic**: Strictly relevant to current context.
   - **Location**: Place "Key Term Analysis" at the very END.

   **Format:**
   ### 🏆Key Term Analysis
   * **[Term Name]**
       * **Origin**: ...
       * **Application**: ...
       * **Expansion**: ...
3. **CALLOUTS**: Output plain paragraphs only. Do not add blockquote markers or callout headers; they are restored afterwards.
4. **Math**: Use LaTeX ($...$).
5. **Regulations**: Prioritize AMCM/PBOC/HKMA.

[USER INPUT]
{{.Input}}
`

// Prompt is the rendering profile for rewrite requests. Model and
// Temperature, when set, override the configured model settings.
type Prompt struct {
	Template    string  `yaml:"template"`
	Sentinel    string  `yaml:"sentinel"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`

	tmpl *template.Template
}

type promptData struct {
	Context  string
	Input    string
	Sentinel string
}

// DefaultPrompt returns the built-in profile.
func DefaultPrompt() *Prompt {
	p, err := newPrompt(Prompt{})
	if err != nil {
		panic(fmt.Sprintf("default prompt template: %v", err))
	}
	return p
}

// LoadPrompt reads a YAML profile. Fields left empty take the built-in
// values. An empty path returns the default profile.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", path, err)
	}

	return newPrompt(p)
}

func newPrompt(p Prompt) (*Prompt, error) {
	if strings.TrimSpace(p.Template) == "" {
		p.Template = defaultTemplate
	}
	if p.Sentinel == "" {
		p.Sentinel = DefaultSentinel
	}

	tmpl, err := template.New("rewrite").Option("missingkey=error").Parse(p.Template)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	p.tmpl = tmpl
	return &p, nil
}

// WithSentinel returns a copy of p that uses sentinel. An empty sentinel
// returns p unchanged.
func (p *Prompt) WithSentinel(sentinel string) *Prompt {
	if sentinel == "" {
		return p
	}
	c := *p
	c.Sentinel = sentinel
	return &c
}

// Render fills the template with the retrieval context and masked input.
func (p *Prompt) Render(contextText, input string) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, promptData{
		Context:  contextText,
		Input:    input,
		Sentinel: p.Sentinel,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
