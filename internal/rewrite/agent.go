package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"
)

// minInputRunes is the smallest amount of non-space text worth a model call.
const minInputRunes = 3

// Agent implements Gateway on top of a LanguageModel and a Prompt.
type Agent struct {
	model  LanguageModel
	prompt *Prompt
}

// NewAgent creates an agent. A nil prompt uses the built-in profile.
func NewAgent(model LanguageModel, prompt *Prompt) *Agent {
	if prompt == nil {
		prompt = DefaultPrompt()
	}
	return &Agent{
		model:  model,
		prompt: prompt,
	}
}

// Sentinel returns the skip marker the agent watches for.
func (a *Agent) Sentinel() string {
	return a.prompt.Sentinel
}

// Rewrite asks the model to refine masked. The sentinel anywhere in the
// answer, an empty answer, or near-empty input all give a no-op.
func (a *Agent) Rewrite(ctx context.Context, masked, contextText string) (Result, error) {
	if countNonSpace(masked) < minInputRunes {
		return NoOp("input too short"), nil
	}

	prompt, err := a.prompt.Render(contextText, masked)
	if err != nil {
		return Result{}, err
	}

	out, err := a.model.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("generate with %s: %w", a.model.Name(), err)
	}

	if strings.Contains(out, a.prompt.Sentinel) {
		log.Printf("Lecture agent: skipped %q (model answered %s)", preview(masked), a.prompt.Sentinel)
		return NoOp("model skipped segment"), nil
	}
	if strings.TrimSpace(out) == "" {
		return NoOp("empty model output"), nil
	}

	return Rewritten(out), nil
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func preview(s string) string {
	const limit = 30
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
