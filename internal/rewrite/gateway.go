// Package rewrite is the boundary to the language model.
//
// The daemon hands a Gateway the masked segment body plus a context string
// built from a Retriever, and gets back a Result. A Result is either new text
// or a no-op; a no-op is a normal value, never an error.
package rewrite

import (
	"context"
	"fmt"
	"strings"
)

// Gateway rewrites one masked segment body.
//
// Implementations return an error for transport or model failures. Callers
// treat such errors exactly like a no-op.
type Gateway interface {
	Rewrite(ctx context.Context, masked, contextText string) (Result, error)
}

// LanguageModel is a single-shot text generator.
type LanguageModel interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// RetrievalStatus tells an empty knowledge base apart from one with nothing
// relevant in it.
type RetrievalStatus string

const (
	RetrievalFound      RetrievalStatus = "found"
	RetrievalNoMatch    RetrievalStatus = "no_match"
	RetrievalEmptyStore RetrievalStatus = "empty_store"
)

// Snippet is one piece of local context.
type Snippet struct {
	Content string
	Source  string
	Score   float64
}

// Retrieval is the answer of a Retriever.
type Retrieval struct {
	Status   RetrievalStatus
	Snippets []Snippet
}

// Retriever looks up local context for the raw, unmasked segment text.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (Retrieval, error)
}

const (
	ContextEmptyStore = "No local context available (knowledge base is empty)."
	ContextNoMatch    = "No relevant context found in local knowledge base."
	contextSkipped    = "Context retrieval skipped: %v"
	contextNoSource   = "No local context available (retrieval disabled)."
)

// ContextText renders the retrieval for a query as prompt context. It never
// fails: a nil retriever or a retrieval error degrades to a message that says
// so.
func ContextText(ctx context.Context, r Retriever, query string) string {
	if r == nil {
		return contextNoSource
	}

	res, err := r.Retrieve(ctx, query)
	if err != nil {
		return fmt.Sprintf(contextSkipped, err)
	}

	switch res.Status {
	case RetrievalEmptyStore:
		return ContextEmptyStore
	case RetrievalNoMatch:
		return ContextNoMatch
	}
	if len(res.Snippets) == 0 {
		return ContextNoMatch
	}

	lines := make([]string, 0, len(res.Snippets))
	for _, s := range res.Snippets {
		line := "- " + strings.TrimSpace(s.Content)
		if s.Source != "" {
			line += fmt.Sprintf(" (source: %s)", s.Source)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
