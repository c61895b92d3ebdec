package knowledge

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
	"github.com/kendrickl1675/Lecture-Agent/internal/rewrite"
)

const (
	DefaultTopK     = 2
	DefaultMinScore = 0.25
)

// ChunkStore is the read side of the knowledge repository.
type ChunkStore interface {
	CountChunks() (int64, error)
	AllChunks() ([]entities.Chunk, error)
}

// Retriever implements rewrite.Retriever with BM25 over the stored chunks.
type Retriever struct {
	store    ChunkStore
	scorer   Scorer
	topK     int
	minScore float64
}

func NewRetriever(store ChunkStore, topK int, minScore float64) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if minScore < 0 {
		minScore = DefaultMinScore
	}
	return &Retriever{
		store:    store,
		scorer:   NewScorer(),
		topK:     topK,
		minScore: minScore,
	}
}

// Retrieve searches for query. An empty store and a store without a good
// enough match are reported through the status, not as errors.
func (r *Retriever) Retrieve(ctx context.Context, query string) (rewrite.Retrieval, error) {
	if err := ctx.Err(); err != nil {
		return rewrite.Retrieval{}, err
	}

	hits, err := r.Search(query)
	if err != nil {
		return rewrite.Retrieval{}, err
	}
	if hits == nil {
		count, err := r.store.CountChunks()
		if err != nil {
			return rewrite.Retrieval{}, fmt.Errorf("count chunks: %w", err)
		}
		if count == 0 {
			return rewrite.Retrieval{Status: rewrite.RetrievalEmptyStore}, nil
		}
		return rewrite.Retrieval{Status: rewrite.RetrievalNoMatch}, nil
	}

	snippets := make([]rewrite.Snippet, 0, len(hits))
	for _, h := range hits {
		snippets = append(snippets, rewrite.Snippet{
			Content: h.Chunk.Content,
			Source:  sourceLabel(h.Chunk),
			Score:   h.Score,
		})
	}
	return rewrite.Retrieval{Status: rewrite.RetrievalFound, Snippets: snippets}, nil
}

// Search returns the best hits for query, or nil when nothing passes the
// threshold.
func (r *Retriever) Search(query string) ([]Hit, error) {
	chunks, err := r.store.AllChunks()
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	hits := r.scorer.Rank(query, chunks, r.topK, r.minScore)
	if len(hits) == 0 {
		return nil, nil
	}
	return hits, nil
}

func sourceLabel(c entities.Chunk) string {
	label := filepath.Base(c.Source)
	if c.Heading != "" {
		label += " > " + c.Heading
	}
	return label
}
