package knowledge

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

// Extensions the indexer reads. Binary formats must be converted to text
// first.
var indexableExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// SourceStore is the write side of the knowledge repository.
type SourceStore interface {
	ReplaceSource(path string, kind entities.KnowledgeKind, hash string, chunks []entities.Chunk) (bool, error)
	DeleteSource(path string) error
	Sources(prefix string) ([]entities.KnowledgeSource, error)
}

// IndexResult counts what an indexing run did.
type IndexResult struct {
	Indexed   int `json:"indexed"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Removed   int `json:"removed"`
	Chunks    int `json:"chunks"`
}

// Add accumulates o into r.
func (r *IndexResult) Add(o IndexResult) {
	r.Indexed += o.Indexed
	r.Unchanged += o.Unchanged
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Removed += o.Removed
	r.Chunks += o.Chunks
}

// Indexer turns text files into searchable chunks.
type Indexer struct {
	store    SourceStore
	splitter Splitter
}

func NewIndexer(store SourceStore, splitter Splitter) *Indexer {
	return &Indexer{store: store, splitter: splitter}
}

// Hash returns the hex BLAKE3 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IndexFile indexes one file. Files whose content hash is unchanged since
// the last run are left alone.
func (ix *Indexer) IndexFile(ctx context.Context, path string, kind entities.KnowledgeKind) (IndexResult, error) {
	if err := ctx.Err(); err != nil {
		return IndexResult{}, err
	}

	path = filepath.Clean(path)
	if !indexableExtensions[strings.ToLower(filepath.Ext(path))] {
		log.Printf("Knowledge indexer: skipping %s (unsupported format)", path)
		return IndexResult{Skipped: 1}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return IndexResult{Failed: 1}, fmt.Errorf("read %s: %w", path, err)
	}

	pieces := ix.splitter.Split(string(data))
	chunks := make([]entities.Chunk, 0, len(pieces))
	for _, p := range pieces {
		terms := Analyze(p.Content)
		chunks = append(chunks, entities.Chunk{
			Heading: p.Heading,
			Content: p.Content,
			Hash:    Hash([]byte(p.Content)),
			Terms:   strings.Join(terms, " "),
			Length:  len(terms),
		})
	}

	changed, err := ix.store.ReplaceSource(path, kind, Hash(data), chunks)
	if err != nil {
		return IndexResult{Failed: 1}, fmt.Errorf("store %s: %w", path, err)
	}
	if !changed {
		return IndexResult{Unchanged: 1}, nil
	}

	log.Printf("Knowledge indexer: indexed %s (%d chunks)", path, len(chunks))
	return IndexResult{Indexed: 1, Chunks: len(chunks)}, nil
}

// IndexDir indexes every supported file under dir, skipping hidden
// directories, then drops sources under dir whose files are gone. Per-file
// errors are logged and counted.
func (ix *Indexer) IndexDir(ctx context.Context, dir string, kind entities.KnowledgeKind) (IndexResult, error) {
	var result IndexResult
	dir = filepath.Clean(dir)
	seen := make(map[string]bool)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Knowledge indexer: cannot access %s: %v", path, err)
			result.Failed++
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !indexableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		seen[filepath.Clean(path)] = true
		res, err := ix.IndexFile(ctx, path, kind)
		if err != nil {
			log.Printf("Knowledge indexer: %v", err)
		}
		result.Add(res)
		return nil
	})
	if err != nil {
		return result, err
	}

	sources, err := ix.store.Sources(dir + string(filepath.Separator))
	if err != nil {
		return result, fmt.Errorf("list sources: %w", err)
	}
	for _, s := range sources {
		if s.Kind != kind || seen[s.Path] {
			continue
		}
		if err := ix.store.DeleteSource(s.Path); err != nil {
			log.Printf("Knowledge indexer: failed to drop %s: %v", s.Path, err)
			continue
		}
		result.Removed++
	}

	return result, nil
}
