package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
	"github.com/kendrickl1675/Lecture-Agent/internal/knowledge"
)

// KnowledgeIndexer indexes files and directories into the knowledge store.
type KnowledgeIndexer interface {
	IndexFile(ctx context.Context, path string, kind entities.KnowledgeKind) (knowledge.IndexResult, error)
	IndexDir(ctx context.Context, dir string, kind entities.KnowledgeKind) (knowledge.IndexResult, error)
}

// IndexNoteTask re-indexes a single note after it was rewritten.
type IndexNoteTask struct {
	Path string `json:"path"`
}

// Config returns the queue configuration for note indexing tasks.
func (t IndexNoteTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "index_note",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// IndexNoteProcessor creates a processor function for IndexNoteTask.
func IndexNoteProcessor(indexer KnowledgeIndexer) backlite.QueueProcessor[IndexNoteTask] {
	return func(ctx context.Context, task IndexNoteTask) error {
		if indexer == nil {
			return errors.New("knowledge indexer not configured")
		}

		result, err := indexer.IndexFile(ctx, task.Path, entities.KnowledgeNote)
		if err != nil {
			return fmt.Errorf("index note %s: %w", task.Path, err)
		}

		if result.Indexed > 0 {
			log.Printf("[TASK] Indexed note %s (%d chunks)", task.Path, result.Chunks)
		}
		return nil
	}
}

// NewIndexNoteQueue creates a backlite queue for note indexing tasks.
func NewIndexNoteQueue(indexer KnowledgeIndexer) backlite.Queue {
	return backlite.NewQueue(IndexNoteProcessor(indexer))
}
