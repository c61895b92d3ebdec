package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

// ReindexKnowledgeTask walks the knowledge and notes directories and brings
// the knowledge store up to date. Empty directories are skipped.
type ReindexKnowledgeTask struct {
	KnowledgeDir string `json:"knowledge_dir"`
	NotesDir     string `json:"notes_dir"`
}

// Config returns the queue configuration for reindex tasks.
func (t ReindexKnowledgeTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reindex_knowledge",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReindexKnowledgeProcessor creates a processor function for ReindexKnowledgeTask.
func ReindexKnowledgeProcessor(indexer KnowledgeIndexer) backlite.QueueProcessor[ReindexKnowledgeTask] {
	return func(ctx context.Context, task ReindexKnowledgeTask) error {
		if indexer == nil {
			return errors.New("knowledge indexer not configured")
		}

		dirs := []struct {
			path string
			kind entities.KnowledgeKind
		}{
			{task.KnowledgeDir, entities.KnowledgeDocument},
			{task.NotesDir, entities.KnowledgeNote},
		}

		for _, d := range dirs {
			if d.path == "" {
				continue
			}
			result, err := indexer.IndexDir(ctx, d.path, d.kind)
			if err != nil {
				return fmt.Errorf("reindex %s: %w", d.path, err)
			}
			log.Printf("[TASK] Reindexed %s: %d indexed, %d unchanged, %d removed, %d failed",
				d.path, result.Indexed, result.Unchanged, result.Removed, result.Failed)
		}
		return nil
	}
}

// NewReindexKnowledgeQueue creates a backlite queue for reindex tasks.
func NewReindexKnowledgeQueue(indexer KnowledgeIndexer) backlite.Queue {
	return backlite.NewQueue(ReindexKnowledgeProcessor(indexer))
}
