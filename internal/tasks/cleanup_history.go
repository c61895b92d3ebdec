package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// HistoryCleaner deletes rewrite history older than a retention period.
type HistoryCleaner interface {
	Cleanup(retention time.Duration) (int64, error)
}

// CleanupHistoryTask removes rewrite events older than the retention period.
type CleanupHistoryTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for history cleanup tasks.
func (t CleanupHistoryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_history",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupHistoryProcessor creates a processor function for CleanupHistoryTask.
func CleanupHistoryProcessor(cleaner HistoryCleaner) backlite.QueueProcessor[CleanupHistoryTask] {
	return func(ctx context.Context, task CleanupHistoryTask) error {
		if cleaner == nil {
			return errors.New("history cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.Cleanup(retention)
		if err != nil {
			return fmt.Errorf("cleanup history: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d rewrite events older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupHistoryQueue creates a backlite queue for history cleanup tasks.
func NewCleanupHistoryQueue(cleaner HistoryCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupHistoryProcessor(cleaner))
}
