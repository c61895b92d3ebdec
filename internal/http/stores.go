package http

import (
	"context"
	"time"

	"github.com/kendrickl1675/Lecture-Agent/internal/daemon"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

// Each controller depends on the narrow interface below that it needs.

// Pinger checks connectivity of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WatcherState exposes the poll loop to the status endpoints.
type WatcherState interface {
	IsRunning() bool
	LastPass() *daemon.PassResult
	NextRun() *time.Time
	Interval() time.Duration
	RunNow() error
}

// HistoryStore provides read access to recorded rewrite events.
type HistoryStore interface {
	Recent(limit int) ([]entities.RewriteEvent, error)
	ByPass(passID string) ([]entities.RewriteEvent, error)
	CountByOutcome() (map[entities.RewriteOutcome]int64, error)
}

// KnowledgeStore provides read access to the indexed knowledge base.
type KnowledgeStore interface {
	Sources(prefix string) ([]entities.KnowledgeSource, error)
	CountChunks() (int64, error)
}

// Reindexer queues a full knowledge base rebuild.
type Reindexer interface {
	EnqueueReindex(knowledgeDir, notesDir string) (string, error)
}
