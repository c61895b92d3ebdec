package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/kendrickl1675/Lecture-Agent/internal/audit"
	"github.com/kendrickl1675/Lecture-Agent/internal/daemon"
	"github.com/kendrickl1675/Lecture-Agent/internal/database"
	"github.com/kendrickl1675/Lecture-Agent/internal/database/history"
	knowledgedb "github.com/kendrickl1675/Lecture-Agent/internal/database/knowledge"
	"github.com/kendrickl1675/Lecture-Agent/internal/http"
	"github.com/kendrickl1675/Lecture-Agent/internal/knowledge"
	"github.com/kendrickl1675/Lecture-Agent/internal/rewrite"
	"github.com/kendrickl1675/Lecture-Agent/internal/tasks"
)

// =============================================================================
// Rewrite Pipeline
// =============================================================================

var _ rewrite.Gateway = (*rewrite.Agent)(nil)
var _ rewrite.LanguageModel = (*rewrite.GeminiClient)(nil)
var _ rewrite.Retriever = (*knowledge.Retriever)(nil)

var _ daemon.Recorder = (*audit.Service)(nil)
var _ daemon.NoteIndexer = (*tasks.Client)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ knowledge.ChunkStore = (*knowledgedb.Repository)(nil)
var _ knowledge.SourceStore = (*knowledgedb.Repository)(nil)

var _ http.HistoryStore = (*history.Repository)(nil)
var _ http.KnowledgeStore = (*knowledgedb.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.KnowledgeIndexer = (*knowledge.Indexer)(nil)
var _ tasks.HistoryCleaner = (*audit.Service)(nil)

var _ http.Pinger = (*tasks.Client)(nil)
var _ http.Reindexer = (*tasks.Client)(nil)
var _ http.WatcherState = (*daemon.Watcher)(nil)
