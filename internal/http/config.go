package http

// RouterConfig contains all dependencies needed to create the HTTP router.
// Nil dependencies disable the endpoints that need them.
type RouterConfig struct {
	Database  Pinger
	TaskQueue Pinger

	Watcher   WatcherState
	History   HistoryStore
	Knowledge KnowledgeStore
	Reindexer Reindexer

	KnowledgeDir string
	NotesDir     string

	Version string
	Verbose bool
}
