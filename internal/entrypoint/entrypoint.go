package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kendrickl1675/Lecture-Agent/internal/config"
	"github.com/kendrickl1675/Lecture-Agent/internal/daemon"
	http_controllers "github.com/kendrickl1675/Lecture-Agent/internal/http"
	"github.com/kendrickl1675/Lecture-Agent/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// EnsureNotesDir creates the notes directory when it does not exist yet.
func EnsureNotesDir(dir string) error {
	if dir == "" {
		return errors.New("notes directory is not set")
	}
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Notes directory %s does not exist, creating it", dir)
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// startTasks opens the task queue, registers every queue and starts the
// workers. The returned stop function waits for running tasks.
func startTasks(app *App) (*tasks.Client, ShutdownFunc) {
	cfg := app.Config
	taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	})
	if err != nil {
		log.Fatalf("Failed to initialize task queue: %v", err)
	}

	taskClient.Register(
		tasks.NewIndexNoteQueue(app.Indexer),
		tasks.NewReindexKnowledgeQueue(app.Indexer),
		tasks.NewCleanupHistoryQueue(app.Audit),
	)

	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	go taskClient.Start(taskCtx)

	return taskClient, func(ctx context.Context) {
		taskClient.Stop(ctx)
		taskCtxCancel()
		if err := taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
}

// Run starts the watcher, the task queue and the status server, and blocks
// until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Lecture Agent v%s", version)

	if err := EnsureNotesDir(cfg.Notes.Dir); err != nil {
		log.Fatalf("Notes directory: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	processor, err := app.NewProcessor()
	if err != nil {
		log.Fatalf("Failed to initialize rewrite pipeline: %v", err)
	}

	var taskClient *tasks.Client
	var stopTasks ShutdownFunc
	if cfg.Tasks.Enabled {
		taskClient, stopTasks = startTasks(app)
		if cfg.Knowledge.IndexSavedNotes {
			processor.SetIndexer(taskClient)
		}
		if cfg.Knowledge.IndexOnStart {
			if _, err := taskClient.EnqueueReindex(cfg.Knowledge.Dir, cfg.Notes.Dir); err != nil {
				log.Printf("Failed to queue knowledge reindex: %v", err)
			}
		}
		if err := taskClient.EnqueueCleanup(cfg.Audit.HistoryRetentionDays); err != nil {
			log.Printf("Failed to queue history cleanup: %v", err)
		}
	} else {
		if cfg.Knowledge.IndexSavedNotes {
			processor.SetIndexer(inlineIndexer{indexer: app.Indexer})
		}
		if cfg.Knowledge.IndexOnStart {
			result, err := app.IndexAll(context.Background())
			if err != nil {
				log.Printf("Knowledge indexing failed: %v", err)
			} else {
				log.Printf("Knowledge base ready: %d indexed, %d unchanged, %d removed", result.Indexed, result.Unchanged, result.Removed)
			}
		}
	}

	watcher := daemon.NewWatcher(processor, cfg.Notes.Dir, cfg.Notes.PollInterval)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watcher.Start(watchCtx); err != nil {
		log.Fatalf("Failed to start watcher: %v", err)
	}

	var srv *http.Server
	if cfg.HTTP.Enabled {
		routerCfg := http_controllers.RouterConfig{
			Database:     app.DB,
			Watcher:      watcher,
			History:      app.History,
			Knowledge:    app.Knowledge,
			KnowledgeDir: cfg.Knowledge.Dir,
			NotesDir:     cfg.Notes.Dir,
			Version:      version,
			Verbose:      cfg.Logging.Verbose,
		}
		if taskClient != nil {
			routerCfg.TaskQueue = taskClient
			routerCfg.Reindexer = taskClient
		}

		srv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler: http_controllers.NewRouter(routerCfg),
		}
		go func() {
			log.Printf("Status server listening at %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("listen: %s\n", err)
			}
		}()
	}

	log.Printf("Lecture agent: watching %s for %s...%s (Ctrl+C to stop)", cfg.Notes.Dir, cfg.Markers.Start, cfg.Markers.End)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	log.Printf("Shutting down, waiting up to %v for background work", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// No new scans can be requested once the server is down. The current
	// pass always finishes before the queue and databases close.
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}
	watcher.Stop()

	if stopTasks != nil {
		stopTasks(ctx)
	}

	log.Println("Lecture agent stopped")
}

// RunOnce runs a single pass over the notes directory and returns its result.
func RunOnce(ctx context.Context, cfg *config.Config) (daemon.PassResult, error) {
	if err := EnsureNotesDir(cfg.Notes.Dir); err != nil {
		return daemon.PassResult{}, err
	}

	app, err := NewApp(cfg)
	if err != nil {
		return daemon.PassResult{}, err
	}
	defer app.Close()

	processor, err := app.NewProcessor()
	if err != nil {
		return daemon.PassResult{}, err
	}
	if cfg.Knowledge.IndexSavedNotes {
		processor.SetIndexer(inlineIndexer{indexer: app.Indexer})
	}

	return processor.Scan(ctx, cfg.Notes.Dir), nil
}
