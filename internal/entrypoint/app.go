package entrypoint

import (
	"context"
	"fmt"
	"log"

	"github.com/kendrickl1675/Lecture-Agent/internal/audit"
	"github.com/kendrickl1675/Lecture-Agent/internal/config"
	"github.com/kendrickl1675/Lecture-Agent/internal/daemon"
	"github.com/kendrickl1675/Lecture-Agent/internal/database"
	"github.com/kendrickl1675/Lecture-Agent/internal/database/history"
	knowledgedb "github.com/kendrickl1675/Lecture-Agent/internal/database/knowledge"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
	"github.com/kendrickl1675/Lecture-Agent/internal/knowledge"
	"github.com/kendrickl1675/Lecture-Agent/internal/markers"
	"github.com/kendrickl1675/Lecture-Agent/internal/rewrite"
)

// App holds the long-lived components shared by every command.
type App struct {
	Config    *config.Config
	DB        *database.Database
	Knowledge *knowledgedb.Repository
	History   *history.Repository
	Indexer   *knowledge.Indexer
	Retriever *knowledge.Retriever
	Audit     *audit.Service
}

// NewApp opens the database and builds the knowledge base and history
// components. It does not talk to the model.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	chunks := knowledgedb.NewRepository(db.DB)
	events := history.NewRepository(db.DB)

	return &App{
		Config:    cfg,
		DB:        db,
		Knowledge: chunks,
		History:   events,
		Indexer:   knowledge.NewIndexer(chunks, knowledge.NewSplitter(cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)),
		Retriever: knowledge.NewRetriever(chunks, cfg.Retrieval.TopK, cfg.Retrieval.MinScore),
		Audit:     audit.NewService(events, audit.NewAuditor(cfg.Audit.Dir)),
	}, nil
}

// NewProcessor builds the model client, agent and processor. A missing API
// key or a broken prompt profile is an error.
func (a *App) NewProcessor() (*daemon.Processor, error) {
	cfg := a.Config

	prompt, err := rewrite.LoadPrompt(cfg.Prompt.File)
	if err != nil {
		return nil, err
	}
	prompt = prompt.WithSentinel(cfg.Prompt.Sentinel)

	modelName := cfg.Model.Name
	if prompt.Model != "" {
		modelName = prompt.Model
	}
	temperature := cfg.Model.Temperature
	if prompt.Temperature != 0 {
		temperature = prompt.Temperature
	}

	model, err := rewrite.NewGeminiClient(rewrite.GeminiConfig{
		APIKey:      cfg.Model.APIKey,
		Model:       modelName,
		BaseURL:     cfg.Model.BaseURL,
		Temperature: temperature,
		Timeout:     cfg.Model.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}
	log.Printf("Lecture agent: using model %s (temperature %.2f)", model.Name(), temperature)

	var retriever rewrite.Retriever
	if cfg.Retrieval.Enabled {
		retriever = a.Retriever
	}

	processor := daemon.NewProcessor(
		markers.NewFinder(cfg.Markers.Start, cfg.Markers.End),
		retriever,
		rewrite.NewAgent(model, prompt),
		daemon.Config{
			NoteExtension:      cfg.Notes.Extension,
			SkipHiddenDirs:     cfg.Notes.SkipHiddenDirs,
			StrictPlaceholders: cfg.Notes.StrictPlaceholders,
		},
	)
	processor.SetRecorder(a.Audit)
	return processor, nil
}

// IndexAll indexes the knowledge directory as documents and the notes
// directory as notes.
func (a *App) IndexAll(ctx context.Context) (knowledge.IndexResult, error) {
	var total knowledge.IndexResult
	dirs := []struct {
		path string
		kind entities.KnowledgeKind
	}{
		{a.Config.Knowledge.Dir, entities.KnowledgeDocument},
		{a.Config.Notes.Dir, entities.KnowledgeNote},
	}
	for _, d := range dirs {
		if d.path == "" {
			continue
		}
		result, err := a.Indexer.IndexDir(ctx, d.path, d.kind)
		if err != nil {
			return total, fmt.Errorf("index %s: %w", d.path, err)
		}
		total.Add(result)
	}
	return total, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// inlineIndexer indexes rewritten notes on the calling goroutine. It stands
// in for the task queue when the queue is disabled.
type inlineIndexer struct {
	indexer *knowledge.Indexer
}

func (ix inlineIndexer) EnqueueNote(ctx context.Context, path string) error {
	_, err := ix.indexer.IndexFile(ctx, path, entities.KnowledgeNote)
	return err
}
