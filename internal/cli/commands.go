package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
	"github.com/kendrickl1675/Lecture-Agent/internal/entrypoint"
	"github.com/kendrickl1675/Lecture-Agent/internal/knowledge"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(g *Globals, info *BuildInfo) error {
	cfg := g.Config()
	defer setupLogging(cfg)()

	entrypoint.Run(cfg, info.Version)
	return nil
}

type OnceCmd struct {
	File string `arg:"" optional:"" help:"Process only this note." type:"existingfile"`
}

func (c *OnceCmd) Run(ctx *kong.Context, g *Globals) error {
	cfg := g.Config()
	defer setupLogging(cfg)()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.File != "" {
		app, err := entrypoint.NewApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		processor, err := app.NewProcessor()
		if err != nil {
			return err
		}
		result, err := processor.ProcessFile(runCtx, c.File)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "%s: %d segments, %d rewritten, %d skipped, %d failed, saved=%t\n",
			result.Path, result.Segments, result.Rewritten, result.Skipped, result.Failed, result.Saved)
		return nil
	}

	result, err := entrypoint.RunOnce(runCtx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "Scanned %d files in %v: %d annotated, %d saved, %d rewritten, %d skipped, %d failed, %d errors\n",
		result.Files, result.Duration, result.Annotated, result.Saved, result.Rewritten, result.Skipped, result.Failed, result.Errors)
	return nil
}

type IndexCmd struct {
	Path string `arg:"" optional:"" help:"File or directory to index. Defaults to the knowledge and notes directories." type:"path"`
	Kind string `default:"document" enum:"document,note" help:"Kind recorded for PATH (document or note)."`
}

func (c *IndexCmd) Run(ctx *kong.Context, g *Globals) error {
	cfg := g.Config()
	defer setupLogging(cfg)()

	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	var result knowledge.IndexResult
	switch {
	case c.Path == "":
		result, err = app.IndexAll(context.Background())
	default:
		kind := entities.KnowledgeKind(c.Kind)
		info, statErr := os.Stat(c.Path)
		if statErr != nil {
			return statErr
		}
		if info.IsDir() {
			result, err = app.Indexer.IndexDir(context.Background(), c.Path, kind)
		} else {
			result, err = app.Indexer.IndexFile(context.Background(), c.Path, kind)
		}
	}
	if err != nil {
		return err
	}

	chunks, err := app.Knowledge.CountChunks()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "Indexed %d, unchanged %d, skipped %d, failed %d, removed %d (%d chunks in store)\n",
		result.Indexed, result.Unchanged, result.Skipped, result.Failed, result.Removed, chunks)
	return nil
}

type QueryCmd struct {
	Text     string   `arg:"" help:"Query text."`
	TopK     *int     `name:"top-k" help:"Maximum results (overrides RETRIEVAL_TOP_K)."`
	MinScore *float64 `name:"min-score" help:"Minimum normalized score (overrides RETRIEVAL_MIN_SCORE)."`
}

func (c *QueryCmd) Run(ctx *kong.Context, g *Globals) error {
	cfg := g.Config()
	if c.TopK != nil {
		cfg.Retrieval.TopK = *c.TopK
	}
	if c.MinScore != nil {
		cfg.Retrieval.MinScore = *c.MinScore
	}

	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	hits, err := app.Retriever.Search(c.Text)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintln(ctx.Stdout, "No matches.")
		return nil
	}
	for i, h := range hits {
		label := h.Chunk.Source
		if h.Chunk.Heading != "" {
			label += " > " + h.Chunk.Heading
		}
		fmt.Fprintf(ctx.Stdout, "%d. [%.3f] %s\n%s\n\n", i+1, h.Score, label, h.Chunk.Content)
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context, info *BuildInfo) error {
	fmt.Fprintf(ctx.Stdout, "lecture-agent %s (commit %s)\n", info.Version, info.Commit)
	return nil
}
