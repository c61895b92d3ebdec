// Package cli defines the lecture-agent command tree.
package cli

import (
	"io"
	"log"

	"github.com/alecthomas/kong"

	"github.com/kendrickl1675/Lecture-Agent/internal/config"
	"github.com/kendrickl1675/Lecture-Agent/internal/entrypoint"
)

// BuildInfo identifies the binary. Set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// Globals are flags shared by every command. Set flags win over the
// environment.
type Globals struct {
	NotesDir     string `name:"notes" short:"n" help:"Notes directory (overrides NOTES_DIR)." type:"path"`
	KnowledgeDir string `name:"knowledge" short:"k" help:"Knowledge directory (overrides KNOWLEDGE_DIR)." type:"path"`
	Database     string `name:"db" help:"Database path (overrides DATABASE_PATH)." type:"path"`
	Verbose      bool   `short:"v" help:"Log every HTTP request."`
}

// CLI is the root of the command tree.
type CLI struct {
	Globals

	Watch   WatchCmd   `cmd:"" default:"withargs" help:"Watch the notes directory and rewrite annotated spans (default)."`
	Once    OnceCmd    `cmd:"" help:"Run a single pass over the notes directory, or one file."`
	Index   IndexCmd   `cmd:"" help:"Index knowledge files for retrieval."`
	Query   QueryCmd   `cmd:"" help:"Search the knowledge base."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// Config loads configuration and applies flag overrides.
func (g *Globals) Config() *config.Config {
	cfg := config.NewConfig()
	if g.NotesDir != "" {
		cfg.Notes.Dir = g.NotesDir
	}
	if g.KnowledgeDir != "" {
		cfg.Knowledge.Dir = g.KnowledgeDir
	}
	if g.Database != "" {
		cfg.Database.Path = g.Database
	}
	if g.Verbose {
		cfg.Logging.Verbose = true
	}
	return cfg
}

// setupLogging configures the standard logger and returns a cleanup func.
func setupLogging(cfg *config.Config) func() {
	closer, err := entrypoint.SetupLogging(cfg.Logging.File, cfg.Logging.Verbose)
	if err != nil {
		log.Printf("WARNING: %v, logging to console only", err)
		return func() {}
	}
	return func() { _ = closer.Close() }
}

// Execute parses args and runs the selected command.
func Execute(info BuildInfo, args []string, stdout, stderr io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("lecture-agent"),
		kong.Description("Rewrites <ai>...</ai> spans in lecture notes with a language model."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.Bind(&info),
	}, options...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run(&cli.Globals)
}
