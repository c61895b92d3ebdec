// Package daemon drives the rewrite pipeline over a tree of notes.
//
// For every annotated span in a file the Processor classifies the captured
// text, masks links and images, asks the gateway for a rewrite and rebuilds
// the original structure around the answer. All spans of a file are found
// against the text as read, then spliced back last-first, and the file is
// written only when the result differs.
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kendrickl1675/Lecture-Agent/internal/audit"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
	"github.com/kendrickl1675/Lecture-Agent/internal/markers"
	"github.com/kendrickl1675/Lecture-Agent/internal/protector"
	"github.com/kendrickl1675/Lecture-Agent/internal/rewrite"
	"github.com/kendrickl1675/Lecture-Agent/internal/segment"
	"github.com/kendrickl1675/Lecture-Agent/internal/storage"
)

const DefaultNoteExtension = ".md"

// Recorder receives the outcome of every processed segment.
type Recorder interface {
	RecordSegment(t audit.Transcript)
}

// NoteIndexer is told about notes that were rewritten so they can become
// context for later rewrites.
type NoteIndexer interface {
	EnqueueNote(ctx context.Context, path string) error
}

// Config tunes a Processor.
type Config struct {
	NoteExtension string
	// SkipHiddenDirs skips directories such as .obsidian, .git and .trash.
	SkipHiddenDirs bool
	// StrictPlaceholders turns a rewrite that lost a placeholder into a
	// no-op instead of leaving the literal token in the note.
	StrictPlaceholders bool
}

// SegmentResult describes what happened to one span.
type SegmentResult struct {
	Kind        segment.Kind
	Outcome     entities.RewriteOutcome
	Reason      string
	Missing     []string
	Replacement string
}

// FileResult counts the segment outcomes of one file.
type FileResult struct {
	Path      string `json:"path"`
	Segments  int    `json:"segments"`
	Rewritten int    `json:"rewritten"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Saved     bool   `json:"saved"`
}

func (r *FileResult) count(o entities.RewriteOutcome) {
	r.Segments++
	switch o {
	case entities.RewriteOutcomeRewritten:
		r.Rewritten++
	case entities.RewriteOutcomeSkipped:
		r.Skipped++
	case entities.RewriteOutcomeFailed:
		r.Failed++
	}
}

// Processor runs the per-file pipeline. The retriever and gateway are built
// once and shared by every file and pass.
type Processor struct {
	finder    *markers.Finder
	retriever rewrite.Retriever
	gateway   rewrite.Gateway
	recorder  Recorder
	indexer   NoteIndexer
	cfg       Config
}

func NewProcessor(finder *markers.Finder, retriever rewrite.Retriever, gateway rewrite.Gateway, cfg Config) *Processor {
	if finder == nil {
		finder = markers.NewFinder("", "")
	}
	if cfg.NoteExtension == "" {
		cfg.NoteExtension = DefaultNoteExtension
	}
	return &Processor{
		finder:    finder,
		retriever: retriever,
		gateway:   gateway,
		cfg:       cfg,
	}
}

// SetRecorder attaches a recorder for segment outcomes.
func (p *Processor) SetRecorder(r Recorder) {
	p.recorder = r
}

// SetIndexer attaches the hook for rewritten notes.
func (p *Processor) SetIndexer(ix NoteIndexer) {
	p.indexer = ix
}

// ProcessSegment rewrites the text captured between one marker pair and
// returns the text that replaces the whole span, markers included. A failing
// gateway is treated as a no-op: the captured text comes back unchanged.
func (p *Processor) ProcessSegment(ctx context.Context, raw string) SegmentResult {
	return p.processSegment(ctx, "", "", raw)
}

func (p *Processor) processSegment(ctx context.Context, passID, file, raw string) SegmentResult {
	seg := segment.Classify(raw)
	masked, m := protector.Protect(seg.Body)

	// Retrieval sees the unmasked body so link targets still count as terms.
	contextText := rewrite.ContextText(ctx, p.retriever, seg.Body)

	result := SegmentResult{Kind: seg.Kind}
	res, err := p.gateway.Rewrite(ctx, masked, contextText)
	switch {
	case err != nil:
		log.Printf("Lecture agent: rewrite failed, keeping original: %v", err)
		res = rewrite.NoOp(err.Error())
		result.Outcome = entities.RewriteOutcomeFailed
	case res.IsNoOp():
		result.Outcome = entities.RewriteOutcomeSkipped
	default:
		result.Outcome = entities.RewriteOutcomeRewritten
		if missing := protector.Missing(res.Text(), m); len(missing) > 0 {
			result.Missing = missing
			log.Printf("Lecture agent: rewrite dropped placeholders %s", strings.Join(missing, ", "))
			if p.cfg.StrictPlaceholders {
				res = rewrite.NoOp("placeholders lost: " + strings.Join(missing, ", "))
				result.Outcome = entities.RewriteOutcomeSkipped
			}
		}
	}
	result.Reason = res.Reason()
	result.Replacement = segment.Reassemble(seg, res, m)

	if p.recorder != nil {
		var output string
		if !res.IsNoOp() {
			output = res.Text()
		}
		p.recorder.RecordSegment(audit.Transcript{
			PassID:      passID,
			File:        file,
			SegmentKind: string(seg.Kind),
			Masked:      masked,
			Context:     contextText,
			Output:      output,
			Outcome:     string(result.Outcome),
			Reason:      result.Reason,
			Missing:     result.Missing,
			CreatedAt:   time.Now(),
		})
	}

	return result
}

// ProcessFile runs the pipeline over one note and saves it when anything
// changed.
func (p *Processor) ProcessFile(ctx context.Context, path string) (FileResult, error) {
	return p.processFile(ctx, uuid.NewString(), path)
}

func (p *Processor) processFile(ctx context.Context, passID, path string) (FileResult, error) {
	result := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)

	if !p.finder.Contains(content) {
		return result, nil
	}
	spans := p.finder.Find(content)
	if len(spans) == 0 {
		return result, nil
	}

	log.Printf("Lecture agent: detected %d segments in %s", len(spans), filepath.Base(path))

	edits := make([]markers.Edit, 0, len(spans))
	for i := len(spans) - 1; i >= 0; i-- {
		seg := p.processSegment(ctx, passID, path, spans[i].Inner)
		result.count(seg.Outcome)
		edits = append(edits, markers.Edit{Span: spans[i], Replacement: seg.Replacement})
	}

	updated := markers.Apply(content, edits)
	if updated == content {
		return result, nil
	}

	if err := storage.WriteFilePreservingMode(path, []byte(updated)); err != nil {
		return result, fmt.Errorf("write %s: %w", path, err)
	}
	result.Saved = true
	log.Printf("Lecture agent: saved %s (%d rewritten, %d skipped, %d failed)",
		filepath.Base(path), result.Rewritten, result.Skipped, result.Failed)

	if p.indexer != nil && result.Rewritten > 0 {
		if err := p.indexer.EnqueueNote(ctx, path); err != nil {
			log.Printf("Lecture agent: failed to queue %s for indexing: %v", path, err)
		}
	}

	return result, nil
}
