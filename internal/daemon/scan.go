package daemon

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PassResult summarizes one walk over the notes tree.
type PassResult struct {
	ID         string        `json:"id"`
	Root       string        `json:"root"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Files      int           `json:"files"`
	Annotated  int           `json:"annotated"`
	Saved      int           `json:"saved"`
	Errors     int           `json:"errors"`
	Rewritten  int           `json:"rewritten"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
}

func (r *PassResult) add(f FileResult) {
	if f.Segments > 0 {
		r.Annotated++
	}
	if f.Saved {
		r.Saved++
	}
	r.Rewritten += f.Rewritten
	r.Skipped += f.Skipped
	r.Failed += f.Failed
}

// Scan processes every note under root, one file at a time. Unreadable files
// and failed writes are logged and counted; they never end the pass.
func (p *Processor) Scan(ctx context.Context, root string) PassResult {
	result := PassResult{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now(),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Lecture agent: cannot access %s: %v", path, err)
			result.Errors++
			return nil
		}
		if d.IsDir() {
			if p.cfg.SkipHiddenDirs && path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), p.cfg.NoteExtension) {
			return nil
		}

		result.Files++
		fileResult, err := p.processFile(ctx, result.ID, path)
		if err != nil {
			log.Printf("Lecture agent: %v", err)
			result.Errors++
		}
		result.add(fileResult)
		return nil
	})
	if err != nil {
		log.Printf("Lecture agent: walk %s: %v", root, err)
		result.Errors++
	}

	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	return result
}
