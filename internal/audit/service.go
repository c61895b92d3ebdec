package audit

import (
	"log"
	"strings"
	"time"

	"github.com/kendrickl1675/Lecture-Agent/internal/database/history"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

// Service records the outcome of every processed segment: a row in the
// rewrite history and, when enabled, a JSON transcript.
type Service struct {
	repo    *history.Repository
	auditor *Auditor
}

// NewService creates a new audit service. auditor may be nil.
func NewService(repo *history.Repository, auditor *Auditor) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// RecordSegment stores one segment outcome. Failures are logged; recording
// never affects the rewrite itself.
func (s *Service) RecordSegment(t Transcript) {
	if s.repo != nil {
		event := &entities.RewriteEvent{
			PassID:      t.PassID,
			File:        t.File,
			SegmentKind: t.SegmentKind,
			Outcome:     entities.RewriteOutcome(t.Outcome),
			Reason:      truncate(t.Reason, 500),
			InputChars:  len([]rune(t.Masked)),
			OutputChars: len([]rune(t.Output)),
			Missing:     truncate(strings.Join(t.Missing, ","), 500),
			CreatedAt:   t.CreatedAt,
		}
		if err := s.repo.Record(event); err != nil {
			log.Printf("Failed to record rewrite event: %v", err)
		}
	}

	if s.auditor.Enabled() {
		if _, err := s.auditor.SaveTranscript(t); err != nil {
			log.Printf("Failed to save transcript: %v", err)
		}
	}
}

// Cleanup deletes history older than retention.
func (s *Service) Cleanup(retention time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(time.Now().Add(-retention))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
