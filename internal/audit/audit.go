package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Transcript is the full record of one model exchange, kept for debugging
// prompts.
type Transcript struct {
	PassID      string    `json:"pass_id"`
	File        string    `json:"file"`
	SegmentKind string    `json:"segment_kind"`
	Masked      string    `json:"masked_input"`
	Context     string    `json:"context"`
	Output      string    `json:"output,omitempty"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	Missing     []string  `json:"missing_tokens,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Auditor writes transcripts to AuditDir. An empty AuditDir disables it.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// Enabled reports whether transcripts are written.
func (a *Auditor) Enabled() bool {
	return a != nil && a.AuditDir != ""
}

// SaveTranscript stores t as <uuid>.json and returns the file name.
func (a *Auditor) SaveTranscript(t Transcript) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return a.SaveJSON(t)
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	log.Printf("Lecture agent: saved transcript %s", path)
	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
