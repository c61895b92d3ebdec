package entities

import "time"

type RewriteOutcome string

const (
	RewriteOutcomeRewritten RewriteOutcome = "rewritten"
	RewriteOutcomeSkipped   RewriteOutcome = "skipped"
	RewriteOutcomeFailed    RewriteOutcome = "failed"
)

// RewriteEvent records what happened to one annotated segment.
type RewriteEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PassID      string         `gorm:"index;size:36" json:"pass_id"`
	File        string         `gorm:"index;size:1024" json:"file"`
	SegmentKind string         `gorm:"size:20" json:"segment_kind"`
	Outcome     RewriteOutcome `gorm:"index;size:20" json:"outcome"`
	Reason      string         `gorm:"size:500" json:"reason,omitempty"`
	InputChars  int            `json:"input_chars"`
	OutputChars int            `json:"output_chars"`
	Missing     string         `gorm:"size:500" json:"missing_tokens,omitempty"` // comma separated
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (RewriteEvent) TableName() string {
	return "rewrite_events"
}
