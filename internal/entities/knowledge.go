package entities

import "time"

type KnowledgeKind string

const (
	// KnowledgeDocument is reference material such as converted slides.
	KnowledgeDocument KnowledgeKind = "document"
	// KnowledgeNote is a note the agent already rewrote.
	KnowledgeNote KnowledgeKind = "note"
)

// KnowledgeSource is one indexed file. Hash is the BLAKE3 digest of the
// content that produced its chunks.
type KnowledgeSource struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Path       string        `gorm:"uniqueIndex;size:1024" json:"path"`
	Kind       KnowledgeKind `gorm:"index;size:20" json:"kind"`
	Hash       string        `gorm:"size:64" json:"hash"`
	ChunkCount int           `json:"chunk_count"`
	IndexedAt  time.Time     `json:"indexed_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (KnowledgeSource) TableName() string {
	return "knowledge_sources"
}

// Chunk is a searchable slice of a source. Terms holds the analyzed tokens
// joined by single spaces; Length is their count.
type Chunk struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Source    string        `gorm:"index;size:1024" json:"source"`
	Kind      KnowledgeKind `gorm:"index;size:20" json:"kind"`
	Position  int           `json:"position"`
	Heading   string        `gorm:"size:500" json:"heading,omitempty"`
	Content   string        `gorm:"type:text" json:"content"`
	Hash      string        `gorm:"index;size:64" json:"hash"`
	Terms     string        `gorm:"type:text" json:"-"`
	Length    int           `json:"length"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Chunk) TableName() string {
	return "knowledge_chunks"
}
