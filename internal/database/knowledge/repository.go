package knowledge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSource returns the indexed source for path, or nil when the path was
// never indexed.
func (r *Repository) GetSource(path string) (*entities.KnowledgeSource, error) {
	var source entities.KnowledgeSource
	err := r.db.Where("path = ?", path).First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// ReplaceSource swaps all chunks of a source in one transaction. It is a
// no-op returning false when the stored hash already equals hash.
func (r *Repository) ReplaceSource(path string, kind entities.KnowledgeKind, hash string, chunks []entities.Chunk) (bool, error) {
	existing, err := r.GetSource(path)
	if err != nil {
		return false, fmt.Errorf("load source %s: %w", path, err)
	}
	if existing != nil && existing.Hash == hash {
		return false, nil
	}

	now := time.Now()
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", path).Delete(&entities.Chunk{}).Error; err != nil {
			return fmt.Errorf("delete old chunks: %w", err)
		}

		for i := range chunks {
			chunks[i].ID = 0
			chunks[i].Source = path
			chunks[i].Kind = kind
			chunks[i].Position = i
		}
		if len(chunks) > 0 {
			if err := tx.CreateInBatches(chunks, 100).Error; err != nil {
				return fmt.Errorf("insert chunks: %w", err)
			}
		}

		source := entities.KnowledgeSource{
			Path:       path,
			Kind:       kind,
			Hash:       hash,
			ChunkCount: len(chunks),
			IndexedAt:  now,
		}
		if existing != nil {
			source.ID = existing.ID
			source.CreatedAt = existing.CreatedAt
		}
		return tx.Save(&source).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteSource removes a source and its chunks.
func (r *Repository) DeleteSource(path string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", path).Delete(&entities.Chunk{}).Error; err != nil {
			return err
		}
		return tx.Where("path = ?", path).Delete(&entities.KnowledgeSource{}).Error
	})
}

// Sources lists indexed sources, optionally only those under prefix.
func (r *Repository) Sources(prefix string) ([]entities.KnowledgeSource, error) {
	var sources []entities.KnowledgeSource
	query := r.db.Order("path ASC")
	if prefix != "" {
		query = query.Where("path LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	err := query.Find(&sources).Error
	return sources, err
}

// CountChunks returns the total number of searchable chunks.
func (r *Repository) CountChunks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Chunk{}).Count(&count).Error
	return count, err
}

// AllChunks loads every chunk for scoring.
func (r *Repository) AllChunks() ([]entities.Chunk, error) {
	var chunks []entities.Chunk
	err := r.db.Order("id ASC").Find(&chunks).Error
	return chunks, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
