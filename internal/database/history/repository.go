package history

import (
	"time"

	"gorm.io/gorm"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

const defaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record saves a rewrite event.
func (r *Repository) Record(event *entities.RewriteEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// Recent returns the latest events, newest first.
func (r *Repository) Recent(limit int) ([]entities.RewriteEvent, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	var events []entities.RewriteEvent
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error
	return events, err
}

// ByPass returns the events of one scan pass in insertion order.
func (r *Repository) ByPass(passID string) ([]entities.RewriteEvent, error) {
	var events []entities.RewriteEvent
	err := r.db.Where("pass_id = ?", passID).Order("id ASC").Find(&events).Error
	return events, err
}

// CountByOutcome returns how many events each outcome has.
func (r *Repository) CountByOutcome() (map[entities.RewriteOutcome]int64, error) {
	var rows []struct {
		Outcome entities.RewriteOutcome
		Count   int64
	}
	err := r.db.Model(&entities.RewriteEvent{}).
		Select("outcome, COUNT(*) AS count").
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.RewriteOutcome]int64, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = row.Count
	}
	return counts, nil
}

// DeleteOlderThan removes events created before cutoff and returns how many
// were deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.RewriteEvent{})
	return result.RowsAffected, result.Error
}
