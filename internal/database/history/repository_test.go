package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.RewriteEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_Record(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.RewriteEvent{
		PassID:      "pass-1",
		File:        "notes/week1.md",
		SegmentKind: "callout",
		Outcome:     entities.RewriteOutcomeRewritten,
		InputChars:  27,
		OutputChars: 40,
	}

	require.NoError(t, repo.Record(event))
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_Recent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(&entities.RewriteEvent{
			PassID:    "pass-1",
			File:      "a.md",
			Outcome:   entities.RewriteOutcomeSkipped,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}))
	}

	events, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
	assert.True(t, events[1].CreatedAt.After(events[2].CreatedAt))

	all, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRepository_ByPass(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "p1", File: "a.md", Outcome: entities.RewriteOutcomeRewritten}))
	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "p2", File: "b.md", Outcome: entities.RewriteOutcomeSkipped}))
	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "p1", File: "c.md", Outcome: entities.RewriteOutcomeFailed}))

	events, err := repo.ByPass("p1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a.md", events[0].File)
	assert.Equal(t, "c.md", events[1].File)
}

func TestRepository_CountByOutcome(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	outcomes := []entities.RewriteOutcome{
		entities.RewriteOutcomeRewritten,
		entities.RewriteOutcomeRewritten,
		entities.RewriteOutcomeSkipped,
		entities.RewriteOutcomeFailed,
	}
	for _, o := range outcomes {
		require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "p", File: "a.md", Outcome: o}))
	}

	counts, err := repo.CountByOutcome()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entities.RewriteOutcomeRewritten])
	assert.Equal(t, int64(1), counts[entities.RewriteOutcomeSkipped])
	assert.Equal(t, int64(1), counts[entities.RewriteOutcomeFailed])
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "old", File: "a.md", CreatedAt: time.Now().AddDate(0, 0, -40)}))
	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "new", File: "a.md", CreatedAt: time.Now()}))

	deleted, err := repo.DeleteOlderThan(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].PassID)
}
