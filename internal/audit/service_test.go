package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kendrickl1675/Lecture-Agent/internal/database/history"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

func setupService(t *testing.T, auditDir string) (*Service, *history.Repository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.RewriteEvent{}))

	repo := history.NewRepository(db)
	return NewService(repo, NewAuditor(auditDir)), repo
}

func TestService_RecordSegment(t *testing.T) {
	t.Run("writes history and transcript", func(t *testing.T) {
		dir := t.TempDir()
		svc, repo := setupService(t, dir)

		svc.RecordSegment(Transcript{
			PassID:      "p1",
			File:        "a.md",
			SegmentKind: "plain_text",
			Masked:      "hello world",
			Output:      "Hello, World.",
			Outcome:     string(entities.RewriteOutcomeRewritten),
			Missing:     []string{"__IMG_0__", "__LINK_1__"},
		})

		events, err := repo.Recent(10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entities.RewriteOutcomeRewritten, events[0].Outcome)
		assert.Equal(t, 11, events[0].InputChars)
		assert.Equal(t, 13, events[0].OutputChars)
		assert.Equal(t, "__IMG_0__,__LINK_1__", events[0].Missing)

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("long reasons are truncated", func(t *testing.T) {
		svc, repo := setupService(t, "")

		svc.RecordSegment(Transcript{
			PassID:  "p1",
			File:    "a.md",
			Outcome: string(entities.RewriteOutcomeFailed),
			Reason:  strings.Repeat("x", 900),
		})

		events, err := repo.Recent(1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Len(t, events[0].Reason, 500)
	})

	t.Run("no transcript when disabled", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "never")
		svc, _ := setupService(t, "")
		svc.RecordSegment(Transcript{PassID: "p", File: "a.md", Outcome: "skipped"})

		_, err := os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestService_Cleanup(t *testing.T) {
	svc, repo := setupService(t, "")

	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "old", CreatedAt: time.Now().AddDate(0, 0, -45)}))
	require.NoError(t, repo.Record(&entities.RewriteEvent{PassID: "new"}))

	deleted, err := svc.Cleanup(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
