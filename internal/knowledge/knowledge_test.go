package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	knowledgedb "github.com/kendrickl1675/Lecture-Agent/internal/database/knowledge"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
	"github.com/kendrickl1675/Lecture-Agent/internal/rewrite"
)

func setupRepo(t *testing.T) *knowledgedb.Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.KnowledgeSource{}, &entities.Chunk{}))
	return knowledgedb.NewRepository(db)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"basic", "The CAPM Model", []string{"the", "capm", "model"}},
		{"punctuation", "beta, alpha! Black-Scholes", []string{"beta", "alpha", "black", "scholes"}},
		{"digits", "AR1 model 2024", []string{"ar1", "model", "2024"}},
		{"han characters", "资本资产", []string{"资", "本", "资", "产"}},
		{"mixed", "CAPM模型ok", []string{"capm", "模", "型", "ok"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.input))
		})
	}
}

func TestSplitter(t *testing.T) {
	t.Run("splits on headings", func(t *testing.T) {
		text := "intro line\n# Week 1\nCAPM basics\n## Beta\nbeta text\n# Week 2\nfactor models"
		pieces := NewSplitter(800, 100).Split(text)

		require.Len(t, pieces, 4)
		assert.Equal(t, "", pieces[0].Heading)
		assert.Equal(t, "intro line", pieces[0].Content)
		assert.Equal(t, "Week 1", pieces[1].Heading)
		assert.Equal(t, "# Week 1\nCAPM basics", pieces[1].Content)
		assert.Equal(t, "Week 1 > Beta", pieces[2].Heading)
		assert.Equal(t, "Week 2", pieces[3].Heading)
	})

	t.Run("ignores headings inside code fences", func(t *testing.T) {
		text := "# Real\n```\n# not a heading\n```"
		pieces := NewSplitter(800, 100).Split(text)

		require.Len(t, pieces, 1)
		assert.Equal(t, "Real", pieces[0].Heading)
	})

	t.Run("long sections are windowed with overlap", func(t *testing.T) {
		words := make([]string, 100)
		for i := range words {
			words[i] = "word"
		}
		text := strings.Join(words, " ")
		pieces := NewSplitter(50, 10).Split(text)

		require.Greater(t, len(pieces), 1)
		for _, p := range pieces {
			assert.LessOrEqual(t, len([]rune(p.Content)), 50)
			assert.False(t, strings.HasPrefix(p.Content, "ord"), "window should start on a word")
		}
	})

	t.Run("windows respect runes", func(t *testing.T) {
		text := strings.Repeat("资", 30)
		pieces := NewSplitter(10, 2).Split(text)

		require.NotEmpty(t, pieces)
		for _, p := range pieces {
			assert.LessOrEqual(t, len([]rune(p.Content)), 10)
		}
	})

	t.Run("blank input", func(t *testing.T) {
		assert.Empty(t, NewSplitter(0, 0).Split(" \n\n "))
	})

	t.Run("defaults", func(t *testing.T) {
		s := NewSplitter(0, -1)
		assert.Equal(t, DefaultChunkSize, s.Size)
		assert.Equal(t, DefaultChunkOverlap, s.Overlap)
	})
}

func TestScorer_Rank(t *testing.T) {
	chunk := func(id uint, content string) entities.Chunk {
		terms := Analyze(content)
		return entities.Chunk{ID: id, Content: content, Terms: strings.Join(terms, " "), Length: len(terms)}
	}
	chunks := []entities.Chunk{
		chunk(1, "The capital asset pricing model relates expected return to beta."),
		chunk(2, "Black Scholes prices European options using volatility."),
		chunk(3, "Monetary policy in Macau follows the AMCM framework."),
	}
	scorer := NewScorer()

	t.Run("best match first", func(t *testing.T) {
		hits := scorer.Rank("option volatility Black Scholes", chunks, 2, 0)

		require.NotEmpty(t, hits)
		assert.Equal(t, uint(2), hits[0].Chunk.ID)
		assert.Greater(t, hits[0].Score, 0.0)
		assert.Less(t, hits[0].Score, 1.0)
	})

	t.Run("threshold drops weak matches", func(t *testing.T) {
		hits := scorer.Rank("beta of the market portfolio under pricing assumptions", chunks, 5, 0.99)
		assert.Empty(t, hits)
	})

	t.Run("top k bound", func(t *testing.T) {
		hits := scorer.Rank("the", chunks, 1, 0)
		assert.Len(t, hits, 1)
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Empty(t, scorer.Rank("quantum chromodynamics", chunks, 2, 0))
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, scorer.Rank("", chunks, 2, 0))
		assert.Empty(t, scorer.Rank("beta", nil, 2, 0))
	})
}

func TestRetriever(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		r := NewRetriever(setupRepo(t), 2, 0.25)

		res, err := r.Retrieve(ctx, "anything")
		require.NoError(t, err)
		assert.Equal(t, rewrite.RetrievalEmptyStore, res.Status)
	})

	t.Run("found and no match", func(t *testing.T) {
		repo := setupRepo(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "capm.md"), "# CAPM\nThe capital asset pricing model relates expected return to beta.")
		writeFile(t, filepath.Join(dir, "options.md"), "# Options\nBlack Scholes prices European options using volatility.")

		_, err := NewIndexer(repo, NewSplitter(800, 100)).IndexDir(ctx, dir, entities.KnowledgeDocument)
		require.NoError(t, err)

		r := NewRetriever(repo, 2, 0.25)

		res, err := r.Retrieve(ctx, "Black Scholes volatility")
		require.NoError(t, err)
		require.Equal(t, rewrite.RetrievalFound, res.Status)
		require.NotEmpty(t, res.Snippets)
		assert.Contains(t, res.Snippets[0].Content, "Black Scholes")
		assert.Equal(t, "options.md > Options", res.Snippets[0].Source)

		res, err = r.Retrieve(ctx, "quantum chromodynamics")
		require.NoError(t, err)
		assert.Equal(t, rewrite.RetrievalNoMatch, res.Status)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewRetriever(setupRepo(t), 2, 0.25).Retrieve(cctx, "q")
		assert.Error(t, err)
	})
}

func TestIndexer(t *testing.T) {
	ctx := context.Background()

	t.Run("index file is idempotent", func(t *testing.T) {
		repo := setupRepo(t)
		ix := NewIndexer(repo, NewSplitter(800, 100))
		path := filepath.Join(t.TempDir(), "week1.md")
		writeFile(t, path, "# Week 1\nCAPM and beta.")

		res, err := ix.IndexFile(ctx, path, entities.KnowledgeNote)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Indexed)
		assert.Equal(t, 1, res.Chunks)

		res, err = ix.IndexFile(ctx, path, entities.KnowledgeNote)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Unchanged)

		writeFile(t, path, "# Week 1\nCAPM, beta and the SML.")
		res, err = ix.IndexFile(ctx, path, entities.KnowledgeNote)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Indexed)

		source, err := repo.GetSource(path)
		require.NoError(t, err)
		require.NotNil(t, source)
		assert.Equal(t, Hash([]byte("# Week 1\nCAPM, beta and the SML.")), source.Hash)
	})

	t.Run("unsupported formats are skipped", func(t *testing.T) {
		ix := NewIndexer(setupRepo(t), NewSplitter(800, 100))
		path := filepath.Join(t.TempDir(), "slides.pdf")
		writeFile(t, path, "%PDF-1.4")

		res, err := ix.IndexFile(ctx, path, entities.KnowledgeDocument)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("missing file fails", func(t *testing.T) {
		ix := NewIndexer(setupRepo(t), NewSplitter(800, 100))

		res, err := ix.IndexFile(ctx, filepath.Join(t.TempDir(), "gone.md"), entities.KnowledgeDocument)
		assert.Error(t, err)
		assert.Equal(t, 1, res.Failed)
	})

	t.Run("index dir walks, skips hidden and prunes", func(t *testing.T) {
		repo := setupRepo(t)
		ix := NewIndexer(repo, NewSplitter(800, 100))
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.md"), "alpha")
		writeFile(t, filepath.Join(dir, "sub", "b.txt"), "beta")
		writeFile(t, filepath.Join(dir, ".obsidian", "c.md"), "hidden")
		writeFile(t, filepath.Join(dir, "d.pdf"), "binary")

		res, err := ix.IndexDir(ctx, dir, entities.KnowledgeDocument)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Indexed)

		require.NoError(t, os.Remove(filepath.Join(dir, "a.md")))

		res, err = ix.IndexDir(ctx, dir, entities.KnowledgeDocument)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Unchanged)
		assert.Equal(t, 1, res.Removed)

		sources, err := repo.Sources("")
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, filepath.Join(dir, "sub", "b.txt"), sources[0].Path)
	})
}
