package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	dir       string
	db        string
	knowledge string
	notes     string
}

func setupCLI(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "agent.log"))

	env := cliEnv{
		dir:       dir,
		db:        filepath.Join(dir, "agent.db"),
		knowledge: filepath.Join(dir, "attachments"),
		notes:     filepath.Join(dir, "notes"),
	}
	require.NoError(t, os.MkdirAll(env.knowledge, 0o755))
	require.NoError(t, os.MkdirAll(env.notes, 0o755))
	return env
}

func run(t *testing.T, env cliEnv, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []string{"--db", env.db, "--knowledge", env.knowledge, "--notes", env.notes}
	err := Execute(BuildInfo{Version: "1.2.3", Commit: "abc"}, append(base, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	env := setupCLI(t)

	out, err := run(t, env, "version")
	require.NoError(t, err)
	assert.Equal(t, "lecture-agent 1.2.3 (commit abc)\n", out)
}

func TestIndexAndQuery(t *testing.T) {
	env := setupCLI(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.knowledge, "capm.md"),
		[]byte("# CAPM\n\nThe capital asset pricing model relates expected return to beta.\n"), 0o644))

	out, err := run(t, env, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1")

	out, err = run(t, env, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged 1")

	out, err = run(t, env, "query", "capital asset pricing")
	require.NoError(t, err)
	assert.Contains(t, out, "capm.md > CAPM")
	assert.Contains(t, out, "expected return to beta")

	out, err = run(t, env, "query", "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "No matches.\n", out)
}

func TestIndexSingleFileAsNote(t *testing.T) {
	env := setupCLI(t)
	note := filepath.Join(env.notes, "week2.md")
	require.NoError(t, os.WriteFile(note, []byte("Options give the right but not the obligation.\n"), 0o644))

	out, err := run(t, env, "index", note, "--kind", "note")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1")

	_, err = run(t, env, "index", note, "--kind", "slides")
	assert.Error(t, err)
}

func TestOnceRequiresAPIKey(t *testing.T) {
	env := setupCLI(t)
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := run(t, env, "once")
	assert.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	env := setupCLI(t)

	_, err := run(t, env, "frobnicate", "now")
	assert.Error(t, err)
}
