package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kienanstewart/insanity"
	"github.com/kienanstewart/insanity/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBasePath_DefaultsToCwd(t *testing.T) {
	got, err := resolveBasePath(nil)
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, got)
}

func TestResolveBasePath_RejectsFiles(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := resolveBasePath([]string{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestResolveBasePath_RejectsMissing(t *testing.T) {
	t.Parallel()
	_, err := resolveBasePath([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := loadConfig(t.TempDir(), checkCmd)
	require.NoError(t, err)
	assert.Equal(t, "missionxml", cfg.Use)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.ShowUnused)
	assert.Empty(t, cfg.DB)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	yaml := "use: rawfiles\nverbose: true\nshow_unused: true\ndb: runs.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(base, "insanity.yaml"), []byte(yaml), 0o644))

	cfg, err := loadConfig(base, checkCmd)
	require.NoError(t, err)
	assert.Equal(t, "rawfiles", cfg.Use)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.ShowUnused)
	assert.Equal(t, "runs.db", cfg.DB)
}

func TestLoadConfig_MalformedYAMLIsFatal(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "insanity.yaml"), []byte("use: [\n"), 0o644))

	_, err := loadConfig(base, checkCmd)
	require.Error(t, err)
}

func TestPersistRun_RoundTrip(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	started := time.Now().Truncate(time.Second)
	res := &insanity.Result{
		BasePath:     "/srv/naev",
		Started:      started,
		Finished:     started.Add(time.Second),
		FilesScanned: 3,
		FilesSkipped: 1,
		Diagnostics: []insanity.Diagnostic{
			{Kind: insanity.AddShip, Argument: "Hawking", File: "a.lua", Line: 2, Column: 1},
		},
		Unused: map[insanity.Category][]string{
			insanity.Ship: {"Lancelot"},
		},
		MissingTech: map[insanity.Category][]string{
			insanity.Outfit: {"Ion Cannon"},
		},
	}
	require.NoError(t, persistRun(dbPath, res))

	store, err := report.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "/srv/naev", run.BasePath)
	assert.Equal(t, 3, run.FilesScanned)

	diags, err := store.DiagnosticsByRun(run.ID)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "player.addShip", diags[0].Call)
	assert.Equal(t, "Hawking", diags[0].Argument)

	unused, err := store.UnusedByRun(run.ID, "ship")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lancelot"}, unused)
}
