package common

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileOverlaysDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
task:
  id: Gridroboman-StackXOnY-v0
  x: red
  y: green
  seed: 9
run:
  episodes: 200
  episode_timeout: 2s
learn:
  epsilon: 0.2
db_path: runs.db
`), 0644))

	f := DefaultFlags()
	require.NoError(t, f.LoadFile(p))

	assert.Equal(t, "Gridroboman-StackXOnY-v0", f.Task)
	assert.Equal(t, "red", f.X)
	assert.Equal(t, "green", f.Y)
	assert.Equal(t, int64(9), f.Seed)
	assert.Equal(t, 200, f.Episodes)
	assert.Equal(t, 2*time.Second, f.EpisodeTimeout)
	assert.Equal(t, 0.2, f.Epsilon)
	assert.Equal(t, "runs.db", f.DBPath)

	// untouched keys keep their defaults
	assert.Equal(t, 50, f.Horizon)
	assert.Equal(t, 0.95, f.Discount)
	assert.Equal(t, 4, f.Parallelism)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	f := DefaultFlags()
	assert.Error(t, f.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("run: [1, 2"), 0644))
	assert.Error(t, f.LoadFile(p))
}

func TestRecord(t *testing.T) {
	t.Parallel()

	f := DefaultFlags()
	f.SavePath = filepath.Join(t.TempDir(), "results")
	f.Task = "Gridroboman-LiftRed-v0"
	require.NoError(t, f.Record())

	raw, err := os.ReadFile(filepath.Join(f.SavePath, "config.json"))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Gridroboman-LiftRed-v0", out["Task"])
}
