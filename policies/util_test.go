package policies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQTableMaxAmong(t *testing.T) {
	t.Parallel()

	q := NewQTable()
	q.Set("s", "up", 0.5)
	q.Set("s", "down", 2)
	q.Set("s", "left", 7)

	action, val := q.MaxAmong("s", []string{"up", "down", "noop"}, 1)
	assert.Equal(t, "down", action)
	assert.Equal(t, 2.0, val)
	assert.Equal(t, 1.0, q.Get("s", "noop", -5), "unseen entries take the default")

	action, val = q.MaxAmong("s", nil, 3)
	assert.Empty(t, action)
	assert.Equal(t, 3.0, val)

	action, val = q.Max("s", 0)
	assert.Equal(t, "left", action)
	assert.Equal(t, 7.0, val)

	action, val = q.Max("unknown", -1)
	assert.Empty(t, action)
	assert.Equal(t, -1.0, val)
}

func TestQTableMaxAmongBreaksTies(t *testing.T) {
	t.Parallel()

	q := NewQTable()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		action, _ := q.MaxAmong("s", []string{"a", "b"}, 0)
		seen[action] = true
	}
	assert.True(t, seen["a"])
	assert.True(t, seen["b"])
}

func TestQTableRecordRead(t *testing.T) {
	t.Parallel()

	q := NewQTable()
	q.Set("s1", "up", 1.5)
	q.Set("s1", "drop", -2)
	q.Set("s2", "noop", 0.25)

	p := filepath.Join(t.TempDir(), "nested", "q.jsonl")
	require.NoError(t, q.Record(p))

	read := NewQTable()
	require.NoError(t, read.Read(p))
	assert.Equal(t, 2, read.Size())
	for _, s := range []string{"s1", "s2"} {
		want, _ := q.GetAll(s)
		got, ok := read.GetAll(s)
		require.True(t, ok)
		assert.Empty(t, cmp.Diff(want, got))
	}
}

func TestQTableReadNullEntries(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "q.jsonl")
	require.NoError(t, os.WriteFile(p, []byte(`{"state":"s","entries":null}`+"\n"), 0644))

	q := NewQTable()
	require.NoError(t, q.Read(p))
	assert.True(t, q.HasState("s"))
	assert.NotPanics(t, func() { q.Set("s", "up", 1) })
	assert.Equal(t, 1.0, q.Get("s", "up", 0))
}
