package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gridroboman/core"
)

func TestTraceFileRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := []byte(traceToString(walk(4, core.Feedback{Reward: 1, Terminated: true})))

	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, writeTraceFile(plain, data, false))
	got, err := readTraceFile(plain)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	packed := filepath.Join(dir, "packed.txt")
	require.NoError(t, writeTraceFile(packed, data, true))
	_, err = os.Stat(packed)
	assert.True(t, os.IsNotExist(err))
	got, err = readTraceFile(packed + ".zst")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPrintDebugAnalyzerThreshold(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := NewPrintDebugAnalyzerConstructor(dir, 2, true).NewAnalyzer("Random", 0)
	for i := 0; i < 4; i++ {
		a.Analyze(episode(1, i), walk(2, core.Feedback{}))
	}

	entries, err := os.ReadDir(filepath.Join(dir, "traces"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"1_Random_trace_2.txt.zst", "1_Random_trace_3.txt.zst"}, names)

	dump, err := readTraceFile(filepath.Join(dir, "traces", "1_Random_trace_3.txt.zst"))
	require.NoError(t, err)
	assert.Contains(t, string(dump), "Action: right")
	assert.Contains(t, string(dump), "Step 1")
}

func TestInvariantAnalyzer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	long := InvariantSpec{
		Name:     "Short",
		Violated: func(tr *core.Trace) bool { return tr.Len() > 3 },
	}
	a := NewInvariantAnalyzerConstructor(dir, long).NewAnalyzer("Random", 0)
	a.Analyze(episode(0, 0), walk(2, core.Feedback{}))
	a.Analyze(episode(0, 1), walk(5, core.Feedback{}))
	a.Analyze(episode(0, 2), walk(6, core.Feedback{}))

	ds := a.DataSet().(*invariantDataset)
	assert.Equal(t, map[string]int{"Short": 2}, ds.Violations)
	_, err := os.Stat(filepath.Join(dir, "violations", "0_Random_Short_violation_1.txt"))
	assert.NoError(t, err)

	NewInvariantComparatorConstructor(dir).NewComparator(0).Compare([]string{"Random"}, []core.DataSet{ds})
	_, err = os.Stat(filepath.Join(dir, "0", "invariant_violations.json"))
	assert.NoError(t, err)
}
