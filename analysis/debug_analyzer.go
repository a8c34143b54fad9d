package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/klauspost/compress/zstd"
	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
	"github.com/zeu5/gridroboman/util"
)

// PrintDebugAnalyzer dumps every episode trace after a threshold episode
type PrintDebugAnalyzer struct {
	// savePath is the path to save the trace
	savePath string
	exp      string
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
	compress         bool
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func NewPrintDebugAnalyzer(savePath string, threshold int, compress bool) *PrintDebugAnalyzer {
	util.EnsureDir(path.Join(savePath, "traces"))
	return &PrintDebugAnalyzer{
		savePath:         path.Join(savePath, "traces"),
		thresholdEpisode: threshold,
		compress:         compress,
	}
}

func (a *PrintDebugAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	writeTraceFile(path.Join(a.savePath, fileName), []byte(traceToString(trace)), a.compress)
}

// writeTraceFile writes data to file, as file.zst when compress is set
func writeTraceFile(file string, data []byte, compress bool) error {
	if !compress {
		return os.WriteFile(file, data, 0644)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	return os.WriteFile(file+".zst", enc.EncodeAll(data, nil), 0644)
}

// readTraceFile reverses writeTraceFile
func readTraceFile(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if path.Ext(file) != ".zst" {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		fmt.Fprintf(buf, "Step %d\n%s\n", i, stepToString(trace.Step(i)))
	}
	return buf.String()
}

func stepToString(step *core.Step) string {
	return fmt.Sprintf(
		"State: \n%s\nAction: %s\n\nNext State: \n%s\nReward: %.1f, Terminated: %t, Truncated: %t\n",
		stateToString(step.State),
		actionToString(step.Action),
		stateToString(step.NextState),
		step.Reward, step.Terminated, step.Truncated,
	)
}

func stateToString(state core.State) string {
	gs, ok := state.(*gridworld.State)
	if !ok {
		return "not a gridworld state"
	}
	return fmt.Sprintf("%sObservation: %v\nMask: %v\n", gs.Grid, gs.Observation, gs.Mask)
}

func actionToString(action core.Action) string {
	if action == nil {
		return "none"
	}
	return action.Hash()
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {
	// do nothing
}

type PrintDebugAnalyzerConstructor struct {
	SavePath         string
	ThresholdEpisode int
	Compress         bool
}

var _ core.AnalyzerConstructor = &PrintDebugAnalyzerConstructor{}

func NewPrintDebugAnalyzerConstructor(savePath string, thresholdEpisode int, compress bool) *PrintDebugAnalyzerConstructor {
	return &PrintDebugAnalyzerConstructor{
		SavePath:         savePath,
		ThresholdEpisode: thresholdEpisode,
		Compress:         compress,
	}
}

func (c *PrintDebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewPrintDebugAnalyzer(c.SavePath, c.ThresholdEpisode, c.Compress)
	a.exp = exp
	return a
}
