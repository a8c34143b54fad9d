package analysis

import (
	"log"
	"path"
	"strconv"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/util"
	"gonum.org/v1/gonum/stat"
)

type successDataset struct {
	Timesteps           []int
	Successes           []int
	Lengths             []float64
	FirstSuccessEpisode int

	SuccessRate float64
	MeanLength  float64
	StdLength   float64
}

func (s *successDataset) Copy() *successDataset {
	return &successDataset{
		Timesteps:           util.CopyIntSlice(s.Timesteps),
		Successes:           util.CopyIntSlice(s.Successes),
		Lengths:             util.CopyFloatSlice(s.Lengths),
		FirstSuccessEpisode: s.FirstSuccessEpisode,
		SuccessRate:         s.SuccessRate,
		MeanLength:          s.MeanLength,
		StdLength:           s.StdLength,
	}
}

// SuccessAnalyzer tracks how often and how quickly episodes reach the goal
type SuccessAnalyzer struct {
	dataset *successDataset
}

var _ core.Analyzer = &SuccessAnalyzer{}

func NewSuccessAnalyzer() *SuccessAnalyzer {
	a := &SuccessAnalyzer{}
	a.Reset()
	return a
}

func (a *SuccessAnalyzer) Reset() {
	a.dataset = &successDataset{
		Timesteps:           make([]int, 0),
		Successes:           make([]int, 0),
		Lengths:             make([]float64, 0),
		FirstSuccessEpisode: -1,
	}
}

func (a *SuccessAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	d := a.dataset
	lastTimeStep, lastSuccesses := 0, 0
	if n := len(d.Timesteps); n > 0 {
		lastTimeStep = d.Timesteps[n-1]
		lastSuccesses = d.Successes[n-1]
	}
	if trace.Succeeded() {
		lastSuccesses++
		if d.FirstSuccessEpisode == -1 {
			d.FirstSuccessEpisode = eCtx.Episode
		}
	}
	d.Timesteps = append(d.Timesteps, lastTimeStep+trace.Len())
	d.Successes = append(d.Successes, lastSuccesses)
	d.Lengths = append(d.Lengths, float64(trace.Len()))
}

func (a *SuccessAnalyzer) DataSet() core.DataSet {
	out := a.dataset.Copy()
	if n := len(out.Lengths); n > 0 {
		out.SuccessRate = float64(out.Successes[n-1]) / float64(n)
		out.MeanLength = stat.Mean(out.Lengths, nil)
		// StdDev of a single sample is NaN
		if n > 1 {
			out.StdLength = stat.StdDev(out.Lengths, nil)
		}
	}
	return out
}

type SuccessAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &SuccessAnalyzerConstructor{}

func NewSuccessAnalyzerConstructor() *SuccessAnalyzerConstructor {
	return &SuccessAnalyzerConstructor{}
}

func (c *SuccessAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewSuccessAnalyzer()
}

// SuccessComparator writes every experiment's success curve to one file
type SuccessComparator struct {
	savePath string
}

var _ core.Comparator = &SuccessComparator{}

func NewSuccessComparator(savePath string) *SuccessComparator {
	return &SuccessComparator{
		savePath: path.Join(savePath, "success_analyzer.json"),
	}
}

func (c *SuccessComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*successDataset)
	for i, name := range experimentNames {
		if ds, ok := datasets[i].(*successDataset); ok {
			out[name] = ds
		}
	}
	if err := util.SaveJson(c.savePath, out); err != nil {
		log.Printf("success comparator: %v", err)
	}
}

type SuccessComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &SuccessComparatorConstructor{}

func NewSuccessComparatorConstructor(savePath string) *SuccessComparatorConstructor {
	return &SuccessComparatorConstructor{
		savePath: savePath,
	}
}

func (c *SuccessComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewSuccessComparator(path.Join(c.savePath, strconv.Itoa(run)))
}
