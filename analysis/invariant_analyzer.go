package analysis

import (
	"fmt"
	"log"
	"path"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/util"
)

// InvariantSpec names a property every trace must keep. Violated returns
// true when the trace breaks it.
type InvariantSpec struct {
	Name     string
	Violated func(*core.Trace) bool
}

type invariantDataset struct {
	Violations map[string]int
}

// InvariantAnalyzer counts violating episodes per invariant and saves
// their traces
type InvariantAnalyzer struct {
	invariants []InvariantSpec
	savePath   string
	exp        string
	violations map[string]int
}

var _ core.Analyzer = &InvariantAnalyzer{}

func NewInvariantAnalyzer(savePath string, invariants ...InvariantSpec) *InvariantAnalyzer {
	util.EnsureDir(path.Join(savePath, "violations"))
	return &InvariantAnalyzer{
		invariants: invariants,
		savePath:   path.Join(savePath, "violations"),
		violations: make(map[string]int),
	}
}

func (ia *InvariantAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	for _, inv := range ia.invariants {
		if !inv.Violated(trace) {
			continue
		}
		ia.violations[inv.Name]++
		fileName := path.Join(ia.savePath, fmt.Sprintf("%d_%s_violation_%d.txt", eCtx.Run, inv.Name, eCtx.Episode))
		if ia.exp != "" {
			fileName = path.Join(ia.savePath, fmt.Sprintf("%d_%s_%s_violation_%d.txt", eCtx.Run, ia.exp, inv.Name, eCtx.Episode))
		}
		writeTraceFile(fileName, []byte(traceToString(trace)), false)
	}
}

func (ia *InvariantAnalyzer) DataSet() core.DataSet {
	return &invariantDataset{Violations: util.CopyStringIntMap(ia.violations)}
}

func (ia *InvariantAnalyzer) Reset() {
	ia.violations = make(map[string]int)
}

type InvariantAnalyzerConstructor struct {
	SavePath   string
	Invariants []InvariantSpec
}

var _ core.AnalyzerConstructor = &InvariantAnalyzerConstructor{}

func NewInvariantAnalyzerConstructor(savePath string, invariants ...InvariantSpec) *InvariantAnalyzerConstructor {
	return &InvariantAnalyzerConstructor{
		SavePath:   savePath,
		Invariants: invariants,
	}
}

func (c *InvariantAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewInvariantAnalyzer(c.SavePath, c.Invariants...)
	a.exp = exp
	return a
}

// InvariantComparator writes the violation counts of all experiments
type InvariantComparator struct {
	savePath string
}

var _ core.Comparator = &InvariantComparator{}

func (c *InvariantComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]map[string]int)
	for i, name := range experimentNames {
		if ds, ok := datasets[i].(*invariantDataset); ok {
			out[name] = ds.Violations
		}
	}
	if err := util.SaveJson(c.savePath, out); err != nil {
		log.Printf("invariant comparator: %v", err)
	}
}

type InvariantComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &InvariantComparatorConstructor{}

func NewInvariantComparatorConstructor(savePath string) *InvariantComparatorConstructor {
	return &InvariantComparatorConstructor{savePath: savePath}
}

func (c *InvariantComparatorConstructor) NewComparator(run int) core.Comparator {
	return &InvariantComparator{
		savePath: path.Join(c.savePath, fmt.Sprint(run), "invariant_violations.json"),
	}
}
