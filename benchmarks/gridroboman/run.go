package gridroboman

import (
	"errors"

	"github.com/zeu5/gridroboman/analysis"
	"github.com/zeu5/gridroboman/benchmarks/common"
	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
	"github.com/zeu5/gridroboman/policies"
)

// Sinks are the optional outputs shared by every experiment of a comparison
type Sinks struct {
	Metrics *analysis.Metrics
	Store   *analysis.Store
	RunID   string
}

// ResolveTask turns the task flags into a validated task
func ResolveTask(flags *common.Flags) (gridworld.Task, error) {
	return gridworld.Resolve(flags.Task, flags.X, flags.Y)
}

func addCommonAnalyses(cmp *core.ParallelComparison, flags *common.Flags, sinks Sinks) {
	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzerConstructor(flags.SavePath, flags.Episodes-10, flags.CompressTraces), analysis.NewNoOpComparatorConstructor())
	}
	if sinks.Metrics != nil {
		cmp.AddAnalysis("Metrics", analysis.NewMetricsAnalyzerConstructor(sinks.Metrics), analysis.NewNoOpComparatorConstructor())
	}
	if sinks.Store != nil {
		cmp.AddAnalysis("Store", analysis.NewStoreAnalyzerConstructor(sinks.Store, sinks.RunID), analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Invariants", analysis.NewInvariantAnalyzerConstructor(flags.SavePath, Invariants()...), analysis.NewInvariantComparatorConstructor(flags.SavePath))
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzerConstructor(flags.SavePath), analysis.NewNoOpComparatorConstructor())
	cmp.AddAnalysis("Success", analysis.NewSuccessAnalyzerConstructor(), analysis.NewSuccessComparatorConstructor(flags.SavePath))
	cmp.AddAnalysis("Coverage", analysis.NewCoverageAnalyzerConstructor(ObjectLayout()), analysis.NewCoverageComparatorConstructor(flags.SavePath))
}

// PrepareComparison sets up the learning policies against one task
func PrepareComparison(flags *common.Flags, task gridworld.Task, sinks Sinks) (*core.ParallelComparison, error) {
	envConstructor, err := gridworld.NewEnvironmentConstructor(task, flags.Seed)
	if err != nil {
		return nil, err
	}
	cmp := core.NewParallelComparison()
	addCommonAnalyses(cmp, flags, sinks)

	learn := flags.LearnFlags
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "Random",
		Environment: envConstructor,
		Policy:      &policies.RandomPolicyConstructor{},
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "QLearning",
		Environment: envConstructor,
		Policy:      policies.NewQLearningPolicyConstructor(learn.Alpha, learn.Discount, learn.Epsilon),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "BonusMax",
		Environment: envConstructor,
		Policy:      policies.NewBonusPolicyGreedyRewardConstructor(learn.Alpha, learn.Discount, learn.Epsilon),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "NegRLVisits",
		Environment: envConstructor,
		Policy:      policies.NewSoftMaxNegFreqPolicyConstructor(learn.Alpha, learn.Discount, learn.Temperature),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "UCBZero",
		Environment: envConstructor,
		Policy: policies.NewUCBZeroPolicyConstructor(policies.UCBZeroParams{
			StateSize:   10000,
			ActionsSize: gridworld.NumActions,
			Horizon:     flags.Horizon,
			Episodes:    flags.Episodes,
			Epsilon:     learn.Epsilon,
			Constant:    0.5,
		}),
	})
	return cmp, nil
}

// PrepareHierarchyComparison trains the predicate hierarchy policy on each
// suffix of the task hierarchy, against a random baseline
func PrepareHierarchyComparison(flags *common.Flags, task gridworld.Task, sinks Sinks) (*core.ParallelComparison, error) {
	hierarchies := getHierarchySet(task)
	if len(hierarchies) == 0 {
		return nil, errors.New("no hierarchies for task")
	}
	envConstructor, err := gridworld.NewEnvironmentConstructor(task, flags.Seed)
	if err != nil {
		return nil, err
	}

	cmp := core.NewParallelComparison()
	addCommonAnalyses(cmp, flags, sinks)

	learn := flags.LearnFlags
	painter := ObjectLayout()
	for _, h := range hierarchies {
		cmp.AddAnalysis(
			"HierarchyCoverage_"+h.Name,
			analysis.NewPredicateAnalyzerConstructor(painter, h.Predicates),
			analysis.NewPredicateComparatorConstructor(h.Name, flags.SavePath),
		)
		cmp.AddExperiment(&core.ParallelExperiment{
			Name:        "PredHRL_" + h.Name,
			Environment: envConstructor,
			Policy: policies.NewHierarchyPolicyConstructor(
				learn.Alpha, learn.Discount, learn.Epsilon, true,
				h.Predicates...,
			),
		})
	}
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "Random",
		Environment: envConstructor,
		Policy:      &policies.RandomPolicyConstructor{},
	})
	return cmp, nil
}
