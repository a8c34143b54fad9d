package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"sync"

	"github.com/gosuri/uilive"
)

var (
	ErrTooManyTimeouts = errors.New("too many timeouts")
	ErrTooManyErrors   = errors.New("too many errors")
	ErrNoAction        = errors.New("policy returned no action")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes  int
	TotalEpisodes      int
	ErrorEpisodes      int
	TimeoutEpisodes    int
	SuccessfulEpisodes int
	TruncatedEpisodes  int
	TotalTimeSteps     int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// SuccessRate is the fraction of completed episodes that reached the goal
func (r *ExperimentResult) SuccessRate() float64 {
	if r.CompletedEpisodes == 0 {
		return 0
	}
	return float64(r.SuccessfulEpisodes) / float64(r.CompletedEpisodes)
}

// runEpisode drives one episode until the environment reports the
// episode done or the horizon is reached
func (e *Experiment) runEpisode(eCtx *EpisodeContext) {
	e.Policy.ResetEpisode(eCtx)
	state, err := e.Environment.Reset(eCtx)
	if err != nil {
		eCtx.Error(err)
		return
	}
	for step := 0; step < eCtx.Horizon; step++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.Error(eCtx.Context.Err())
			return
		default:
		}

		sCtx := &StepContext{Step: step, EpisodeContext: eCtx}
		action := e.Policy.PickAction(sCtx, state, state.Actions())
		if action == nil {
			eCtx.Error(ErrNoAction)
			return
		}
		nextState, feedback, err := e.Environment.Step(action, sCtx)
		if err != nil {
			eCtx.Error(err)
			return
		}
		s := &Step{
			State:     state,
			Action:    action,
			NextState: nextState,
			Feedback:  feedback,
		}
		e.Policy.UpdateStep(sCtx, s)
		eCtx.Trace.AddStep(s)
		state = nextState
		if feedback.Done() {
			break
		}
	}
	e.Policy.UpdateEpisode(eCtx)
	eCtx.Finish()
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	e.Policy.Reset()

	consecutiveErrors := 0
	consecutiveTimeouts := 0
EpisodeLoop:
	for episode := 0; episode < ctx.Episodes; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = errors.New("context cancelled")
			break EpisodeLoop
		default:
		}

		fmt.Fprintf(
			ctx.writer,
			"Experiment: %s, Run %d, Episode %d/%d, Timesteps: %d, Success: %d, Error: %d, Timedout: %d\n",
			e.Name, ctx.run, episode, ctx.Episodes, result.TotalTimeSteps, result.SuccessfulEpisodes, result.ErrorEpisodes, result.TimeoutEpisodes,
		)
		timeoutCtx, timeoutCancel := context.WithTimeout(ctx.ctx, ctx.EpisodeTimeout)
		eCtx := NewEpisodeContext(timeoutCtx)
		eCtx.Run = ctx.run
		eCtx.Episode = episode
		eCtx.Horizon = ctx.Horizon
		eCtx.StartTimeStep = result.TotalTimeSteps

		go e.runEpisode(eCtx)

		errorred := false
		timedout := false
		select {
		case <-eCtx.Done():
			errorred = eCtx.IsError()
		case <-timeoutCtx.Done():
			timedout = true
			// the episode owns the environment and policy until it
			// observes the cancellation at its next step
			<-eCtx.Done()
		}
		timeoutCancel()

		if errorred {
			result.ErrorEpisodes++
			if consecutiveErrors++; consecutiveErrors >= ctx.ThresholdConsecutiveErrors {
				result.Error = fmt.Errorf("%w: last error: %v", ErrTooManyErrors, eCtx.Err())
				break EpisodeLoop
			}
		} else {
			consecutiveErrors = 0
		}
		if timedout {
			result.TimeoutEpisodes++
			if consecutiveTimeouts++; consecutiveTimeouts >= ctx.ThresholdConsecutiveTimeouts {
				result.Error = ErrTooManyTimeouts
				break EpisodeLoop
			}
		} else {
			consecutiveTimeouts = 0
		}

		if !errorred && !timedout {
			result.TotalTimeSteps += eCtx.Trace.Len()
			result.CompletedEpisodes++
			if last := eCtx.Trace.Last(); last != nil {
				if last.Terminated {
					result.SuccessfulEpisodes++
				} else if last.Truncated {
					result.TruncatedEpisodes++
				}
			}
		}
		result.TotalEpisodes++

		if timedout {
			continue
		}
		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}
	}
	if result.Error != nil {
		fmt.Fprintf(ctx.writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, ctx.run, result.Error)
	}

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}

	if r, ok := e.Policy.(Recorder); ok && ctx.RecordPath != "" {
		p := path.Join(ctx.RecordPath, strconv.Itoa(ctx.run), e.Name+"_qtable.jsonl")
		if err := r.Record(p); err != nil {
			fmt.Fprintf(ctx.writer, "Experiment: %s, Run %d, Record error: %v\n", e.Name, ctx.run, err)
		}
	}

	e.Policy.Reset()
	return result
}

// Run executes every experiment sequentially, runs times. It returns the
// results of each run keyed by experiment name.
func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig, writer io.Writer) []map[string]*ExperimentResult {
	if writer == nil {
		writer = io.Discard
	}
	out := make([]map[string]*ExperimentResult, 0, runs)
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		results := make(map[string]*ExperimentResult)

		// Run experiments
		for _, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return out
			default:
			}
			eCtx := &experimentRunContext{
				run:       run,
				ctx:       ctx,
				analyzers: make(map[string]Analyzer),
				writer:    writer,
				RunConfig: rConfig,
			}

			for name, a := range c.Analyzers {
				a.Reset()
				eCtx.analyzers[name] = a
			}

			results[e.Name] = e.run(eCtx)
		}

		compare(results, c.analyzerNames(), func(name string, names []string, datasets []DataSet) {
			c.Comparators[name].Compare(names, datasets)
		})
		out = append(out, results)
	}
	return out
}

func (c *Comparison) analyzerNames() []string {
	names := make([]string, 0, len(c.Analyzers))
	for name := range c.Analyzers {
		names = append(names, name)
	}
	return names
}

// compare gathers datasets per analyzer across experiments and hands
// them to the comparator callback
func compare(results map[string]*ExperimentResult, analyzerNames []string, cmp func(string, []string, []DataSet)) {
	datasets := make(map[string][]DataSet)
	experimentNames := make([]string, 0)
	for name, result := range results {
		experimentNames = append(experimentNames, name)
		for _, aName := range analyzerNames {
			if result.IsError() {
				datasets[aName] = append(datasets[aName], nil)
			} else {
				datasets[aName] = append(datasets[aName], result.Datasets[aName])
			}
		}
	}
	for _, aName := range analyzerNames {
		cmp(aName, experimentNames, datasets[aName])
	}
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	comp       *ParallelComparison
	runNumber  int
	writer     io.Writer
	rConfig    *RunConfig
	wg         *sync.WaitGroup
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *ExperimentResult
}

// Worker main loop that consumes work from a channel. Queued work is
// always drained; a cancelled context makes each experiment return early.
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for work := range workCh {
		resultsCh <- w.runWork(ctx, work)
		work.wg.Done()
	}
}

// Run an experiment by constructing the experiment context, *Experiment
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		writer:    work.writer,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, work.runNumber)
	}

	// Construct the experiment; environments are keyed by run so every
	// experiment of a run sees the same reset layouts
	exp := &Experiment{
		Name:        work.experiment.Name,
		Environment: work.experiment.Environment.NewEnvironment(work.runNumber),
		Policy:      work.experiment.Policy.NewPolicy(),
	}

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         exp.run(eCtx),
	}
}

// Run executes the experiments of each run on a pool of parallelism
// workers, printing live progress, and returns the per-run results
func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) []map[string]*ExperimentResult {
	if parallelism < 1 {
		parallelism = 1
	}
	out := make([]map[string]*ExperimentResult, 0, runs)
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}
		// Create workers and channels
		wg := new(sync.WaitGroup)
		writer := uilive.New()
		writer.Start()
		fmt.Fprintf(writer, "Run %d\n", run)

		workCh := make(chan *parallelWork, parallelism)
		resultsCh := make(chan *parallelResult, parallelism)

		// Start workers
		for i := 0; i < parallelism; i++ {
			w := &parallelWorker{id: i}
			go w.run(ctx, workCh, resultsCh)
		}

		results := make(map[string]*ExperimentResult)

		// Gather results
		gathered := make(chan struct{})
		go func() {
			defer close(gathered)
			for result := range resultsCh {
				results[result.experimentName] = result.result
			}
		}()

		// Run experiments by sending work to workers
		cancelled := false
	SendLoop:
		for _, e := range c.Experiments {
			wg.Add(1)
			select {
			case <-ctx.Done():
				wg.Done()
				cancelled = true
				break SendLoop
			case workCh <- &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				rConfig:    rConfig,
				wg:         wg,
				writer:     writer.Newline(),
			}:
			}
		}

		// Wait for all work to finish
		close(workCh)
		wg.Wait()
		close(resultsCh)
		<-gathered
		writer.Stop()
		if cancelled {
			return out
		}

		analyzerNames := make([]string, 0, len(c.Analyzers))
		for name := range c.Analyzers {
			analyzerNames = append(analyzerNames, name)
		}
		compare(results, analyzerNames, func(name string, names []string, datasets []DataSet) {
			c.Comparators[name].NewComparator(run).Compare(names, datasets)
		})
		out = append(out, results)
	}
	return out
}
