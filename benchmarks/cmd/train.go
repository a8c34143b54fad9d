package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/zeu5/gridroboman/analysis"
	"github.com/zeu5/gridroboman/benchmarks/common"
	"github.com/zeu5/gridroboman/benchmarks/gridroboman"
	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
)

type prepareFunc func(*common.Flags, gridworld.Task, gridroboman.Sinks) (*core.ParallelComparison, error)

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [task-id]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Compare the learning policies on a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(args, gridroboman.PrepareComparison)
		},
	}
	return cmd
}

func HierarchyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy [task-id]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Compare predicate hierarchy policies on a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(args, gridroboman.PrepareHierarchyComparison)
		},
	}
	return cmd
}

// interruptContext is cancelled on an interrupt or when done is closed
func interruptContext(done <-chan struct{}) context.Context {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-done:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx
}

func runComparison(args []string, prepare prepareFunc) error {
	if len(args) == 1 {
		flags.Task = args[0]
	}
	task, err := gridroboman.ResolveTask(flags)
	if err != nil {
		return err
	}
	if err := flags.Record(); err != nil {
		return err
	}

	doneCh := make(chan struct{})
	defer close(doneCh)
	ctx := interruptContext(doneCh)

	sinks := gridroboman.Sinks{}
	if flags.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		sinks.Metrics = analysis.NewMetrics(reg)
		analysis.ServeMetrics(ctx, flags.MetricsAddr, reg)
		log.Printf("serving metrics on %s/metrics", flags.MetricsAddr)
	}
	if flags.DBPath != "" {
		store, err := analysis.OpenStore(flags.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		config, err := json.Marshal(flags)
		if err != nil {
			return err
		}
		sinks.Store = store
		sinks.RunID, err = store.NewRun(gridworld.ID(task), string(config))
		if err != nil {
			return err
		}
		log.Printf("recording episodes as run %s in %s", sinks.RunID, flags.DBPath)
	}

	cmp, err := prepare(flags, task, sinks)
	if err != nil {
		return err
	}
	rConfig := &core.RunConfig{
		Episodes:                     flags.Episodes,
		Horizon:                      flags.Horizon,
		ThresholdConsecutiveErrors:   flags.MaxConsecutiveErrors,
		ThresholdConsecutiveTimeouts: flags.MaxConsecutiveTimeouts,
		EpisodeTimeout:               flags.EpisodeTimeout,
	}
	if flags.RecordQ {
		rConfig.RecordPath = path.Join(flags.SavePath, "qtables")
	}
	results := cmp.Run(ctx, flags.NumRuns, rConfig, flags.Parallelism)
	printResults(gridworld.ID(task), results)

	if sinks.Store != nil {
		return printSummaries(sinks.Store, sinks.RunID)
	}
	return nil
}

func printResults(taskID string, results []map[string]*core.ExperimentResult) {
	for run, res := range results {
		names := make([]string, 0, len(res))
		for name := range res {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			r := res[name]
			if r.IsError() {
				log.Printf("%s run %d %s: error: %v", taskID, run, name, r.Error)
				continue
			}
			log.Printf(
				"%s run %d %s: success %.3f (%d/%d), truncated %d, steps %d",
				taskID, run, name, r.SuccessRate(), r.SuccessfulEpisodes, r.CompletedEpisodes, r.TruncatedEpisodes, r.TotalTimeSteps,
			)
		}
	}
}

func printSummaries(store *analysis.Store, runID string) error {
	summaries, err := store.Summaries(runID)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Printf("%-20s episodes %6d  successes %6d  mean steps %6.2f\n", s.Experiment, s.Episodes, s.Successes, s.MeanSteps)
	}
	return nil
}
