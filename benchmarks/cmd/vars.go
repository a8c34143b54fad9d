package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridroboman/benchmarks/common"
)

var (
	flags          *common.Flags = common.DefaultFlags()
	configFile     string
	savePath       string
	taskID         string
	objectX        string
	objectY        string
	seed           int64
	debug          bool
	compressTraces bool
	metricsAddr    string
	dbPath         string

	alpha       float64
	discount    float64
	epsilon     float64
	temperature float64
	recordQ     bool

	numRuns                int
	episodes               int
	horizon                int
	maxConsecutiveErrors   int
	maxConsecutiveTimeouts int
	episodeTimeout         int
	parallelism            int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file with flag defaults")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&taskID, "task", flags.Task, "Task id, e.g. Gridroboman-StackRedOnGreen-v0 or Gridroboman-StackXOnY-v0")
	cmd.PersistentFlags().StringVar(&objectX, "x", flags.X, "Object X when task is a base id")
	cmd.PersistentFlags().StringVar(&objectY, "y", flags.Y, "Object Y when task is a base id")
	cmd.PersistentFlags().Int64Var(&seed, "seed", flags.Seed, "Seed of the first environment instance")
	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Dump traces of the last episodes")
	cmd.PersistentFlags().BoolVar(&compressTraces, "compress-traces", flags.CompressTraces, "Write trace files zstd compressed")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", flags.MetricsAddr, "Serve prometheus metrics on this address")
	cmd.PersistentFlags().StringVar(&dbPath, "db", flags.DBPath, "Record episodes to this sqlite database")

	cmd.PersistentFlags().Float64Var(&alpha, "alpha", flags.Alpha, "Learning rate")
	cmd.PersistentFlags().Float64Var(&discount, "discount", flags.Discount, "Discount factor")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", flags.Epsilon, "Exploration rate")
	cmd.PersistentFlags().Float64Var(&temperature, "temperature", flags.Temperature, "Softmax temperature")
	cmd.PersistentFlags().BoolVar(&recordQ, "record-q", flags.RecordQ, "Save learned Q tables")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", flags.Horizon, "Horizon")
	cmd.PersistentFlags().IntVar(&maxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive errors")
	cmd.PersistentFlags().IntVar(&maxConsecutiveTimeouts, "max-consecutive-timeouts", flags.MaxConsecutiveTimeouts, "Maximum number of consecutive timeouts")
	cmd.PersistentFlags().IntVar(&episodeTimeout, "episode-timeout", int(flags.EpisodeTimeout.Seconds()), "Episode timeout in seconds")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
}

// UpdateFlags loads the config file, if any, and then applies the flags
// set on the command line on top of it
func UpdateFlags(cmd *cobra.Command) error {
	if configFile != "" {
		if err := flags.LoadFile(configFile); err != nil {
			return err
		}
	}
	set := func(name string, apply func()) {
		if configFile == "" || cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("save-path", func() { flags.SavePath = savePath })
	set("task", func() { flags.Task = taskID })
	set("x", func() { flags.X = objectX })
	set("y", func() { flags.Y = objectY })
	set("seed", func() { flags.Seed = seed })
	set("debug", func() { flags.Debug = debug })
	set("compress-traces", func() { flags.CompressTraces = compressTraces })
	set("metrics-addr", func() { flags.MetricsAddr = metricsAddr })
	set("db", func() { flags.DBPath = dbPath })

	set("alpha", func() { flags.Alpha = alpha })
	set("discount", func() { flags.Discount = discount })
	set("epsilon", func() { flags.Epsilon = epsilon })
	set("temperature", func() { flags.Temperature = temperature })
	set("record-q", func() { flags.RecordQ = recordQ })

	set("num-runs", func() { flags.NumRuns = numRuns })
	set("episodes", func() { flags.Episodes = episodes })
	set("horizon", func() { flags.Horizon = horizon })
	set("max-consecutive-errors", func() { flags.MaxConsecutiveErrors = maxConsecutiveErrors })
	set("max-consecutive-timeouts", func() { flags.MaxConsecutiveTimeouts = maxConsecutiveTimeouts })
	set("episode-timeout", func() { flags.EpisodeTimeout = time.Duration(episodeTimeout) * time.Second })
	set("parallelism", func() { flags.Parallelism = parallelism })
	return nil
}
