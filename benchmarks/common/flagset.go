package common

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/zeu5/gridroboman/policies"
	"github.com/zeu5/gridroboman/util"
	"gopkg.in/yaml.v3"
)

type Flags struct {
	TaskFlags      `yaml:"task"`
	SavePath       string `yaml:"save_path"`
	RunFlags       `yaml:"run"`
	LearnFlags     `yaml:"learn"`
	Parallelism    int    `yaml:"parallelism"`
	Debug          bool   `yaml:"debug"`
	CompressTraces bool   `yaml:"compress_traces"`
	MetricsAddr    string `yaml:"metrics_addr"`
	DBPath         string `yaml:"db_path"`
}

// TaskFlags select the environment. Task is a registered id such as
// Gridroboman-StackRedOnGreen-v0, or a base id with X and Y given.
type TaskFlags struct {
	Task string `yaml:"id"`
	X    string `yaml:"x"`
	Y    string `yaml:"y"`
	Seed int64  `yaml:"seed"`
}

type RunFlags struct {
	NumRuns                int           `yaml:"num_runs"`
	Episodes               int           `yaml:"episodes"`
	Horizon                int           `yaml:"horizon"`
	MaxConsecutiveErrors   int           `yaml:"max_consecutive_errors"`
	MaxConsecutiveTimeouts int           `yaml:"max_consecutive_timeouts"`
	EpisodeTimeout         time.Duration `yaml:"episode_timeout"`
}

// LearnFlags are the hyperparameters shared by the tabular policies
type LearnFlags struct {
	Alpha       float64 `yaml:"alpha"`
	Discount    float64 `yaml:"discount"`
	Epsilon     float64 `yaml:"epsilon"`
	Temperature float64 `yaml:"temperature"`
	RecordQ     bool    `yaml:"record_q"`
}

func DefaultFlags() *Flags {
	return &Flags{
		TaskFlags: TaskFlags{
			Seed: 0,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:                1,
			Episodes:               1000,
			Horizon:                50,
			MaxConsecutiveErrors:   20,
			MaxConsecutiveTimeouts: 20,
			EpisodeTimeout:         10 * time.Second,
		},
		LearnFlags: LearnFlags{
			Alpha:       0.2,
			Discount:    0.95,
			Epsilon:     0.05,
			Temperature: 1,
		},
		Parallelism: 4,
	}
}

// LoadFile overlays the YAML file at p onto f. Keys absent from the file
// keep their current values.
func (f *Flags) LoadFile(p string) error {
	raw, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, f); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}

// HierarchySet is a named predicate hierarchy
type HierarchySet struct {
	Name       string
	Predicates []policies.Predicate
}
