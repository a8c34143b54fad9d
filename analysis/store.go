package analysis

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zeu5/gridroboman/core"
	_ "modernc.org/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	task       TEXT NOT NULL,
	config     TEXT NOT NULL,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS episodes (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	experiment TEXT NOT NULL,
	run        INTEGER NOT NULL,
	episode    INTEGER NOT NULL,
	steps      INTEGER NOT NULL,
	reward     REAL NOT NULL,
	outcome    TEXT NOT NULL,
	PRIMARY KEY (run_id, experiment, run, episode)
);`

// Store persists episode outcomes in a SQLite database
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// one connection serializes writers from parallel workers and keeps
	// an in-memory database alive
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewRun registers a run and returns its id
func (s *Store) NewRun(task, config string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, task, config, started_at) VALUES (?, ?, ?, ?)`,
		id, task, config, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordEpisode stores the outcome of one episode
func (s *Store) RecordEpisode(runID, experiment string, run, episode int, trace *core.Trace) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO episodes (run_id, experiment, run, episode, steps, reward, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, experiment, run, episode, trace.Len(), trace.Return(), Outcome(trace),
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// ExperimentSummary aggregates the stored episodes of one experiment
type ExperimentSummary struct {
	Experiment string
	Episodes   int
	Successes  int
	MeanSteps  float64
}

func (s *Store) Summaries(runID string) ([]ExperimentSummary, error) {
	rows, err := s.db.Query(
		`SELECT experiment, COUNT(*), SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), AVG(steps)
		 FROM episodes WHERE run_id = ? GROUP BY experiment ORDER BY experiment`,
		OutcomeSuccess, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	out := make([]ExperimentSummary, 0)
	for rows.Next() {
		var sum ExperimentSummary
		if err := rows.Scan(&sum.Experiment, &sum.Episodes, &sum.Successes, &sum.MeanSteps); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// StoreAnalyzer writes each analyzed episode to a Store
type StoreAnalyzer struct {
	store *Store
	runID string
	exp   string
}

var _ core.Analyzer = &StoreAnalyzer{}

func (a *StoreAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	if err := a.store.RecordEpisode(a.runID, a.exp, eCtx.Run, eCtx.Episode, trace); err != nil {
		log.Printf("store: %v", err)
	}
}

func (a *StoreAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *StoreAnalyzer) Reset() {}

type StoreAnalyzerConstructor struct {
	store *Store
	runID string
}

var _ core.AnalyzerConstructor = &StoreAnalyzerConstructor{}

func NewStoreAnalyzerConstructor(store *Store, runID string) *StoreAnalyzerConstructor {
	return &StoreAnalyzerConstructor{store: store, runID: runID}
}

func (c *StoreAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return &StoreAnalyzer{store: c.store, runID: c.runID, exp: exp}
}
