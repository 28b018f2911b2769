// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists summarization runs in SQLite: one row per run
// with its configuration snapshot, plus the predictions and failures the
// run produced in dataset order.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/summary-engine/internal/runner"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Store manages the run database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			strategy TEXT NOT NULL,
			dataset TEXT,
			config TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			clusters INTEGER NOT NULL DEFAULT 0,
			predictions INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			cluster_id TEXT NOT NULL,
			summary TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cluster_id TEXT NOT NULL,
			error TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_run_id ON failures(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is a stored run.
type Run struct {
	ID          string          `json:"id" yaml:"id"`
	Strategy    string          `json:"strategy" yaml:"strategy"`
	Dataset     string          `json:"dataset" yaml:"dataset"`
	Config      types.RunConfig `json:"config" yaml:"config"`
	Status      string          `json:"status" yaml:"status"`
	StartedAt   time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time       `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Clusters    int             `json:"clusters" yaml:"clusters"`
	Predictions int             `json:"predictions" yaml:"predictions"`
	Failures    int             `json:"failures" yaml:"failures"`
}

// BeginRun records a new run in the running state.
func (s *Store) BeginRun(ctx context.Context, id, dataset string, cfg types.RunConfig) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding run config: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, strategy, dataset, config, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, cfg.Strategy, dataset, string(configJSON), StatusRunning,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", id, err)
	}
	return nil
}

// FinishRun stores the final status and counts of a run.
func (s *Store) FinishRun(ctx context.Context, id, status string, res runner.Result) error {
	r, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, clusters = ?, predictions = ?, failures = ?
		 WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano),
		res.Clusters, res.Predictions, len(res.Failures), id,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", id, err)
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// Recorder returns a runner.Sink that stores every batch of run id.
func (s *Store) Recorder(id string) *Recorder {
	return &Recorder{store: s, runID: id}
}

// Recorder appends batches of one run. It is not safe for concurrent use;
// the runner delivers batches one at a time.
type Recorder struct {
	store    *Store
	runID    string
	position int
}

// WriteBatch stores the predictions and failures of b in one transaction.
func (r *Recorder) WriteBatch(ctx context.Context, b runner.Batch) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	predStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO predictions (run_id, position, cluster_id, summary) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing prediction insert: %w", err)
	}
	defer predStmt.Close()

	pos := r.position
	for _, p := range b.Predictions {
		if _, err := predStmt.ExecContext(ctx, r.runID, pos, p.ClusterID, p.Summary); err != nil {
			return fmt.Errorf("inserting prediction %s: %w", p.ClusterID, err)
		}
		pos++
	}

	failStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO failures (run_id, cluster_id, error) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing failure insert: %w", err)
	}
	defer failStmt.Close()

	for _, f := range b.Failures {
		if _, err := failStmt.ExecContext(ctx, r.runID, f.ClusterID, f.Error); err != nil {
			return fmt.Errorf("inserting failure %s: %w", f.ClusterID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch %d: %w", b.Index, err)
	}
	r.position = pos
	return nil
}

// Runs lists all runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, runSelect+` ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns the run with the given id.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, runSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// Predictions returns the predictions of a run in dataset order.
func (s *Store) Predictions(ctx context.Context, id string) ([]types.Prediction, error) {
	if _, err := s.Run(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, summary FROM predictions WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var preds []types.Prediction
	for rows.Next() {
		var p types.Prediction
		if err := rows.Scan(&p.ClusterID, &p.Summary); err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// Failures returns the failures of a run in the order they were recorded.
func (s *Store) Failures(ctx context.Context, id string) ([]types.Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, error FROM failures WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var out []types.Failure
	for rows.Next() {
		var f types.Failure
		if err := rows.Scan(&f.ClusterID, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteRun removes a run with its predictions and failures.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	r, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

const runSelect = `SELECT id, strategy, dataset, config, status, started_at,
	finished_at, clusters, predictions, failures FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                   Run
		dataset, finishedAt sql.NullString
		configJSON, started string
	)
	err := sc.Scan(&r.ID, &r.Strategy, &dataset, &configJSON, &r.Status, &started,
		&finishedAt, &r.Clusters, &r.Predictions, &r.Failures)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	r.Dataset = dataset.String
	if err := json.Unmarshal([]byte(configJSON), &r.Config); err != nil {
		return Run{}, fmt.Errorf("decoding config of run %s: %w", r.ID, err)
	}
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
	}
	if finishedAt.Valid {
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String); err != nil {
			return Run{}, fmt.Errorf("parsing finish time of run %s: %w", r.ID, err)
		}
	}
	return r, nil
}
