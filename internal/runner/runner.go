// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner summarizes a dataset in batches. Each batch is fanned out
// to a bounded pool of workers, awaited as a whole, and handed to the sinks
// in dataset order before the next batch starts. A failing cluster is
// recorded with its id and never aborts the batch.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Summarizer produces the prediction for one cluster.
type Summarizer interface {
	Summarize(c types.Cluster) (types.Prediction, error)
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(c types.Cluster) (types.Prediction, error)

// Summarize calls f(c).
func (f SummarizerFunc) Summarize(c types.Cluster) (types.Prediction, error) { return f(c) }

// Source yields clusters with their dataset index until io.EOF.
type Source interface {
	Next() (types.Cluster, int, error)
}

// Batch is the outcome of one dispatched batch.
type Batch struct {
	Index       int
	Predictions []types.Prediction
	Failures    []types.Failure
}

// Sink receives every finished batch.
type Sink interface {
	WriteBatch(ctx context.Context, b Batch) error
}

// PredictionWriter is the subset of dataset.PredictionWriter used by
// PredictionSink.
type PredictionWriter interface {
	Write(preds []types.Prediction) error
}

// PredictionSink appends the predictions of each batch to a writer.
type PredictionSink struct {
	W PredictionWriter
}

// WriteBatch writes b's predictions.
func (s PredictionSink) WriteBatch(_ context.Context, b Batch) error {
	return s.W.Write(b.Predictions)
}

// Options configures a Runner.
type Options struct {
	// RunID identifies the run; a random UUID is used when empty.
	RunID string

	// BatchSize is the number of clusters dispatched together (default 32).
	BatchSize int

	// Jobs bounds the concurrent workers within a batch (default 4).
	Jobs int

	Logger zerolog.Logger
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Clusters    int
	Predictions int
	Failures    []types.Failure
	Batches     int
	Elapsed     time.Duration
}

// HasFailures reports whether any cluster failed.
func (r Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// Runner drives a Summarizer over a dataset.
type Runner struct {
	sum   Summarizer
	opts  Options
	sinks []Sink
	log   zerolog.Logger
}

// New returns a runner writing every batch to sinks.
func New(sum Summarizer, opts Options, sinks ...Sink) *Runner {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 4
	}
	return &Runner{
		sum:   sum,
		opts:  opts,
		sinks: sinks,
		log:   opts.Logger.With().Str("run_id", opts.RunID).Logger(),
	}
}

// RunID returns the identifier of the run.
func (r *Runner) RunID() string { return r.opts.RunID }

// Run reads src to the end. Cancellation of ctx is honored between
// batches; the batches already written stay in the sinks.
func (r *Runner) Run(ctx context.Context, src Source) (Result, error) {
	start := time.Now()
	res := Result{RunID: r.opts.RunID}
	r.log.Info().Int("batch_size", r.opts.BatchSize).Int("jobs", r.opts.Jobs).Msg("run started")

	batch := make([]item, 0, r.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		b := r.process(res.Batches, batch)
		for _, s := range r.sinks {
			if err := s.WriteBatch(ctx, b); err != nil {
				return fmt.Errorf("writing batch %d: %w", b.Index, err)
			}
		}
		res.Batches++
		res.Clusters += len(batch)
		res.Predictions += len(b.Predictions)
		res.Failures = append(res.Failures, b.Failures...)
		batch = batch[:0]
		return nil
	}

	for {
		c, idx, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Elapsed = time.Since(start)
			return res, fmt.Errorf("reading dataset: %w", err)
		}
		batch = append(batch, item{cluster: c, index: idx})
		if len(batch) >= r.opts.BatchSize {
			if err := flush(); err != nil {
				res.Elapsed = time.Since(start)
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		res.Elapsed = time.Since(start)
		return res, err
	}

	res.Elapsed = time.Since(start)
	r.log.Info().
		Int("clusters", res.Clusters).
		Int("predictions", res.Predictions).
		Int("failures", len(res.Failures)).
		Dur("elapsed", res.Elapsed).
		Msg("run finished")
	return res, nil
}

// item is a cluster with its dataset index.
type item struct {
	cluster types.Cluster
	index   int
}

type outcome struct {
	pred types.Prediction
	err  error
}

// process summarizes one batch on at most Jobs workers and returns the
// outcomes in input order.
func (r *Runner) process(index int, items []item) Batch {
	r.log.Debug().Int("batch", index).Int("clusters", len(items)).Msg("batch started")

	outcomes := make([]outcome, len(items))
	var g errgroup.Group
	g.SetLimit(r.opts.Jobs)
	for i, it := range items {
		g.Go(func() error {
			outcomes[i] = r.summarize(it.cluster)
			return nil
		})
	}
	_ = g.Wait()

	b := Batch{Index: index}
	for i, o := range outcomes {
		if o.err != nil {
			id := items[i].cluster.ID
			r.log.Warn().Err(o.err).Str("cluster_id", id).Int("index", items[i].index).Msg("cluster failed")
			b.Failures = append(b.Failures, types.Failure{ClusterID: id, Error: o.err.Error()})
			continue
		}
		b.Predictions = append(b.Predictions, o.pred)
	}
	r.log.Debug().Int("batch", index).Int("failures", len(b.Failures)).Msg("batch finished")
	return b
}

// summarize runs the summarizer on c, turning a panic into an error.
func (r *Runner) summarize(c types.Cluster) (o outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Debug().Str("cluster_id", c.ID).Bytes("stack", debug.Stack()).Msg("recovered panic")
			o = outcome{err: fmt.Errorf("panic: %v", p)}
		}
	}()
	pred, err := r.sum.Summarize(c)
	return outcome{pred: pred, err: err}
}
