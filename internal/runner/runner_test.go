package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/summary-engine/internal/dataset"
	"github.com/pdiddy/summary-engine/pkg/types"
)

type sliceSource struct {
	clusters []types.Cluster
	i        int
	err      error
}

func (s *sliceSource) Next() (types.Cluster, int, error) {
	if s.i >= len(s.clusters) {
		if s.err != nil {
			return types.Cluster{}, 0, s.err
		}
		return types.Cluster{}, 0, io.EOF
	}
	c := s.clusters[s.i]
	s.i++
	return c, s.i - 1, nil
}

func clusters(n int) *sliceSource {
	src := &sliceSource{}
	for i := range n {
		src.clusters = append(src.clusters, types.Cluster{ID: strconv.Itoa(i)})
	}
	return src
}

type recordingSink struct {
	batches []Batch
	err     error
}

func (s *recordingSink) WriteBatch(_ context.Context, b Batch) error {
	s.batches = append(s.batches, b)
	return s.err
}

func (s *recordingSink) predictions() []string {
	var ids []string
	for _, b := range s.batches {
		for _, p := range b.Predictions {
			ids = append(ids, p.ClusterID)
		}
	}
	return ids
}

func echo(c types.Cluster) (types.Prediction, error) {
	return types.Prediction{ClusterID: c.ID, Summary: "summary of " + c.ID}, nil
}

func TestRunKeepsDatasetOrder(t *testing.T) {
	sink := &recordingSink{}
	r := New(SummarizerFunc(echo), Options{BatchSize: 4, Jobs: 3, Logger: zerolog.Nop()}, sink)

	res, err := r.Run(context.Background(), clusters(10))
	require.NoError(t, err)

	assert.Equal(t, 10, res.Clusters)
	assert.Equal(t, 10, res.Predictions)
	assert.Equal(t, 3, res.Batches)
	assert.False(t, res.HasFailures())
	assert.NotEmpty(t, res.RunID)

	require.Len(t, sink.batches, 3)
	assert.Len(t, sink.batches[0].Predictions, 4)
	assert.Len(t, sink.batches[2].Predictions, 2)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, sink.predictions())
}

func TestRunIsolatesFailures(t *testing.T) {
	sum := SummarizerFunc(func(c types.Cluster) (types.Prediction, error) {
		switch c.ID {
		case "3":
			return types.Prediction{}, errors.New("bad cluster")
		case "5":
			panic("index out of range")
		}
		return echo(c)
	})
	var logs bytes.Buffer
	sink := &recordingSink{}
	r := New(sum, Options{BatchSize: 4, Jobs: 2, Logger: zerolog.New(&logs)}, sink)

	res, err := r.Run(context.Background(), clusters(8))
	require.NoError(t, err)

	assert.True(t, res.HasFailures())
	assert.Equal(t, 6, res.Predictions)
	assert.Equal(t, []types.Failure{
		{ClusterID: "3", Error: "bad cluster"},
		{ClusterID: "5", Error: "panic: index out of range"},
	}, res.Failures)
	assert.Equal(t, []string{"0", "1", "2", "4", "6", "7"}, sink.predictions())
	assert.Contains(t, logs.String(), `"cluster_id":"3"`)
	assert.Contains(t, logs.String(), `"index":3`)
}

func TestRunReportsMistypedRecordByID(t *testing.T) {
	input := `{"id": "a", "articles": [{"title": "T", "text": "A."}]}
{"id": "b", "articles": [{"title": 5, "text": "B."}]}
{"id": "c", "articles": [{"title": "T", "text": "C."}]}
`
	sum := SummarizerFunc(func(c types.Cluster) (types.Prediction, error) {
		if err := c.Validate(false); err != nil {
			return types.Prediction{}, err
		}
		return echo(c)
	})
	sink := &recordingSink{}
	r := New(sum, Options{BatchSize: 2, Jobs: 1, Logger: zerolog.Nop()}, sink)

	res, err := r.Run(context.Background(), dataset.NewReader(strings.NewReader(input), dataset.All))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Clusters)
	assert.Equal(t, []string{"a", "c"}, sink.predictions())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "b", res.Failures[0].ClusterID)
	assert.Contains(t, res.Failures[0].Error, "articles[0]")
}

func TestRunBoundsWorkers(t *testing.T) {
	var running, peak atomic.Int32
	sum := SummarizerFunc(func(c types.Cluster) (types.Prediction, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return echo(c)
	})

	r := New(sum, Options{BatchSize: 16, Jobs: 2, Logger: zerolog.Nop()})
	_, err := r.Run(context.Background(), clusters(16))
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunSequentialWithOneJob(t *testing.T) {
	var order []string
	sum := SummarizerFunc(func(c types.Cluster) (types.Prediction, error) {
		order = append(order, c.ID)
		return echo(c)
	})
	r := New(sum, Options{BatchSize: 2, Jobs: 1, Logger: zerolog.Nop()})
	_, err := r.Run(context.Background(), clusters(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, order)
}

func TestRunStopsBetweenBatchesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}
	sum := SummarizerFunc(func(c types.Cluster) (types.Prediction, error) {
		if c.ID == "1" {
			cancel()
		}
		return echo(c)
	})
	r := New(sum, Options{BatchSize: 2, Jobs: 1, Logger: zerolog.Nop()}, sink)

	res, err := r.Run(ctx, clusters(6))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Batches)
	assert.Equal(t, []string{"0", "1"}, sink.predictions())
}

func TestRunSourceError(t *testing.T) {
	src := clusters(3)
	src.err = fmt.Errorf("line 4: %w", &types.InputError{Field: "line 4", Reason: "bad json"})
	sink := &recordingSink{}
	r := New(SummarizerFunc(echo), Options{BatchSize: 2, Logger: zerolog.Nop()}, sink)

	res, err := r.Run(context.Background(), src)
	var ie *types.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, res.Batches)
}

func TestRunSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	r := New(SummarizerFunc(echo), Options{BatchSize: 2, Logger: zerolog.Nop()}, sink)
	_, err := r.Run(context.Background(), clusters(3))
	assert.ErrorContains(t, err, "disk full")
}

func TestRunEmptySource(t *testing.T) {
	sink := &recordingSink{}
	res, err := New(SummarizerFunc(echo), Options{Logger: zerolog.Nop()}, sink).Run(context.Background(), clusters(0))
	require.NoError(t, err)
	assert.Zero(t, res.Batches)
	assert.Empty(t, sink.batches)
}

func TestNewDefaults(t *testing.T) {
	r := New(SummarizerFunc(echo), Options{RunID: "fixed"})
	assert.Equal(t, "fixed", r.RunID())
	assert.Equal(t, 32, r.opts.BatchSize)
	assert.Equal(t, 4, r.opts.Jobs)
}

type predictionBuffer struct{ preds []types.Prediction }

func (b *predictionBuffer) Write(preds []types.Prediction) error {
	b.preds = append(b.preds, preds...)
	return nil
}

func TestPredictionSink(t *testing.T) {
	buf := &predictionBuffer{}
	r := New(SummarizerFunc(echo), Options{BatchSize: 2, Logger: zerolog.Nop()}, PredictionSink{W: buf})
	_, err := r.Run(context.Background(), clusters(3))
	require.NoError(t, err)
	require.Len(t, buf.preds, 3)
	assert.Equal(t, "summary of 2", buf.preds[2].Summary)
}
