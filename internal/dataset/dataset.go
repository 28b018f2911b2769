// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads cluster datasets and reads and writes prediction
// files. Both are JSON lines, one record per line; files ending in .gz are
// gzip-compressed.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// maxLineSize bounds a single JSON record. Clusters with many long
// articles easily exceed bufio's 64 KiB default.
const maxLineSize = 64 << 20

// Window selects dataset indices in [Start, Stop). A negative bound is
// unbounded.
type Window struct {
	Start int
	Stop  int
}

// All is the window covering the whole dataset.
var All = Window{Start: -1, Stop: -1}

// Contains reports whether index i lies in the window.
func (w Window) Contains(i int) bool {
	if w.Start > -1 && i < w.Start {
		return false
	}
	return w.Stop < 0 || i < w.Stop
}

// Done reports whether no index at or after i can lie in the window.
func (w Window) Done(i int) bool {
	return w.Stop > -1 && i >= w.Stop
}

// Open opens path for reading, transparently decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.f.Close())
}

// Reader streams cluster records from a JSON lines source.
type Reader struct {
	sc     *bufio.Scanner
	window Window
	line   int
	index  int
}

// NewReader returns a Reader yielding the clusters of r that fall in w.
func NewReader(r io.Reader, w Window) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), maxLineSize)
	return &Reader{sc: sc, window: w}
}

// Next returns the next cluster in the window together with its dataset
// index. It returns io.EOF when the input or the window is exhausted.
// Records are decoded but not validated; validation depends on the
// strategy and happens per cluster. A line that is not a JSON object is an
// InputError; a record with a mistyped field is returned with
// Cluster.Malformed set.
func (r *Reader) Next() (types.Cluster, int, error) {
	for {
		if r.window.Done(r.index) {
			return types.Cluster{}, 0, io.EOF
		}
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return types.Cluster{}, 0, fmt.Errorf("reading line %d: %w", r.line+1, err)
			}
			return types.Cluster{}, 0, io.EOF
		}
		r.line++
		data := r.sc.Bytes()
		if len(strings.TrimSpace(string(data))) == 0 {
			continue
		}
		idx := r.index
		r.index++
		if !r.window.Contains(idx) {
			continue
		}
		var c types.Cluster
		if err := json.Unmarshal(data, &c); err != nil {
			return types.Cluster{}, 0, &types.InputError{
				Field:  fmt.Sprintf("line %d", r.line),
				Reason: err.Error(),
			}
		}
		return c, idx, nil
	}
}

// ReadClusters reads every cluster of r that falls in w.
func ReadClusters(r io.Reader, w Window) ([]types.Cluster, error) {
	var out []types.Cluster
	rd := NewReader(r, w)
	for {
		c, _, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
}

// LoadClusters reads the clusters of the dataset file at path.
func LoadClusters(path string, w Window) ([]types.Cluster, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	clusters, err := ReadClusters(f, w)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clusters, nil
}

// ReadPredictions reads every prediction record of r.
func ReadPredictions(r io.Reader) ([]types.Prediction, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), maxLineSize)
	var out []types.Prediction
	line := 0
	for sc.Scan() {
		line++
		data := sc.Bytes()
		if len(strings.TrimSpace(string(data))) == 0 {
			continue
		}
		var p types.Prediction
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decoding prediction on line %d: %w", line, err)
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading predictions: %w", err)
	}
	return out, nil
}

// LoadPredictions reads the prediction file at path.
func LoadPredictions(path string) ([]types.Prediction, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	preds, err := ReadPredictions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return preds, nil
}

// PredictionWriter appends prediction records to a JSON lines file.
type PredictionWriter struct {
	f   *os.File
	bw  *bufio.Writer
	enc *json.Encoder
	n   int
}

// CreatePredictions creates (or truncates) the prediction file at path.
func CreatePredictions(path string) (*PredictionWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &PredictionWriter{f: f, bw: bw, enc: enc}, nil
}

// Write appends preds and flushes them to disk, so a finished batch
// survives an interrupted run.
func (w *PredictionWriter) Write(preds []types.Prediction) error {
	for _, p := range preds {
		if err := w.enc.Encode(p); err != nil {
			return fmt.Errorf("writing prediction %s: %w", p.ClusterID, err)
		}
	}
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flushing predictions: %w", err)
	}
	w.n += len(preds)
	return nil
}

// Count returns the number of predictions written so far.
func (w *PredictionWriter) Count() int { return w.n }

// Close flushes and closes the file.
func (w *PredictionWriter) Close() error {
	return errors.Join(w.bw.Flush(), w.f.Close())
}
