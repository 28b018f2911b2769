// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate scores predicted summaries against the reference
// summaries of a dataset with ROUGE-1, ROUGE-2 and ROUGE-L and reports the
// corpus means.
package evaluate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/summary-engine/internal/nlp"
	"github.com/pdiddy/summary-engine/internal/rouge"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// ErrMisaligned is returned when predictions do not line up one-to-one
// with the dataset clusters.
var ErrMisaligned = errors.New("predictions do not align with dataset")

// Report holds mean scores over all evaluated clusters, rounded to three
// decimals.
type Report struct {
	Clusters int         `json:"clusters" yaml:"clusters"`
	Rouge1   rouge.Score `json:"rouge-1" yaml:"rouge-1"`
	Rouge2   rouge.Score `json:"rouge-2" yaml:"rouge-2"`
	RougeL   rouge.Score `json:"rouge-l" yaml:"rouge-l"`
}

// Rows returns the report as table rows: metric, precision, recall, f-score.
func (r Report) Rows() [][]string {
	row := func(name string, s rouge.Score) []string {
		return []string{
			name,
			fmt.Sprintf("%.3f", s.Precision),
			fmt.Sprintf("%.3f", s.Recall),
			fmt.Sprintf("%.3f", s.FScore),
		}
	}
	return [][]string{
		row("rouge-1", r.Rouge1),
		row("rouge-2", r.Rouge2),
		row("rouge-l", r.RougeL),
	}
}

// Evaluator compares predictions with references.
type Evaluator struct {
	tok       nlp.Tokenizer
	lowercase bool
}

// New returns an evaluator tokenizing with tok. With lowercase set both
// sides are lowercased before tokenization.
func New(tok nlp.Tokenizer, lowercase bool) *Evaluator {
	return &Evaluator{tok: tok, lowercase: lowercase}
}

// Evaluate scores preds against clusters. Prediction i must carry the id
// of cluster i, and every cluster must have a reference summary.
func (e *Evaluator) Evaluate(clusters []types.Cluster, preds []types.Prediction) (Report, error) {
	if len(clusters) != len(preds) {
		return Report{}, fmt.Errorf("%w: %d clusters, %d predictions", ErrMisaligned, len(clusters), len(preds))
	}

	var sum1, sum2, sumL rouge.Score
	for i, c := range clusters {
		if preds[i].ClusterID != c.ID {
			return Report{}, fmt.Errorf("%w: prediction %d is for cluster %q, dataset has %q",
				ErrMisaligned, i, preds[i].ClusterID, c.ID)
		}
		if c.Summary == nil {
			return Report{}, &types.InputError{ClusterID: c.ID, Field: "summary", Reason: "reference summary required for evaluation"}
		}

		ref := e.tokens(*c.Summary)
		hyp := e.tokens(preds[i].Summary)
		sum1 = add(sum1, rouge.N(hyp, ref, 1))
		sum2 = add(sum2, rouge.N(hyp, ref, 2))
		sumL = add(sumL, rouge.L(hyp, ref))
	}

	n := len(clusters)
	return Report{
		Clusters: n,
		Rouge1:   mean(sum1, n),
		Rouge2:   mean(sum2, n),
		RougeL:   mean(sumL, n),
	}, nil
}

func (e *Evaluator) tokens(text string) []string {
	if e.lowercase {
		text = cases.Lower(language.Und).String(text)
	}
	return e.tok.Tokenize(text)
}

func add(a, b rouge.Score) rouge.Score {
	return rouge.Score{
		Precision: a.Precision + b.Precision,
		Recall:    a.Recall + b.Recall,
		FScore:    a.FScore + b.FScore,
	}
}

func mean(s rouge.Score, n int) rouge.Score {
	if n == 0 {
		return rouge.Score{}
	}
	return rouge.Score{
		Precision: round3(s.Precision / float64(n)),
		Recall:    round3(s.Recall / float64(n)),
		FScore:    round3(s.FScore / float64(n)),
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// WriteFile writes the report as JSON or YAML, chosen by the extension
// of path (.json, .yaml or .yml).
func WriteFile(path string, r Report) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&r)
	default:
		return fmt.Errorf("unsupported report format %q: use .json, .yaml or .yml", ext)
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
