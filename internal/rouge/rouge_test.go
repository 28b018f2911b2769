package rouge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/summary-engine/pkg/types"
)

func toks(s string) []string { return strings.Fields(s) }

func TestN(t *testing.T) {
	tests := []struct {
		name     string
		hyp, ref string
		n        int
		wantP    float64
		wantR    float64
	}{
		{"exact match", "a cat sat", "a cat sat", 1, 1, 1},
		{"no overlap", "it was red", "a cat sat", 1, 0, 0},
		{"partial unigram", "a cat ran", "a cat sat on a mat", 1, 2.0 / 3, 2.0 / 6},
		{"clipped counts", "a a a", "a cat", 1, 1.0 / 3, 1.0 / 2},
		{"bigrams", "the cat sat", "the cat ran", 2, 0.5, 0.5},
		{"hypothesis shorter than n", "cat", "the cat", 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := N(toks(tt.hyp), toks(tt.ref), tt.n)
			assert.InDelta(t, tt.wantP, got.Precision, 1e-9)
			assert.InDelta(t, tt.wantR, got.Recall, 1e-9)
			if tt.wantP > 0 {
				assert.InDelta(t, 2*tt.wantP*tt.wantR/(tt.wantP+tt.wantR), got.FScore, 1e-9)
			} else {
				assert.Zero(t, got.FScore)
			}
		})
	}
}

func TestNEmpty(t *testing.T) {
	assert.Equal(t, Score{}, N(nil, toks("a"), 1))
	assert.Equal(t, Score{}, N(toks("a"), nil, 1))
}

func TestL(t *testing.T) {
	got := L(toks("police killed the gunman"), toks("the gunman was killed by police"))
	// The longest common subsequence is "the gunman".
	assert.InDelta(t, 2.0/4, got.Precision, 1e-9)
	assert.InDelta(t, 2.0/6, got.Recall, 1e-9)
	assert.Equal(t, Score{}, L(nil, toks("a")))
}

func TestScoreGet(t *testing.T) {
	s := Score{Precision: 0.1, Recall: 0.2, FScore: 0.3}
	assert.Equal(t, 0.1, s.Get(types.MetricPrecision))
	assert.Equal(t, 0.2, s.Get(types.MetricRecall))
	assert.Equal(t, 0.3, s.Get(types.MetricFScore))
}
