// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rouge scores a hypothesis token sequence against a reference with
// ROUGE-N (clipped n-gram overlap) and ROUGE-L (longest common subsequence).
package rouge

import (
	"strings"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Score holds precision, recall and their harmonic mean.
type Score struct {
	Precision float64 `json:"p" yaml:"p"`
	Recall    float64 `json:"r" yaml:"r"`
	FScore    float64 `json:"f" yaml:"f"`
}

// Get returns the component named by m.
func (s Score) Get(m types.Metric) float64 {
	switch m {
	case types.MetricPrecision:
		return s.Precision
	case types.MetricRecall:
		return s.Recall
	default:
		return s.FScore
	}
}

func newScore(match, hypTotal, refTotal int) Score {
	if match == 0 || hypTotal == 0 || refTotal == 0 {
		return Score{}
	}
	p := float64(match) / float64(hypTotal)
	r := float64(match) / float64(refTotal)
	return Score{Precision: p, Recall: r, FScore: 2 * p * r / (p + r)}
}

// N returns ROUGE-N of hyp against ref. An empty side scores zero.
func N(hyp, ref []string, n int) Score {
	if n < 1 {
		n = 1
	}
	hypCounts, hypTotal := ngramCounts(hyp, n)
	refCounts, refTotal := ngramCounts(ref, n)
	if hypTotal == 0 || refTotal == 0 {
		return Score{}
	}
	match := 0
	for g, c := range hypCounts {
		match += min(c, refCounts[g])
	}
	return newScore(match, hypTotal, refTotal)
}

// L returns ROUGE-L of hyp against ref.
func L(hyp, ref []string) Score {
	if len(hyp) == 0 || len(ref) == 0 {
		return Score{}
	}
	return newScore(lcs(hyp, ref), len(hyp), len(ref))
}

// ngramSep joins n-gram tokens; tokenizers never emit it.
const ngramSep = "\x1f"

func ngramCounts(tokens []string, n int) (map[string]int, int) {
	counts := make(map[string]int)
	total := 0
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], ngramSep)]++
		total++
	}
	return counts, total
}

func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
