package summarize

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// ErrUnknownStrategy is returned by New for an unregistered strategy name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrMissingReference is returned when an oracle strategy runs without a
// reference summary.
var ErrMissingReference = errors.New("oracle strategy requires a reference summary")

// Request is the input of one strategy call: the preprocessed articles of a
// single cluster plus everything needed to summarize them.
type Request struct {
	Articles []Article

	// Reference holds the tokens of the reference summary (oracles only).
	Reference []string

	Settings types.SummarizeSettings

	// Seed is the per-cluster seed for any randomness in the strategy.
	Seed uint64
}

// rng returns a fresh generator for this request.
func (r Request) rng() *rand.Rand {
	return rand.New(rand.NewPCG(r.Seed, r.Seed^0x9e3779b97f4a7c15))
}

func (r Request) selector(guard *RedundancyGuard) Selector {
	return Selector{Limits: LimitsFrom(r.Settings), Guard: guard}
}

// Strategy scores and selects sentences for one cluster. Implementations
// hold only configuration and are safe for concurrent use.
type Strategy interface {
	Name() string

	// NeedsReference reports whether Summarize requires Request.Reference.
	NeedsReference() bool

	// Summarize returns the selected sentences in selection order. Degenerate
	// inputs (no candidates, nothing fits, empty vocabulary) yield no
	// sentences and no error.
	Summarize(req Request) ([]Sentence, error)
}

// Info describes a registered strategy.
type Info struct {
	Name        string
	Description string
	Oracle      bool
}

type factory struct {
	info Info
	new  func(cfg types.StrategyConfig) Strategy
}

var registry = map[string]factory{
	"random": {
		Info{"random", "shuffle the candidate pool and fill the budget", false},
		func(types.StrategyConfig) Strategy { return Random{} },
	},
	"lead": {
		Info{"lead", "leading sentences of one randomly chosen article", false},
		func(types.StrategyConfig) Strategy { return Lead{} },
	},
	"textrank": {
		Info{"textrank", "PageRank centrality over the TF-IDF similarity graph", false},
		func(cfg types.StrategyConfig) Strategy { return TextRank{MaxRedundancy: cfg.MaxRedundancy} },
	},
	"centroid": {
		Info{"centroid", "cosine similarity to the TF-IDF centroid", false},
		func(cfg types.StrategyConfig) Strategy { return Centroid{MaxRedundancy: cfg.MaxRedundancy} },
	},
	"submodular": {
		Info{"submodular", "greedy coverage plus cluster diversity maximization", false},
		func(cfg types.StrategyConfig) Strategy {
			return Submodular{
				A:             cfg.A,
				DivWeight:     cfg.DivWeight,
				ClusterFactor: cfg.ClusterFactor,
				MaxRedundancy: cfg.MaxRedundancy,
			}
		},
	},
	"oracle": {
		Info{"oracle", "greedy ROUGE-N maximization against the reference", true},
		func(cfg types.StrategyConfig) Strategy { return newOracle(cfg) },
	},
	"oracle-single": {
		Info{"oracle-single", "best greedy oracle extract from any single article", true},
		func(cfg types.StrategyConfig) Strategy { return SingleOracle{Oracle: newOracle(cfg)} },
	},
	"oracle-lead": {
		Info{"oracle-lead", "best lead extract of any single article by ROUGE-N", true},
		func(cfg types.StrategyConfig) Strategy {
			return LeadOracle{RougeN: cfg.RougeN, Metric: cfg.Metric}
		},
	},
}

// New returns the strategy registered under name.
func New(name string, cfg types.StrategyConfig) (Strategy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("strategy %s: %w", name, err)
	}
	return f.new(cfg), nil
}

// Catalog lists the registered strategies sorted by name.
func Catalog() []Info {
	out := make([]Info, 0, len(registry))
	for _, f := range registry {
		out = append(out, f.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
