package summarize

import (
	"github.com/pdiddy/summary-engine/internal/rouge"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// Oracle greedily grows the summary that maximizes ROUGE-N against the
// reference. It has privileged access to the reference and serves as an
// upper bound for extractive systems.
type Oracle struct {
	RougeN int
	Metric types.Metric

	// EarlyStopping lets any prefix of the greedy history win. When false,
	// only the selections of maximal length compete.
	EarlyStopping bool
}

func newOracle(cfg types.StrategyConfig) Oracle {
	return Oracle{RougeN: cfg.RougeN, Metric: cfg.Metric, EarlyStopping: cfg.EarlyStopping}
}

func (Oracle) Name() string         { return "oracle" }
func (Oracle) NeedsReference() bool { return true }

// Summarize runs the greedy search over the deduplicated pool of all articles.
func (o Oracle) Summarize(req Request) ([]Sentence, error) {
	if len(req.Reference) == 0 {
		return nil, ErrMissingReference
	}
	s := req.Settings
	pool := Deduplicate(Pool(req.Articles, s.InTitles && s.OutTitles))
	if len(pool) == 0 {
		return nil, nil
	}
	sel := req.selector(nil).Select(pool, Greedy{Objective: o.objective(pool, req.Reference)})
	history := sel.History
	if !o.EarlyStopping {
		history = history.Longest()
	}
	return pick(pool, history.Best()), nil
}

func (o Oracle) objective(pool []Sentence, ref []string) Objective {
	return func(selected []int, candidate int) float64 {
		hyp := append(tokensOf(pool, selected), pool[candidate].Tokens...)
		return rouge.N(hyp, ref, o.RougeN).Get(o.Metric)
	}
}

// scoreSummary rates a finished summary against the reference.
func scoreSummary(sents []Sentence, ref []string, n int, metric types.Metric) float64 {
	var hyp []string
	for _, s := range sents {
		hyp = append(hyp, s.Tokens...)
	}
	return rouge.N(hyp, ref, n).Get(metric)
}

// SingleOracle runs the Oracle on every article alone and returns the
// best-scoring single-article extract.
type SingleOracle struct {
	Oracle Oracle
}

func (SingleOracle) Name() string         { return "oracle-single" }
func (SingleOracle) NeedsReference() bool { return true }

// Summarize returns the best extract from any one article; ties go to the
// earlier article.
func (so SingleOracle) Summarize(req Request) ([]Sentence, error) {
	if len(req.Reference) == 0 {
		return nil, ErrMissingReference
	}
	var best []Sentence
	bestScore := -1.0
	for i := range req.Articles {
		single := req
		single.Articles = req.Articles[i : i+1]
		sents, err := so.Oracle.Summarize(single)
		if err != nil {
			return nil, err
		}
		if score := scoreSummary(sents, req.Reference, so.Oracle.RougeN, so.Oracle.Metric); score > bestScore {
			best, bestScore = sents, score
		}
	}
	return best, nil
}

// LeadOracle returns the best-scoring lead extract of any single article.
type LeadOracle struct {
	RougeN int
	Metric types.Metric
}

func (LeadOracle) Name() string         { return "oracle-lead" }
func (LeadOracle) NeedsReference() bool { return true }

// Summarize truncates each article's lead to the budget and token window
// and keeps the truncation that scores best against the reference.
// Articles contributing no sentence are not candidates.
func (lo LeadOracle) Summarize(req Request) ([]Sentence, error) {
	if len(req.Reference) == 0 {
		return nil, ErrMissingReference
	}
	s := req.Settings
	var best []Sentence
	bestScore := -1.0
	for i := range req.Articles {
		pool := Pool(req.Articles[i:i+1], s.InTitles && s.OutTitles)
		sel := req.selector(nil).Select(pool, LeadRanker{})
		if len(sel.Indices) == 0 {
			continue
		}
		sents := pick(pool, sel.Indices)
		if score := scoreSummary(sents, req.Reference, lo.RougeN, lo.Metric); score > bestScore {
			best, bestScore = sents, score
		}
	}
	return best, nil
}
