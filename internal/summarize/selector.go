package summarize

import (
	"sort"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Limits are the constraints every selected sentence and the summary as a
// whole must satisfy.
type Limits struct {
	MaxLen int
	Unit   types.LengthType

	// MinTokens and MaxTokens form the inclusive token-count window.
	MinTokens int
	MaxTokens int

	// AllowTitles lets title sentences be selected.
	AllowTitles bool
}

// LimitsFrom derives selection limits from summarize settings.
func LimitsFrom(s types.SummarizeSettings) Limits {
	return Limits{
		MaxLen:      s.MaxLen,
		Unit:        s.LenType,
		MinTokens:   s.MinSentTokens,
		MaxTokens:   s.MaxSentTokens,
		AllowTitles: s.OutTitles,
	}
}

// Eligible reports whether s may appear in a summary regardless of budget.
func (l Limits) Eligible(s Sentence) bool {
	if s.IsTitle && !l.AllowTitles {
		return false
	}
	n := len(s.Tokens)
	return n >= l.MinTokens && n <= l.MaxTokens
}

// SelectionState is the mutable state of a single summarization: the
// ordered selection and its cumulative length. It is created per call and
// never shared.
type SelectionState struct {
	pool     []Sentence
	limits   Limits
	selected []int
	chosen   map[int]struct{}
	length   int
}

// NewSelectionState returns an empty selection over pool.
func NewSelectionState(pool []Sentence, limits Limits) *SelectionState {
	return &SelectionState{pool: pool, limits: limits, chosen: make(map[int]struct{})}
}

// Pool returns the candidate pool.
func (st *SelectionState) Pool() []Sentence { return st.pool }

// Selected returns the selected pool indices in selection order.
func (st *SelectionState) Selected() []int { return st.selected }

// Length returns the cumulative length of the selection.
func (st *SelectionState) Length() int { return st.length }

// IsSelected reports whether pool index i is already selected.
func (st *SelectionState) IsSelected(i int) bool {
	_, ok := st.chosen[i]
	return ok
}

// Fits reports whether adding pool index i keeps the summary within budget.
func (st *SelectionState) Fits(i int) bool {
	return st.length+st.pool[i].Len(st.limits.Unit) <= st.limits.MaxLen
}

// Open reports whether i is unselected, eligible and fits the budget.
func (st *SelectionState) Open(i int) bool {
	return !st.IsSelected(i) && st.limits.Eligible(st.pool[i]) && st.Fits(i)
}

// Exhausted reports whether the budget is used up.
func (st *SelectionState) Exhausted() bool {
	return st.length >= st.limits.MaxLen
}

func (st *SelectionState) accept(i int) {
	st.selected = append(st.selected, i)
	st.chosen[i] = struct{}{}
	st.length += st.pool[i].Len(st.limits.Unit)
}

// Candidate is a pool index proposed by a Ranker, with the score of the
// selection it would produce. Static orderings leave Score at zero.
type Candidate struct {
	Index int
	Score float64
}

// Ranker proposes candidates to the Selector. Rank is called once per
// selection round with the current state and returns candidates best first;
// the Selector accepts the first admissible one. Returning no candidates
// ends the selection.
type Ranker interface {
	Rank(st *SelectionState) []Candidate
}

// Step is one entry of the selection history: the selection after an
// acceptance and the score its ranker gave it.
type Step struct {
	Selection []int
	Score     float64
}

// History is the sequence of selections produced by a run, shortest first.
type History []Step

// Best returns the selection with the highest recorded score; ties go to the
// earliest (shortest) one. An empty history yields nil.
func (h History) Best() []int {
	if len(h) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(h); i++ {
		if h[i].Score > h[best].Score {
			best = i
		}
	}
	return h[best].Selection
}

// Longest keeps only the entries of maximal selection length.
func (h History) Longest() History {
	maxLen := 0
	for _, s := range h {
		maxLen = max(maxLen, len(s.Selection))
	}
	var out History
	for _, s := range h {
		if len(s.Selection) == maxLen {
			out = append(out, s)
		}
	}
	return out
}

// Selection is the outcome of a Selector run.
type Selection struct {
	// Indices are the accepted pool indices in selection order.
	Indices []int
	History History
}

// Selector is the budget-constrained incremental selection loop shared by
// every strategy.
type Selector struct {
	Limits Limits

	// Guard, when set, rejects candidates redundant with the selection.
	Guard *RedundancyGuard
}

// Select runs rounds until the budget is exhausted, the ranker proposes
// nothing, or no proposed candidate is admissible. A candidate is admissible
// when it is unselected, within the token window, allowed by the title
// policy, fits the remaining budget and passes the redundancy guard.
func (s Selector) Select(pool []Sentence, r Ranker) Selection {
	st := NewSelectionState(pool, s.Limits)
	var history History
	for !st.Exhausted() {
		accepted := false
		for _, c := range r.Rank(st) {
			if !s.admissible(st, c.Index) {
				continue
			}
			st.accept(c.Index)
			history = append(history, Step{
				Selection: append([]int(nil), st.selected...),
				Score:     c.Score,
			})
			accepted = true
			break
		}
		if !accepted {
			break
		}
	}
	return Selection{Indices: st.selected, History: history}
}

func (s Selector) admissible(st *SelectionState, i int) bool {
	if !st.Open(i) {
		return false
	}
	if s.Guard != nil && s.Guard.Redundant(st.pool[i], pick(st.pool, st.selected)) {
		return false
	}
	return true
}

// Ordering is a Ranker over a fixed candidate order computed up front.
type Ordering []int

// Rank returns the unselected candidates in the fixed order.
func (o Ordering) Rank(st *SelectionState) []Candidate {
	out := make([]Candidate, 0, len(o))
	for _, i := range o {
		if !st.IsSelected(i) {
			out = append(out, Candidate{Index: i})
		}
	}
	return out
}

// ByScore returns pool indices sorted by descending score, ties in pool order.
func ByScore(scores []float64) Ordering {
	order := make(Ordering, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// Objective scores the selection obtained by adding candidate to selected.
type Objective func(selected []int, candidate int) float64

// Greedy is a Ranker that rescores every open candidate each round and
// proposes them by descending objective value, ties in pool order.
type Greedy struct {
	Objective Objective
}

// Rank scores the open candidates against the current selection.
func (g Greedy) Rank(st *SelectionState) []Candidate {
	var out []Candidate
	for i := range st.pool {
		if !st.Open(i) {
			continue
		}
		out = append(out, Candidate{Index: i, Score: g.Objective(st.selected, i)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}

// LeadRanker proposes a document's sentences in order, cut at the first
// sentence that would overflow the budget.
type LeadRanker struct{}

// Rank returns the sentences after the last selected one, in pool order, up
// to the first overflow.
func (LeadRanker) Rank(st *SelectionState) []Candidate {
	start := 0
	if n := len(st.selected); n > 0 {
		start = st.selected[n-1] + 1
	}
	var out []Candidate
	for i := start; i < len(st.pool); i++ {
		if !st.Fits(i) {
			break
		}
		out = append(out, Candidate{Index: i})
	}
	return out
}
