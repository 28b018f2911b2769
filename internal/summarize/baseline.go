package summarize

// Random fills the budget from a uniformly shuffled candidate pool.
type Random struct{}

func (Random) Name() string         { return "random" }
func (Random) NeedsReference() bool { return false }

// Summarize shuffles the deduplicated pool once and accepts candidates in
// that order until the budget is reached.
func (Random) Summarize(req Request) ([]Sentence, error) {
	s := req.Settings
	pool := Deduplicate(Pool(req.Articles, s.InTitles && s.OutTitles))
	if len(pool) == 0 {
		return nil, nil
	}
	order := make(Ordering, len(pool))
	for i := range order {
		order[i] = i
	}
	req.rng().Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	sel := req.selector(nil).Select(pool, order)
	return pick(pool, sel.Indices), nil
}

// Lead summarizes with the leading sentences of a single article.
type Lead struct{}

func (Lead) Name() string         { return "lead" }
func (Lead) NeedsReference() bool { return false }

// Summarize visits articles in shuffled order and returns the lead of the
// first one that contributes at least one sentence.
func (Lead) Summarize(req Request) ([]Sentence, error) {
	s := req.Settings
	order := req.rng().Perm(len(req.Articles))
	for _, ai := range order {
		pool := Pool(req.Articles[ai:ai+1], s.InTitles && s.OutTitles)
		sel := req.selector(nil).Select(pool, LeadRanker{})
		if len(sel.Indices) > 0 {
			return pick(pool, sel.Indices), nil
		}
	}
	return nil, nil
}
