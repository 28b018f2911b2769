package summarize

type bigram [2]string

func bigrams(tokens []string) []bigram {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]bigram, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, bigram{tokens[i], tokens[i+1]})
	}
	return out
}

// RedundancyGuard rejects candidates that repeat too many bigrams of an
// already selected sentence.
type RedundancyGuard struct {
	// MaxRedundancy is the shared-bigram ratio at which a candidate counts
	// as redundant.
	MaxRedundancy float64
}

// Overlap returns the fraction of candidate's bigrams (with multiplicity)
// that also occur in other. A candidate with fewer than two tokens has no
// bigrams and an overlap of 0.
func Overlap(candidate, other Sentence) float64 {
	cand := bigrams(candidate.Tokens)
	if len(cand) == 0 {
		return 0
	}
	present := make(map[bigram]struct{})
	for _, b := range bigrams(other.Tokens) {
		present[b] = struct{}{}
	}
	shared := 0
	for _, b := range cand {
		if _, ok := present[b]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(cand))
}

// Redundant reports whether candidate overlaps any selected sentence by at
// least MaxRedundancy. Candidates without bigrams are never redundant.
func (g RedundancyGuard) Redundant(candidate Sentence, selected []Sentence) bool {
	if len(candidate.Tokens) < 2 {
		return false
	}
	for _, s := range selected {
		if Overlap(candidate, s) >= g.MaxRedundancy {
			return true
		}
	}
	return false
}
