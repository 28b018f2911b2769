package summarize

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Summarizer runs the full pipeline for one cluster: validation,
// preprocessing, strategy selection and rendering of the summary text.
type Summarizer struct {
	strategy Strategy
	pre      *Preprocessor
	settings types.SummarizeSettings
	seed     uint64
}

// NewSummarizer validates settings and returns a summarizer. seed is mixed
// with each cluster id to derive that cluster's random seed.
func NewSummarizer(strategy Strategy, pre *Preprocessor, settings types.SummarizeSettings, seed uint64) (*Summarizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &Summarizer{strategy: strategy, pre: pre, settings: settings, seed: seed}, nil
}

// Summarize produces the prediction for cluster c. The result depends only
// on c, the strategy, the settings and the seed.
func (s *Summarizer) Summarize(c types.Cluster) (types.Prediction, error) {
	if err := c.Validate(s.strategy.NeedsReference()); err != nil {
		return types.Prediction{}, err
	}
	articles, err := s.pre.Process(c.Articles)
	if err != nil {
		var ie *types.InputError
		if errors.As(err, &ie) {
			ie.ClusterID = c.ID
		}
		return types.Prediction{}, err
	}

	req := Request{
		Articles: articles,
		Settings: s.settings,
		Seed:     ClusterSeed(s.seed, c.ID),
	}
	if s.strategy.NeedsReference() {
		req.Reference = s.pre.Tokenize(c.Reference())
	}

	sents, err := s.strategy.Summarize(req)
	if err != nil {
		return types.Prediction{}, fmt.Errorf("%s on cluster %s: %w", s.strategy.Name(), c.ID, err)
	}
	return types.Prediction{ClusterID: c.ID, Summary: Join(sents)}, nil
}

// ClusterSeed derives a per-cluster seed from the run seed and cluster id.
func ClusterSeed(seed uint64, clusterID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(clusterID))
	return seed ^ h.Sum64()
}
