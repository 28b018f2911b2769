package types

import "fmt"

// LengthType selects the unit used to measure summary length.
type LengthType string

const (
	LengthChars LengthType = "chars"
	LengthWords LengthType = "words"
	LengthSents LengthType = "sents"
)

// Metric selects which ROUGE component an oracle maximizes.
type Metric string

const (
	MetricPrecision Metric = "p"
	MetricRecall    Metric = "r"
	MetricFScore    Metric = "f"
)

// SummarizeSettings holds the per-call settings shared by every strategy.
type SummarizeSettings struct {
	// MaxLen is the length budget, measured in LenType units (default 40).
	MaxLen int `json:"max_len" yaml:"max_len"`

	// LenType is the budget unit: chars, words, or sents (default words).
	LenType LengthType `json:"len_type" yaml:"len_type"`

	// InTitles lets article titles enter the candidate pool.
	InTitles bool `json:"in_titles" yaml:"in_titles"`

	// OutTitles lets article titles appear in the summary.
	OutTitles bool `json:"out_titles" yaml:"out_titles"`

	// MinSentTokens and MaxSentTokens bound the token count of every
	// selected sentence (defaults 7 and 60).
	MinSentTokens int `json:"min_sent_tokens" yaml:"min_sent_tokens"`
	MaxSentTokens int `json:"max_sent_tokens" yaml:"max_sent_tokens"`
}

// DefaultSummarizeSettings returns the settings used when nothing is configured.
func DefaultSummarizeSettings() SummarizeSettings {
	return SummarizeSettings{
		MaxLen:        40,
		LenType:       LengthWords,
		MinSentTokens: 7,
		MaxSentTokens: 60,
	}
}

// Validate reports the first invalid setting.
func (s SummarizeSettings) Validate() error {
	switch s.LenType {
	case LengthChars, LengthWords, LengthSents:
	default:
		return fmt.Errorf("len_type must be one of chars|words|sents, got %q", s.LenType)
	}
	if s.MaxLen <= 0 {
		return fmt.Errorf("max_len must be positive, got %d", s.MaxLen)
	}
	if s.MinSentTokens > s.MaxSentTokens {
		return fmt.Errorf("min_sent_tokens (%d) exceeds max_sent_tokens (%d)", s.MinSentTokens, s.MaxSentTokens)
	}
	return nil
}

// StrategyConfig holds the knobs of the individual scoring strategies.
type StrategyConfig struct {
	// MaxRedundancy is the bigram-overlap ratio at which a candidate is
	// rejected as redundant (default 0.5).
	MaxRedundancy float64 `json:"max_redundancy" yaml:"max_redundancy"`

	// A scales the coverage cap of the submodular objective (default 5).
	A float64 `json:"a" yaml:"a"`

	// DivWeight weights the diversity term of the submodular objective (default 6).
	DivWeight float64 `json:"div_weight" yaml:"div_weight"`

	// ClusterFactor sets the number of sentence clusters as a fraction of
	// the pool size (default 0.2).
	ClusterFactor float64 `json:"cluster_factor" yaml:"cluster_factor"`

	// RougeN is the n-gram order maximized by the oracles (default 1).
	RougeN int `json:"rouge_n" yaml:"rouge_n"`

	// Metric is the ROUGE component maximized by the oracles (default f).
	Metric Metric `json:"metric" yaml:"metric"`

	// EarlyStopping lets the oracle return any prefix of its greedy
	// history. When false only maximal-length selections compete.
	EarlyStopping bool `json:"early_stopping" yaml:"early_stopping"`

	// Seed drives the shuffles of the random baselines and k-means seeding.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// DefaultStrategyConfig returns the default strategy knobs.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		MaxRedundancy: 0.5,
		A:             5,
		DivWeight:     6,
		ClusterFactor: 0.2,
		RougeN:        1,
		Metric:        MetricFScore,
		EarlyStopping: true,
		Seed:          24,
	}
}

// Validate reports the first invalid knob.
func (c StrategyConfig) Validate() error {
	switch c.Metric {
	case MetricPrecision, MetricRecall, MetricFScore:
	default:
		return fmt.Errorf("metric must be one of p|r|f, got %q", c.Metric)
	}
	if c.RougeN < 1 {
		return fmt.Errorf("rouge_n must be at least 1, got %d", c.RougeN)
	}
	if c.MaxRedundancy <= 0 {
		return fmt.Errorf("max_redundancy must be positive, got %g", c.MaxRedundancy)
	}
	return nil
}

// RunConfig holds settings for a dataset summarization run.
type RunConfig struct {
	// Strategy names the scoring strategy (see `summary-engine strategies`).
	Strategy string `json:"strategy" yaml:"strategy"`

	Settings SummarizeSettings `json:"settings" yaml:"settings"`
	Knobs    StrategyConfig    `json:"knobs" yaml:"knobs"`

	// Start and Stop select a window of dataset indices; -1 means unbounded.
	Start int `json:"start" yaml:"start"`
	Stop  int `json:"stop" yaml:"stop"`

	// BatchSize is the number of clusters dispatched together (default 32).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Jobs is the number of concurrent workers per batch (default 4).
	Jobs int `json:"jobs" yaml:"jobs"`
}

// EvaluateConfig holds settings for the evaluation stage.
type EvaluateConfig struct {
	// Lowercase compares lowercased summaries.
	Lowercase bool `json:"lowercase" yaml:"lowercase"`

	Start int `json:"start" yaml:"start"`
	Stop  int `json:"stop" yaml:"stop"`
}
