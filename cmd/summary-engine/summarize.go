// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/summary-engine/internal/dataset"
	"github.com/pdiddy/summary-engine/internal/runner"
	"github.com/pdiddy/summary-engine/internal/store"
	"github.com/pdiddy/summary-engine/internal/summarize"
	"github.com/pdiddy/summary-engine/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize every cluster of a JSONL dataset",
	Long: `Summarize reads clusters from a JSONL dataset (optionally gzip-compressed),
summarizes each with the chosen strategy and appends one prediction per
cluster to the output file, batch by batch, in dataset order.

Clusters are processed in batches of --batch-size on --jobs workers. A
cluster that fails is logged with its id and left out of the predictions;
the command exits non-zero when any cluster failed. With --db the run, its
settings, predictions and failures are also recorded in the run store.

Every flag can be set in the config file, e.g.

  settings:
    max_len: 60
    len_type: words
  knobs:
    metric: r`,
	RunE: runSummarize,
}

func init() {
	f := summarizeCmd.Flags()
	f.String("dataset", "", "input dataset (JSONL, .gz allowed)")
	f.String("preds", "", "output predictions file (JSONL)")
	f.String("strategy", "textrank", "scoring strategy (see `summary-engine strategies`)")
	f.String("db", "", "record the run in this SQLite run store")
	f.Bool("show-config", false, "print the resolved run configuration as YAML and exit")

	def := types.DefaultSummarizeSettings()
	f.Int("max-len", def.MaxLen, "length budget in len-type units")
	f.String("len-type", string(def.LenType), "budget unit: chars, words or sents")
	f.Bool("in-titles", def.InTitles, "let article titles enter the candidate pool")
	f.Bool("out-titles", def.OutTitles, "let article titles appear in summaries")
	f.Int("min-sent-tokens", def.MinSentTokens, "minimum tokens of a selected sentence")
	f.Int("max-sent-tokens", def.MaxSentTokens, "maximum tokens of a selected sentence")

	knobs := types.DefaultStrategyConfig()
	f.Float64("max-redundancy", knobs.MaxRedundancy, "bigram overlap ratio at which a sentence is redundant")
	f.Float64("a", knobs.A, "submodular coverage cap scale")
	f.Float64("div-weight", knobs.DivWeight, "submodular diversity weight")
	f.Float64("cluster-factor", knobs.ClusterFactor, "submodular clusters as a fraction of candidates")
	f.Int("rouge-n", knobs.RougeN, "n-gram order maximized by oracles")
	f.String("metric", string(knobs.Metric), "ROUGE component maximized by oracles: p, r or f")
	f.Bool("early-stopping", knobs.EarlyStopping, "let oracles return the best prefix of their greedy history")
	f.Uint64("seed", knobs.Seed, "seed for shuffles and k-means")

	f.Int("start", -1, "first dataset index to summarize (-1 = from the beginning)")
	f.Int("stop", -1, "dataset index to stop before (-1 = to the end)")
	f.Int("batch-size", 32, "clusters dispatched per batch")
	f.Int("jobs", 4, "concurrent workers per batch")

	for key, flag := range map[string]string{
		"summarize.dataset":        "dataset",
		"summarize.preds":          "preds",
		"summarize.db":             "db",
		"strategy":                 "strategy",
		"settings.max_len":         "max-len",
		"settings.len_type":        "len-type",
		"settings.in_titles":       "in-titles",
		"settings.out_titles":      "out-titles",
		"settings.min_sent_tokens": "min-sent-tokens",
		"settings.max_sent_tokens": "max-sent-tokens",
		"knobs.max_redundancy":     "max-redundancy",
		"knobs.a":                  "a",
		"knobs.div_weight":         "div-weight",
		"knobs.cluster_factor":     "cluster-factor",
		"knobs.rouge_n":            "rouge-n",
		"knobs.metric":             "metric",
		"knobs.early_stopping":     "early-stopping",
		"knobs.seed":               "seed",
		"summarize.start":          "start",
		"summarize.stop":           "stop",
		"batch_size":               "batch-size",
		"jobs":                     "jobs",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(summarizeCmd)
}

// runConfig assembles the run configuration from flags, config file and
// environment.
func runConfig() types.RunConfig {
	return types.RunConfig{
		Strategy: viper.GetString("strategy"),
		Settings: types.SummarizeSettings{
			MaxLen:        viper.GetInt("settings.max_len"),
			LenType:       types.LengthType(viper.GetString("settings.len_type")),
			InTitles:      viper.GetBool("settings.in_titles"),
			OutTitles:     viper.GetBool("settings.out_titles"),
			MinSentTokens: viper.GetInt("settings.min_sent_tokens"),
			MaxSentTokens: viper.GetInt("settings.max_sent_tokens"),
		},
		Knobs: types.StrategyConfig{
			MaxRedundancy: viper.GetFloat64("knobs.max_redundancy"),
			A:             viper.GetFloat64("knobs.a"),
			DivWeight:     viper.GetFloat64("knobs.div_weight"),
			ClusterFactor: viper.GetFloat64("knobs.cluster_factor"),
			RougeN:        viper.GetInt("knobs.rouge_n"),
			Metric:        types.Metric(viper.GetString("knobs.metric")),
			EarlyStopping: viper.GetBool("knobs.early_stopping"),
			Seed:          viper.GetUint64("knobs.seed"),
		},
		Start:     viper.GetInt("summarize.start"),
		Stop:      viper.GetInt("summarize.stop"),
		BatchSize: viper.GetInt("batch_size"),
		Jobs:      viper.GetInt("jobs"),
	}
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := runConfig()
	w := cmd.OutOrStdout()

	if show, _ := cmd.Flags().GetBool("show-config"); show {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(cfg)
	}

	datasetPath := viper.GetString("summarize.dataset")
	predsPath := viper.GetString("summarize.preds")
	if datasetPath == "" || predsPath == "" {
		return fmt.Errorf("--dataset and --preds are required")
	}

	strategy, err := summarize.New(cfg.Strategy, cfg.Knobs)
	if err != nil {
		return err
	}
	pre, err := summarize.NewDefaultPreprocessor()
	if err != nil {
		return err
	}
	sum, err := summarize.NewSummarizer(strategy, pre, cfg.Settings, cfg.Knobs.Seed)
	if err != nil {
		return err
	}

	in, err := dataset.Open(datasetPath)
	if err != nil {
		return err
	}
	defer in.Close()
	src := dataset.NewReader(in, dataset.Window{Start: cfg.Start, Stop: cfg.Stop})

	out, err := dataset.CreatePredictions(predsPath)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	sinks := []runner.Sink{runner.PredictionSink{W: out}}

	var db *store.Store
	if path := viper.GetString("summarize.db"); path != "" {
		db, err = store.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.BeginRun(ctx, runID, datasetPath, cfg); err != nil {
			return err
		}
		sinks = append(sinks, db.Recorder(runID))
	}

	logger := newLogger(cmd.ErrOrStderr())
	r := runner.New(sum, runner.Options{
		RunID:     runID,
		BatchSize: cfg.BatchSize,
		Jobs:      cfg.Jobs,
		Logger:    logger.With().Str("strategy", strategy.Name()).Logger(),
	}, sinks...)

	res, runErr := r.Run(ctx, src)

	if db != nil {
		status := store.StatusCompleted
		if runErr != nil {
			status = store.StatusFailed
		}
		// The run context may be canceled; record the outcome regardless.
		if err := db.FinishRun(context.Background(), runID, status, res); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return runErr
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "run %s: %d clusters, %d predictions, %d failed (%s)\n",
		res.RunID, res.Clusters, res.Predictions, len(res.Failures), res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "predictions written to %s\n", predsPath)

	if res.HasFailures() {
		return fmt.Errorf("%d cluster(s) failed summarization", len(res.Failures))
	}
	return nil
}
