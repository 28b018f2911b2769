// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/summary-engine/internal/dataset"
	"github.com/pdiddy/summary-engine/internal/evaluate"
	"github.com/pdiddy/summary-engine/internal/nlp"
	"github.com/pdiddy/summary-engine/internal/store"
	"github.com/pdiddy/summary-engine/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score predictions against reference summaries with ROUGE",
	Long: `Evaluate compares predicted summaries with the reference summaries of a
dataset and reports mean ROUGE-1, ROUGE-2 and ROUGE-L precision, recall and
f-score, rounded to three decimals.

Predictions come from a JSONL file (--preds) or from a recorded run
(--db with --run). They must list the clusters of the dataset window in
dataset order.`,
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.String("dataset", "", "dataset with reference summaries (JSONL, .gz allowed)")
	f.String("preds", "", "predictions file (JSONL)")
	f.String("db", "", "run store to read predictions from")
	f.String("run", "", "run id in the run store")
	f.Bool("lowercase", false, "lowercase summaries before scoring")
	f.Int("start", -1, "first dataset index to evaluate (-1 = from the beginning)")
	f.Int("stop", -1, "dataset index to stop before (-1 = to the end)")
	f.String("out", "", "also write the report to this .json or .yaml file")
	f.Bool("json", false, "print the report as JSON")

	for key, flag := range map[string]string{
		"evaluate.dataset":   "dataset",
		"evaluate.lowercase": "lowercase",
		"evaluate.start":     "start",
		"evaluate.stop":      "stop",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := types.EvaluateConfig{
		Lowercase: viper.GetBool("evaluate.lowercase"),
		Start:     viper.GetInt("evaluate.start"),
		Stop:      viper.GetInt("evaluate.stop"),
	}
	datasetPath := viper.GetString("evaluate.dataset")
	if datasetPath == "" {
		return fmt.Errorf("--dataset is required")
	}

	preds, err := loadPredictions(cmd)
	if err != nil {
		return err
	}
	clusters, err := dataset.LoadClusters(datasetPath, dataset.Window{Start: cfg.Start, Stop: cfg.Stop})
	if err != nil {
		return err
	}

	splitter, err := nlp.NewPunktSplitter()
	if err != nil {
		return err
	}
	report, err := evaluate.New(nlp.NewWordTokenizer(splitter), cfg.Lowercase).Evaluate(clusters, preds)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := evaluate.WriteFile(out, report); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "Evaluated %d clusters\n\n", report.Clusters)
	return renderTable(w, []string{"Metric", "P", "R", "F"}, report.Rows())
}

// loadPredictions reads predictions from --preds or from --run in --db.
func loadPredictions(cmd *cobra.Command) ([]types.Prediction, error) {
	predsPath, _ := cmd.Flags().GetString("preds")
	dbPath, _ := cmd.Flags().GetString("db")
	runID, _ := cmd.Flags().GetString("run")

	switch {
	case predsPath != "" && runID != "":
		return nil, fmt.Errorf("use either --preds or --run, not both")
	case predsPath != "":
		return dataset.LoadPredictions(predsPath)
	case runID != "" && dbPath != "":
		db, err := store.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Predictions(context.Background(), runID)
	default:
		return nil, fmt.Errorf("predictions required: provide --preds, or --db with --run")
	}
}
