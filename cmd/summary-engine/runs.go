// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/summary-engine/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and inspect runs recorded in the run store",
	Long: `Runs lists the summarization runs recorded with summarize --db, most
recent first. Use subcommands to show the failures of a run or delete it.`,
	RunE: runRunsList,
}

// --- failures subcommand ---

var runsFailuresCmd = &cobra.Command{
	Use:   "failures [run-id]",
	Short: "List the clusters that failed in a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsFailures,
}

// --- delete subcommand ---

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a run with its predictions and failures",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.PersistentFlags().String("db", "runs.db", "run store (SQLite)")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")
	viper.BindPFlag("runs.db", runsCmd.PersistentFlags().Lookup("db"))

	runsCmd.AddCommand(runsFailuresCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func openRunStore() (*store.Store, error) {
	return store.Open(viper.GetString("runs.db"))
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, err := openRunStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(context.Background())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Strategy,
			r.Status,
			strconv.Itoa(r.Clusters),
			strconv.Itoa(r.Predictions),
			strconv.Itoa(r.Failures),
			r.StartedAt.Local().Format(time.DateTime),
			r.Dataset,
		})
	}
	return renderTable(w, []string{"ID", "Strategy", "Status", "Clusters", "Predictions", "Failed", "Started", "Dataset"}, rows)
}

func runRunsFailures(cmd *cobra.Command, args []string) error {
	db, err := openRunStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.Run(ctx, args[0]); err != nil {
		return err
	}
	failures, err := db.Failures(ctx, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(failures) == 0 {
		fmt.Fprintf(w, "Run %s has no failures.\n", args[0])
		return nil
	}
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.ClusterID, f.Error})
	}
	return renderTable(w, []string{"Cluster", "Error"}, rows)
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	db, err := openRunStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRun(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
	return nil
}
