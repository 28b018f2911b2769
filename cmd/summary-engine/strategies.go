package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/summary-engine/internal/summarize"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available scoring strategies",
	Long: `Strategies lists every scoring strategy accepted by summarize --strategy.
Oracle strategies read the reference summary of each cluster and require it
to be present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][]string
		for _, info := range summarize.Catalog() {
			oracle := "no"
			if info.Oracle {
				oracle = "yes"
			}
			rows = append(rows, []string{info.Name, oracle, info.Description})
		}
		return renderTable(cmd.OutOrStdout(), []string{"Name", "Oracle", "Description"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
