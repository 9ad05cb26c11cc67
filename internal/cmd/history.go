package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/jpequegn/batchlint/internal/history"
)

var historyLimit int
var historyOutputDir string

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent run statistics",
	Long:  `History lists past runs recorded by run, newest first.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of runs to show (0 = all)")
	historyCmd.Flags().StringVar(&historyOutputDir, "output-dir", "batchlint-out", "directory the run's history.db lives under")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(filepath.Join(historyOutputDir, "history.db"))
	if err != nil {
		return fmt.Errorf("history: open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no recorded runs")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
	)
	table.Header([]string{"timestamp", "target", "processed", "failed", "duration"})
	for _, r := range runs {
		table.Append([]string{
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Target,
			fmt.Sprintf("%d/%d", r.ProcessedFiles, r.TotalFiles),
			fmt.Sprintf("%d", r.FailedFiles),
			fmt.Sprintf("%dms", r.DurationMs),
		})
	}
	table.Render()
	return nil
}
