package reporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/jpequegn/batchlint/internal/aggregator"
)

// Print writes the run's summary to w: a colored headline, a
// per-worker table, and a failure listing when failures exist.
func Print(w io.Writer, summary aggregator.Summary) {
	if summary.Success() {
		color.New(color.FgGreen, color.Bold).Fprintf(w, "batchlint: %d files processed, 0 failed\n", summary.ProcessedFiles)
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(w, "batchlint: %d files processed, %d failed\n", summary.ProcessedFiles, summary.FailedFiles)
	}
	fmt.Fprintf(w, "errors=%d warnings=%d\n\n", summary.TotalErrors, summary.TotalWarnings)

	printWorkerTable(w, summary.Workers)

	if len(summary.Failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	color.New(color.FgRed).Fprintln(w, "Failures:")
	for _, f := range summary.Failures {
		reasonColor := color.New(color.FgYellow)
		if f.Reason == "oom" {
			reasonColor = color.New(color.FgMagenta)
		}
		fmt.Fprint(w, "  ")
		reasonColor.Fprintf(w, "[%s] ", f.Reason)
		fmt.Fprintf(w, "%s: %s\n", f.Path, f.Message)
	}
}

func printWorkerTable(w io.Writer, workers []aggregator.WorkerStat) {
	if len(workers) == 0 {
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
		}),
	)

	table.Header([]string{"worker", "files", "peak rss", "duration"})
	for _, ws := range workers {
		table.Append([]string{
			strconv.FormatInt(ws.WorkerID, 10),
			strconv.Itoa(ws.Files),
			formatBytes(ws.PeakRSS),
			fmt.Sprintf("%dms", ws.DurationMs),
		})
	}
	table.Render()
}

func formatBytes(b uint64) string {
	const mib = 1 << 20
	if b < mib {
		return fmt.Sprintf("%dKB", b/1024)
	}
	return fmt.Sprintf("%.1fMB", float64(b)/mib)
}
