package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Nomadcxx/tvrename/internal/app"
)

// renderResults builds the batch summary table: one row per considered
// file, plus a total size footer.
func renderResults(results []app.Result, dryRun bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Original", "New Name", "Destination", "Size", "Status"})

	var total int64
	for _, res := range results {
		total += res.SizeBytes
		tw.AppendRow(table.Row{
			res.OriginalPath,
			res.NewName,
			res.Destination,
			formatBytes(res.SizeBytes),
			statusText(res, dryRun),
		})
	}
	tw.AppendFooter(table.Row{"", "", "", formatBytes(total), fmt.Sprintf("%d files", len(results))})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func statusText(res app.Result, dryRun bool) string {
	switch {
	case res.Err != nil:
		return fmt.Sprintf("error: %v", res.Err)
	case res.Skipped:
		return "skipped"
	case dryRun:
		return "preview"
	case res.Renamed && res.Moved:
		return "renamed, moved"
	case res.Moved:
		return "moved"
	case res.Renamed:
		return "renamed"
	default:
		return "unchanged"
	}
}

// formatBytes converts bytes to human-readable format (e.g., "1.5 GB")
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
