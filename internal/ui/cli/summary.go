package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	coreapp "readsanalyzer/internal/core/app"
	"readsanalyzer/internal/core/ports"
	"readsanalyzer/internal/data/history"
)

const previewLength = 60

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(16)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)
)

func renderSummary(ingest ports.IngestResult, res coreapp.Result, assemblyPath string) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Reads Analyzer"))
	b.WriteString("\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Files", fmt.Sprintf("%d", ingest.Files))
	row("Reads", fmt.Sprintf("%d (%d distinct)", res.Reads, res.DistinctReads))
	row("K-mers", fmt.Sprintf("%d distinct", res.DistinctKmers))
	row("Edges", fmt.Sprintf("%d", res.Edges))
	row("Layout", fmt.Sprintf("%d reads", len(res.Path)))
	row("Assembly", fmt.Sprintf("%d bp  %s", len(res.Assembly), preview(res.Assembly)))

	if res.SinkErr != nil {
		row("Output", warnStyle.Render(fmt.Sprintf("not written: %v", res.SinkErr)))
	} else {
		row("Output", okStyle.Render(assemblyPath))
	}
	for _, r := range res.Reports {
		row("Report", r)
	}
	for _, w := range ingest.Warnings {
		row("Warning", warnStyle.Render(w))
	}
	if res.RunID != "" {
		row("Run", res.RunID)
	}

	return b.String()
}

func renderHistory(project string, runs []history.Run) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Assembly history (%s)", project)))
	b.WriteString("\n")
	if len(runs) == 0 {
		b.WriteString("No runs recorded.\n")
		return b.String()
	}

	for _, run := range runs {
		b.WriteString(fmt.Sprintf("%s  k=%d m=%d reads=%d distinct=%d edges=%d layout=%d length=%d  %s\n",
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.KmerSize,
			run.MinOverlap,
			run.Reads,
			run.DistinctReads,
			run.Edges,
			run.LayoutLength,
			run.AssemblyLength,
			preview(run.Assembly),
		))
	}
	return b.String()
}

func preview(seq string) string {
	if len(seq) <= previewLength {
		return seq
	}
	return seq[:previewLength] + "..."
}
