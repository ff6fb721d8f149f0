// Package observability provides the process logger and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skill-matcher/internal/ranking"
	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/jonathan/skill-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func joinLimited(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	if len(items) <= maxItemsToShow {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(items[:maxItemsToShow], ", "), len(items)-maxItemsToShow)
}

// PrintExtractedSkills outputs the skills found in one text, per category.
func (p *Printer) PrintExtractedSkills(title string, extracted skills.ExtractedSkills) {
	var sb strings.Builder
	for _, c := range skills.Categories() {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", c.String()+":", joinLimited(extracted.Get(c))))
	}
	sb.WriteString(fmt.Sprintf("Total: %d", extracted.Total()))

	p.printBox(strings.ToUpper(title), sb.String())
}

// PrintCategoryScores outputs the per-category scores and the weighted overall score.
func (p *Printer) PrintCategoryScores(result ranking.MatchResult) {
	var sb strings.Builder
	for _, c := range skills.Categories() {
		cr := result.Category(c)
		sb.WriteString(fmt.Sprintf("%-18s %6.1f", c.String()+":", cr.Score))
		if len(cr.Missing) > 0 {
			sb.WriteString(fmt.Sprintf("  missing: %s", joinLimited(cr.Missing)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Weighted overall:  %6.1f (%s)", result.Overall, result.Level))

	p.printBox("CATEGORY SCORES", sb.String())
}

// PrintReport outputs the final analysis report.
func (p *Printer) PrintReport(report types.AnalysisReport) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match:    %d%% (%s)\n", report.MatchPercentage, report.MatchLevel))
	sb.WriteString(fmt.Sprintf("Matched:  %s\n", joinLimited(report.MatchedKeywords)))
	sb.WriteString(fmt.Sprintf("Missing:  %s", joinLimited(report.MissingKeywords)))
	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("\nError:    %s", report.Error))
	}

	p.printBox("ANALYSIS REPORT", sb.String())
}
