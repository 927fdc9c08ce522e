// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPlan outputs a human-readable summary of the content plan.
func (p *Printer) PrintPlan(plan *types.ContentPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:    %s\n", plan.Title))
	sb.WriteString(fmt.Sprintf("Grade:    %s %s\n", plan.Grade, plan.Subject))
	if plan.Objective != "" {
		objective := plan.Objective
		if len(objective) > 45 {
			objective = objective[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Goal:     %s\n", objective))
	}
	sb.WriteString("\n")

	if len(plan.Sections) > 0 {
		sb.WriteString("Sections:\n")
		count := min(len(plan.Sections), maxItemsToShow)
		for i := 0; i < count; i++ {
			section := plan.Sections[i]
			sb.WriteString(fmt.Sprintf("  • %s", section.Title))
			if len(section.Items) > 0 {
				sb.WriteString(fmt.Sprintf(" (%d questions)", len(section.Items)))
			}
			if section.DurationMinutes > 0 {
				sb.WriteString(fmt.Sprintf(" (%d min)", section.DurationMinutes))
			}
			sb.WriteString("\n")
		}
		if len(plan.Sections) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plan.Sections)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(plan.Visuals) > 0 {
		sb.WriteString("Visuals:\n")
		count := min(len(plan.Visuals), 3)
		for i := 0; i < count; i++ {
			visual := plan.Visuals[i]
			description := visual.Description
			if len(description) > 40 {
				description = description[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s (%.2f)\n", description, visual.Priority))
		}
		if len(plan.Visuals) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plan.Visuals)-3))
		}
	}

	p.printBox("CONTENT PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImageStats outputs the image pipeline outcome.
func (p *Printer) PrintImageStats(stats types.ImageStats, filter types.FilterStats) {
	if stats.Total == 0 && filter.Rejected == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Accepted:  %d (rejected %d)\n", filter.Accepted, filter.Rejected))
	sb.WriteString(fmt.Sprintf("Generated: %d\n", stats.Generated))
	sb.WriteString(fmt.Sprintf("Cached:    %d\n", stats.Cached))
	sb.WriteString(fmt.Sprintf("Failed:    %d", stats.Failed))

	for reason, count := range filter.Reasons {
		sb.WriteString(fmt.Sprintf("\n  %s: %d", reason, count))
	}

	p.printBox("IMAGES", sb.String())
}

// PrintQualityReport outputs the rubric score and any issues found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintQualityReport(report *types.QualityReport) {
	if report == nil {
		return
	}
	if len(report.Issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ QUALITY %d/%d, NO ISSUES", report.Score, report.Threshold))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score %d (threshold %d), %d issues:\n\n", report.Score, report.Threshold, len(report.Issues)))

	for i, issue := range report.Issues {
		message := issue.Message
		if len(message) > 45 {
			message = message[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", issue.Category))
		sb.WriteString(fmt.Sprintf("  %s\n", message))
		if i < len(report.Issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("QUALITY REPORT", sb.String())
}

// PrintResult outputs a final run summary.
func (p *Printer) PrintResult(result *types.GenerationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pipeline:  %s\n", result.Kind))
	sb.WriteString(fmt.Sprintf("Version:   %d\n", result.VersionNumber))
	sb.WriteString(fmt.Sprintf("Tokens:    %d in / %d out\n", result.Tokens.Input, result.Tokens.Output))
	sb.WriteString(fmt.Sprintf("Credits:   %d", result.CreditsCharged))

	if result.Worksheet != nil {
		sb.WriteString(fmt.Sprintf("\nQuality:   %d", result.Worksheet.QualityScore))
		if result.Worksheet.WasRepaired {
			sb.WriteString(" (plan repaired)")
		}
		if result.Worksheet.UsedFallback {
			sb.WriteString(" (fallback plan)")
		}
	}
	if result.Lesson != nil {
		sb.WriteString(fmt.Sprintf("\nQuality:   %d\n", result.Lesson.QualityScore))
		sb.WriteString(fmt.Sprintf("Lesson:    %d sections, %d min", result.Lesson.SectionCount, result.Lesson.DurationMinutes))
		if result.Lesson.HasWorksheet {
			sb.WriteString(", with worksheet")
		}
	}

	p.printBox("GENERATION COMPLETE", sb.String())
}
