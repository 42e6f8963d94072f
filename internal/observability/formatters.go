// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/smart-applier/internal/types"
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintMatches outputs the ranked job matches with their scores.
func (p *Printer) PrintMatches(matches []types.JobMatch) {
	if len(matches) == 0 {
		p.printBox("JOB MATCHES", "No matching jobs")
		return
	}

	var sb strings.Builder
	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", m.Rank, m.Job.Title))
		sb.WriteString(fmt.Sprintf("    Score: %.4f", m.Score))
		if m.Job.Company != "" {
			sb.WriteString(fmt.Sprintf("  @ %s", m.Job.Company))
		}
		sb.WriteString("\n")
	}
	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more matches\n", len(matches)-maxItemsToShow))
	}

	p.printBox("JOB MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGap outputs the missing-skill report and any recommendations.
func (p *Printer) PrintSkillGap(report *types.SkillGapReport) {
	if report == nil {
		return
	}
	if len(report.MissingSkills) == 0 {
		p.printBox("SKILL GAP", "✅ NO MISSING SKILLS FOUND")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Missing skills: %d\n\n", len(report.MissingSkills)))
	for i, s := range report.MissingSkills {
		sb.WriteString(fmt.Sprintf("%d. %s  (%d jobs, sim %.3f)\n", i+1, s.Term, s.Occurrences, s.MeanSimilarity))
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\nLearning resources:\n")
		for _, rec := range report.Recommendations {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec.Skill))
			count := min(len(rec.Resources), 3)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("      %s\n", rec.Resources[i]))
			}
		}
	}

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTailorResult outputs keyword coverage and which fallbacks were taken.
func (p *Printer) PrintTailorResult(result *types.TailorResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage: %.2f%%\n", result.Coverage))
	sb.WriteString(fmt.Sprintf("Matched:  %d of %d keywords\n", len(result.MatchedSkills), len(result.Keywords)))

	if len(result.MatchedSkills) > 0 {
		sb.WriteString("\nMatched skills:\n")
		count := min(len(result.MatchedSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.MatchedSkills[i]))
		}
		if len(result.MatchedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MatchedSkills)-maxItemsToShow))
		}
	}

	var notes []string
	if result.KeywordFallback {
		notes = append(notes, "⚠ keywords extracted without the language model")
	}
	if result.RewriteFallback {
		notes = append(notes, "⚠ rewrite unavailable, original profile kept")
	}
	if len(notes) > 0 {
		sb.WriteString("\n" + strings.Join(notes, "\n") + "\n")
	}
	if result.DocumentFormat != "" {
		sb.WriteString(fmt.Sprintf("\nDocument: %d bytes (%s)\n", len(result.Document), result.DocumentFormat))
	}

	p.printBox("TAILORED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobs outputs a short listing of stored jobs.
func (p *Printer) PrintJobs(jobs []types.JobRecord) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs: %d\n", len(jobs)))
	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s", jobs[i].Title))
		if jobs[i].Company != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", jobs[i].Company))
		}
		sb.WriteString("\n")
	}
	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jobs)-maxItemsToShow))
	}

	p.printBox("JOBS", strings.TrimSuffix(sb.String(), "\n"))
}
