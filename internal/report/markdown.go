package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/helpforge/helpaudit/internal/findings"
)

// Markdown renders the report as a GitHub-flavored markdown document with
// one table per finding kind. Kinds with no findings are omitted.
func Markdown(in Input) string {
	r := in.Report
	var b strings.Builder

	title := in.CollectionName
	if title == "" {
		title = fmt.Sprintf("Collection %d", r.CollectionID)
	}
	fmt.Fprintf(&b, "# Help Corpus Audit: %s\n\n", title)

	when := in.GeneratedAt
	if when.IsZero() {
		when = time.Now()
	}
	fmt.Fprintf(&b, "Generated %s", when.Format(time.RFC3339))
	if in.ScanID != "" {
		fmt.Fprintf(&b, " (scan `%s`)", in.ScanID)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**%d documents scanned, %d findings.**\n\n", r.Documents, r.Total())

	if len(r.Links) > 0 {
		fmt.Fprintf(&b, "## Link Issues (%d)\n\n", len(r.Links))
		b.WriteString("| Document | Target | Status | Detail |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, f := range r.Links {
			detail := f.Reason
			if f.Status == findings.StatusAmbiguous && f.Candidates > 0 {
				detail = fmt.Sprintf("%s (%d candidates)", f.Reason, f.Candidates)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(f.File), cell(f.Target), f.Status, cell(detail))
		}
		b.WriteString("\n")
	}

	if len(r.Notes) > 0 {
		fmt.Fprintf(&b, "## Note Formatting (%d)\n\n", len(r.Notes))
		b.WriteString("| Document | Issue |\n")
		b.WriteString("|---|---|\n")
		for _, f := range r.Notes {
			fmt.Fprintf(&b, "| %s | %s |\n", cell(f.File), cell(f.Reason))
		}
		b.WriteString("\n")
	}

	if len(r.Bullets) > 0 {
		fmt.Fprintf(&b, "## Bullet Alignment (%d)\n\n", len(r.Bullets))
		b.WriteString("| Document | Element | Text | Issue |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, f := range r.Bullets {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(f.File), cell(f.ElementID), cell(f.Text), cell(f.Reason))
		}
		b.WriteString("\n")
	}

	if len(r.Navigation) > 0 {
		fmt.Fprintf(&b, "## Navigation Paths (%d)\n\n", len(r.Navigation))
		b.WriteString("| Document | Path | Issues |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range r.Navigation {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				cell(f.File), cell(f.Path), strings.Join(f.Issues(), ", "))
		}
		b.WriteString("\n")
	}

	if len(r.Spacing) > 0 {
		fmt.Fprintf(&b, "## Link Spacing (%d)\n\n", len(r.Spacing))
		b.WriteString("| Document | Link Text | Missing |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range r.Spacing {
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				cell(f.File), cell(f.LinkText), spacingSides(f.MissingBefore, f.MissingAfter))
		}
		b.WriteString("\n")
	}

	if len(r.Images) > 0 {
		fmt.Fprintf(&b, "## Images (%d)\n\n", len(r.Images))
		b.WriteString("| Document | Source | Issue |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range r.Images {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(f.File), cell(f.Src), cell(f.Reason))
		}
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "## Document Errors (%d)\n\n", len(r.Errors))
		b.WriteString("| Document | Stage | Error |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range r.Errors {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(f.File), f.Stage, cell(f.Err))
		}
		b.WriteString("\n")
	}

	if r.Total() == 0 {
		b.WriteString("No issues found.\n")
	}

	return b.String()
}

// cell escapes characters that would break a markdown table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func spacingSides(before, after bool) string {
	switch {
	case before && after:
		return "before, after"
	case before:
		return "before"
	case after:
		return "after"
	default:
		return ""
	}
}
