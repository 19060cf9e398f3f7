package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Table renders the report as plain-text console tables, one per finding
// kind with findings.
func Table(w io.Writer, in Input) error {
	r := in.Report

	title := in.CollectionName
	if title == "" {
		title = fmt.Sprintf("collection %d", r.CollectionID)
	}
	fmt.Fprintf(w, "Help corpus audit: %s\n", title)
	fmt.Fprintf(w, "%d documents scanned, %d findings\n\n", r.Documents, r.Total())

	if r.Total() == 0 {
		fmt.Fprintln(w, "No issues found.")
		return nil
	}

	if len(r.Links) > 0 {
		fmt.Fprintf(w, "Link issues (%d)\n", len(r.Links))
		t := newTable(w, []string{"Document", "Target", "Status", "Detail"})
		for _, f := range r.Links {
			t.Append([]string{f.File, clip(f.Target, 60), string(f.Status), clip(f.Reason, 60)})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(r.Notes) > 0 {
		fmt.Fprintf(w, "Note formatting (%d)\n", len(r.Notes))
		t := newTable(w, []string{"Document", "Issue"})
		for _, f := range r.Notes {
			t.Append([]string{f.File, f.Reason})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(r.Bullets) > 0 {
		fmt.Fprintf(w, "Bullet alignment (%d)\n", len(r.Bullets))
		t := newTable(w, []string{"Document", "Text", "Issue"})
		for _, f := range r.Bullets {
			t.Append([]string{f.File, clip(f.Text, 40), clip(f.Reason, 60)})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(r.Navigation) > 0 {
		fmt.Fprintf(w, "Navigation paths (%d)\n", len(r.Navigation))
		t := newTable(w, []string{"Document", "Path", "Issues"})
		for _, f := range r.Navigation {
			t.Append([]string{f.File, clip(f.Path, 60), strings.Join(f.Issues(), ", ")})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(r.Spacing) > 0 {
		fmt.Fprintf(w, "Link spacing (%d)\n", len(r.Spacing))
		t := newTable(w, []string{"Document", "Link Text", "Missing"})
		for _, f := range r.Spacing {
			t.Append([]string{f.File, clip(f.LinkText, 40), spacingSides(f.MissingBefore, f.MissingAfter)})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(r.Images) > 0 {
		fmt.Fprintf(w, "Images (%d)\n", len(r.Images))
		t := newTable(w, []string{"Document", "Source", "Issue"})
		for _, f := range r.Images {
			t.Append([]string{f.File, clip(f.Src, 60), clip(f.Reason, 60)})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "Document errors (%d)\n", len(r.Errors))
		t := newTable(w, []string{"Document", "Stage", "Error"})
		for _, f := range r.Errors {
			t.Append([]string{f.File, f.Stage, clip(f.Err, 70)})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetBorder(false)
	t.SetCenterSeparator("")
	t.SetAutoWrapText(false)
	return t
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
