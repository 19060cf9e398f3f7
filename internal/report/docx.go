package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
)

// Docx renders the report as a Word document, one heading and table per
// finding kind.
func Docx(w io.Writer, in Input) error {
	r := in.Report
	doc := docx.New().WithDefaultTheme()

	title := in.CollectionName
	if title == "" {
		title = fmt.Sprintf("Collection %d", r.CollectionID)
	}
	doc.AddParagraph().AddText("Help Corpus Audit: " + title).Size("32").Bold()

	when := in.GeneratedAt
	if when.IsZero() {
		when = time.Now()
	}
	meta := "Generated " + when.Format(time.RFC3339)
	if in.ScanID != "" {
		meta += " (scan " + in.ScanID + ")"
	}
	doc.AddParagraph().AddText(meta)
	doc.AddParagraph().AddText(fmt.Sprintf("%d documents scanned, %d findings.", r.Documents, r.Total()))

	if len(r.Links) > 0 {
		rows := make([][]string, 0, len(r.Links))
		for _, f := range r.Links {
			rows = append(rows, []string{f.File, f.Target, string(f.Status), f.Reason})
		}
		docxSection(doc, fmt.Sprintf("Link Issues (%d)", len(r.Links)),
			[]string{"Document", "Target", "Status", "Detail"}, rows)
	}

	if len(r.Notes) > 0 {
		rows := make([][]string, 0, len(r.Notes))
		for _, f := range r.Notes {
			rows = append(rows, []string{f.File, f.Reason})
		}
		docxSection(doc, fmt.Sprintf("Note Formatting (%d)", len(r.Notes)),
			[]string{"Document", "Issue"}, rows)
	}

	if len(r.Bullets) > 0 {
		rows := make([][]string, 0, len(r.Bullets))
		for _, f := range r.Bullets {
			rows = append(rows, []string{f.File, f.Text, f.Reason})
		}
		docxSection(doc, fmt.Sprintf("Bullet Alignment (%d)", len(r.Bullets)),
			[]string{"Document", "Text", "Issue"}, rows)
	}

	if len(r.Navigation) > 0 {
		rows := make([][]string, 0, len(r.Navigation))
		for _, f := range r.Navigation {
			rows = append(rows, []string{f.File, f.Path, strings.Join(f.Issues(), ", ")})
		}
		docxSection(doc, fmt.Sprintf("Navigation Paths (%d)", len(r.Navigation)),
			[]string{"Document", "Path", "Issues"}, rows)
	}

	if len(r.Spacing) > 0 {
		rows := make([][]string, 0, len(r.Spacing))
		for _, f := range r.Spacing {
			rows = append(rows, []string{f.File, f.LinkText, spacingSides(f.MissingBefore, f.MissingAfter)})
		}
		docxSection(doc, fmt.Sprintf("Link Spacing (%d)", len(r.Spacing)),
			[]string{"Document", "Link Text", "Missing"}, rows)
	}

	if len(r.Images) > 0 {
		rows := make([][]string, 0, len(r.Images))
		for _, f := range r.Images {
			rows = append(rows, []string{f.File, f.Src, f.Reason})
		}
		docxSection(doc, fmt.Sprintf("Images (%d)", len(r.Images)),
			[]string{"Document", "Source", "Issue"}, rows)
	}

	if len(r.Errors) > 0 {
		rows := make([][]string, 0, len(r.Errors))
		for _, f := range r.Errors {
			rows = append(rows, []string{f.File, f.Stage, f.Err})
		}
		docxSection(doc, fmt.Sprintf("Document Errors (%d)", len(r.Errors)),
			[]string{"Document", "Stage", "Error"}, rows)
	}

	if r.Total() == 0 {
		doc.AddParagraph().AddText("No issues found.")
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx report: %w", err)
	}
	return nil
}

func docxSection(doc *docx.Docx, heading string, header []string, rows [][]string) {
	doc.AddParagraph().AddText(heading).Size("24").Bold()

	tbl := doc.AddTable(len(rows)+1, len(header), 0, nil)
	for j, h := range header {
		tbl.TableRows[0].TableCells[j].AddParagraph().AddText(h).Bold()
	}
	for i, row := range rows {
		for j, val := range row {
			tbl.TableRows[i+1].TableCells[j].AddParagraph().AddText(val)
		}
	}
}
