package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpforge/helpaudit/internal/findings"
)

func sampleInput() Input {
	r := findings.NewReport(42, 5)
	r.Add(findings.LinkFinding{
		File:   "Proj_en-US_a.html",
		Target: "missing.html",
		Text:   "see here",
		Status: findings.StatusBroken,
		Reason: "logical name not found: missing.html",
	})
	r.Add(findings.NavigationFinding{
		File:             "Proj_en-US_b.html",
		Path:             "File>Open",
		IncorrectSpacing: true,
	})
	r.Add(findings.BulletFinding{
		File:   "Proj_en-US_b.html",
		Text:   "item | one",
		Reason: "Invalid margin-left: 20pt",
	})
	r.Sort()
	return Input{
		Report:         r,
		CollectionName: "Help EN",
		ScanID:         "01TESTSCANID",
		GeneratedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "markdown", "html", "table", "docx"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestMarkdown_SectionsAndCounts(t *testing.T) {
	md := Markdown(sampleInput())

	assert.Contains(t, md, "# Help Corpus Audit: Help EN")
	assert.Contains(t, md, "5 documents scanned, 3 findings")
	assert.Contains(t, md, "## Link Issues (1)")
	assert.Contains(t, md, "## Navigation Paths (1)")
	assert.Contains(t, md, "## Bullet Alignment (1)")
	assert.Contains(t, md, "logical name not found: missing.html")
	assert.Contains(t, md, "incorrect_spacing")
	assert.NotContains(t, md, "## Note Formatting", "empty kinds must be omitted")
}

func TestMarkdown_EscapesTableCells(t *testing.T) {
	md := Markdown(sampleInput())
	assert.Contains(t, md, `item \| one`, "pipes in cell content must be escaped")
}

func TestMarkdown_EmptyReport(t *testing.T) {
	in := Input{Report: findings.NewReport(1, 2)}
	md := Markdown(in)
	assert.Contains(t, md, "No issues found.")
	assert.Contains(t, md, "# Help Corpus Audit: Collection 1")
}

func TestHTML_WrapsConvertedMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleInput()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<table>", "markdown tables must render as html tables")
	assert.Contains(t, out, "missing.html")
	assert.Contains(t, out, "</html>")
}

func TestTable_RendersSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleInput()))
	out := buf.String()

	assert.Contains(t, out, "Help corpus audit: Help EN")
	assert.Contains(t, out, "Link issues (1)")
	assert.Contains(t, out, "Proj_en-US_a.html")
	assert.Contains(t, out, "broken")
}

func TestRender_JSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleInput(), FormatJSON))

	var decoded findings.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, int64(42), decoded.CollectionID)
	assert.Len(t, decoded.Links, 1)
}

func TestDocx_ProducesArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Docx(&buf, sampleInput()))
	// A docx file is a zip archive; check the magic bytes.
	require.GreaterOrEqual(t, buf.Len(), 4)
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatHTML.ContentType(), "text/html")
	assert.Contains(t, FormatDocx.ContentType(), "officedocument")
}
