// Package report renders a findings.Report into the supported output
// formats. Rendering is pure: it never re-runs checks or touches the
// network.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/helpforge/helpaudit/internal/findings"
)

// Input bundles a finished report with scan metadata the renderers print
// in headings.
type Input struct {
	Report         *findings.Report
	CollectionName string
	ScanID         string
	GeneratedAt    time.Time
}

// Format selects an output renderer.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatTable    Format = "table"
	FormatDocx     Format = "docx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatMarkdown, FormatHTML, FormatTable, FormatDocx:
		return Format(s), nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType returns the HTTP content type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatTable:
		return "text/plain; charset=utf-8"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/json"
	}
}

// Render writes the report to w in the requested format.
func Render(w io.Writer, r Input, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Report)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		return HTML(w, r)
	case FormatTable:
		return Table(w, r)
	case FormatDocx:
		return Docx(w, r)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}
