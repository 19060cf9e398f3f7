// Package pdftext extracts plain text from PDF attachments referenced by
// help collections, so their contents can be reviewed alongside the HTML
// corpus.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Extract returns the concatenated text of all pages, separated by form
// feeds. Pages that fail to decode are skipped rather than aborting the
// whole document.
func Extract(data []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// Pages splits extracted text back into per-page strings.
func Pages(text string) []string {
	return strings.Split(text, "\f")
}
