package rules

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

const noteMarker = "Note:"

// NoteRule flags documents where a "Note:" callout appears outside the
// designated grey-box container. A document is flagged at most once, on the
// first occurrence found outside; occurrences inside the container are
// compliant and not reported.
type NoteRule struct{}

func (NoteRule) Name() string { return "note-placement" }

func (NoteRule) Evaluate(_ context.Context, doc *htmldoc.Document, file string) []findings.Finding {
	insideBox := false
	outsideBox := false

	doc.Walk(func(n *html.Node) bool {
		if n.Type != html.TextNode || !strings.Contains(n.Data, noteMarker) {
			return true
		}
		if inNoteContainer(n) {
			insideBox = true
		} else {
			outsideBox = true
		}
		return true
	})

	if !outsideBox {
		return nil
	}
	return []findings.Finding{findings.NoteFinding{
		File:      file,
		Reason:    "'Note:' found outside designated grey box",
		InsideBox: insideBox,
	}}
}

// inNoteContainer reports whether any ancestor carries the note
// visual-treatment class.
func inNoteContainer(n *html.Node) bool {
	return htmldoc.FindAncestor(n, func(p *html.Node) bool {
		return htmldoc.HasClass(p, func(c string) bool { return strings.Contains(c, "Note") })
	}) != nil
}
