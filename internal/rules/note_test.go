package rules

import (
	"context"
	"testing"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

func parseDoc(t *testing.T, markup string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.Parse([]byte(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestNoteRule_NoNotes(t *testing.T) {
	doc := parseDoc(t, `<body><p>Plain paragraph.</p></body>`)
	got := NoteRule{}.Evaluate(context.Background(), doc, "a.html")
	if len(got) != 0 {
		t.Errorf("expected no findings, got %v", got)
	}
}

func TestNoteRule_InsideBoxCompliant(t *testing.T) {
	doc := parseDoc(t, `<body><div class="Note_Box"><p>Note: inside.</p></div></body>`)
	got := NoteRule{}.Evaluate(context.Background(), doc, "a.html")
	if len(got) != 0 {
		t.Errorf("expected no findings for boxed note, got %v", got)
	}
}

func TestNoteRule_OutsideBoxFlaggedOnce(t *testing.T) {
	doc := parseDoc(t, `<body>
		<p>Note: first stray.</p>
		<p>Note: second stray.</p>
		<div class="Note_Box"><p>Note: boxed.</p></div>
	</body>`)
	got := NoteRule{}.Evaluate(context.Background(), doc, "a.html")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 finding per document, got %d", len(got))
	}
	f, ok := got[0].(findings.NoteFinding)
	if !ok {
		t.Fatalf("expected NoteFinding, got %T", got[0])
	}
	if f.Reason != "'Note:' found outside designated grey box" {
		t.Errorf("unexpected reason %q", f.Reason)
	}
	if !f.InsideBox {
		t.Error("expected InsideBox true when a boxed note also exists")
	}
}

func TestNoteRule_NestedContainer(t *testing.T) {
	doc := parseDoc(t, `<body><div class="NoteBox"><span><em>Note: deep.</em></span></div></body>`)
	got := NoteRule{}.Evaluate(context.Background(), doc, "a.html")
	if len(got) != 0 {
		t.Errorf("expected nested boxed note to pass, got %v", got)
	}
}
