package index

import (
	"testing"

	"github.com/helpforge/helpaudit/internal/dms"
)

func TestNormalize_PrefixedExportName(t *testing.T) {
	got := Normalize("Project_en-US_0001485246.html")
	if got != "0001485246.html" {
		t.Errorf("expected %q, got %q", "0001485246.html", got)
	}
}

func TestNormalize_NoUnderscore(t *testing.T) {
	got := Normalize("intro.html")
	if got != "intro.html" {
		t.Errorf("expected %q, got %q", "intro.html", got)
	}
}

func TestNormalize_LowerCases(t *testing.T) {
	got := Normalize("Guide_INSTALL.HTML")
	if got != "install.html" {
		t.Errorf("expected %q, got %q", "install.html", got)
	}
}

func TestNormalize_StripsDirectories(t *testing.T) {
	if got := Normalize("docs/help/Project_en-US_page.html"); got != "page.html" {
		t.Errorf("expected %q, got %q", "page.html", got)
	}
	if got := Normalize(`docs\help\Project_en-US_page.html`); got != "page.html" {
		t.Errorf("expected backslash path to normalize to %q, got %q", "page.html", got)
	}
}

func TestNormalize_RejectsNonDocuments(t *testing.T) {
	for _, name := range []string{"style.css", "logo.png", "readme.txt", "archive.html.bak", ""} {
		if got := Normalize(name); got != "" {
			t.Errorf("Normalize(%q): expected empty, got %q", name, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	names := []string{
		"Project_en-US_0001485246.html",
		"intro.html",
		"A_B_C_final.html",
	}
	for _, name := range names {
		once := Normalize(name)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize(%q) not idempotent: %q then %q", name, once, twice)
		}
	}
}

func TestBuild_GroupsByLogicalName(t *testing.T) {
	ix := Build([]dms.FileRef{
		{ID: 1, Name: "ProjA_en-US_intro.html"},
		{ID: 2, Name: "ProjB_de-DE_intro.html"},
		{ID: 3, Name: "ProjA_en-US_setup.html"},
		{ID: 4, Name: "style.css"},
	})

	if ix.Len() != 2 {
		t.Fatalf("expected 2 logical names, got %d", ix.Len())
	}
	intro := ix.Candidates("intro.html")
	if len(intro) != 2 || intro[0] != 1 || intro[1] != 2 {
		t.Errorf("expected intro.html candidates [1 2] in listing order, got %v", intro)
	}
	setup := ix.Candidates("setup.html")
	if len(setup) != 1 || setup[0] != 3 {
		t.Errorf("expected setup.html candidates [3], got %v", setup)
	}
}

func TestCandidates_UnknownName(t *testing.T) {
	ix := Build([]dms.FileRef{{ID: 1, Name: "a_page.html"}})
	if got := ix.Candidates("missing.html"); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}
