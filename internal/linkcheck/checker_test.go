package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/index"
)

func newChecker(listing []dms.FileRef) *Checker {
	return &Checker{
		Index:  index.Build(listing),
		Prober: NewProber(2 * time.Second),
	}
}

func TestCheck_HealthyExternalNotReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	doc := parseDoc(t, `<body><a href="`+srv.URL+`/ok">site</a></body>`)
	got := newChecker(nil).Check(context.Background(), doc, "a.html")
	if len(got) != 0 {
		t.Errorf("expected no findings for healthy external link, got %v", got)
	}
}

func TestCheck_External404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	doc := parseDoc(t, `<body><a href="`+srv.URL+`/gone">dead</a></body>`)
	got := newChecker(nil).Check(context.Background(), doc, "a.html")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	f := got[0]
	if f.Status != findings.StatusBroken {
		t.Errorf("expected broken, got %s", f.Status)
	}
	if f.Reason != "HTTP 404" {
		t.Errorf("expected reason HTTP 404, got %q", f.Reason)
	}
	if f.HTTPStatus != 404 {
		t.Errorf("expected http status 404, got %d", f.HTTPStatus)
	}
}

func TestCheck_HeadRejectedGetAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	doc := parseDoc(t, `<body><a href="`+srv.URL+`/page">site</a></body>`)
	got := newChecker(nil).Check(context.Background(), doc, "a.html")
	if len(got) != 0 {
		t.Errorf("expected GET fallback to mark link healthy, got %v", got)
	}
}

func TestCheck_ExternalTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := &Checker{Index: index.Build(nil), Prober: NewProber(50 * time.Millisecond)}
	doc := parseDoc(t, `<body><a href="`+srv.URL+`/slow">slow</a></body>`)
	got := c.Check(context.Background(), doc, "a.html")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Reason != "timeout" {
		t.Errorf("expected reason timeout, got %q", got[0].Reason)
	}
}

func TestCheck_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening anymore

	doc := parseDoc(t, `<body><a href="`+url+`/x">down</a></body>`)
	got := newChecker(nil).Check(context.Background(), doc, "a.html")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Reason != "connection-error" {
		t.Errorf("expected reason connection-error, got %q", got[0].Reason)
	}
}

func TestCheck_SameCorpusResolution(t *testing.T) {
	listing := []dms.FileRef{
		{ID: 1, Name: "ProjA_en-US_unique.html"},
		{ID: 2, Name: "ProjA_en-US_dup.html"},
		{ID: 3, Name: "ProjB_de-DE_dup.html"},
	}
	c := newChecker(listing)

	// Exactly one candidate: healthy, not reported.
	doc := parseDoc(t, `<body><a href="unique.html">u</a></body>`)
	if got := c.Check(context.Background(), doc, "src.html"); len(got) != 0 {
		t.Errorf("expected unique target to be healthy, got %v", got)
	}

	// Two candidates: ambiguous.
	doc = parseDoc(t, `<body><a href="dup.html">d</a></body>`)
	got := c.Check(context.Background(), doc, "src.html")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Status != findings.StatusAmbiguous {
		t.Errorf("expected ambiguous, got %s", got[0].Status)
	}
	if got[0].Candidates != 2 {
		t.Errorf("expected 2 candidates, got %d", got[0].Candidates)
	}
	if got[0].Reason != "2 documents resolve to dup.html" {
		t.Errorf("unexpected reason %q", got[0].Reason)
	}

	// Zero candidates: broken.
	doc = parseDoc(t, `<body><a href="missing.html">m</a></body>`)
	got = c.Check(context.Background(), doc, "src.html")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Status != findings.StatusBroken {
		t.Errorf("expected broken, got %s", got[0].Status)
	}
	if got[0].Reason != "logical name not found: missing.html" {
		t.Errorf("unexpected reason %q", got[0].Reason)
	}
}

func TestCheck_PrefixedHrefMatchesListing(t *testing.T) {
	// The href carries an export prefix; normalization is applied to both
	// sides, so it must still land on the listing entry.
	listing := []dms.FileRef{{ID: 1, Name: "ProjA_en-US_0001485246.html"}}
	c := newChecker(listing)

	doc := parseDoc(t, `<body><a href="Other_fr-FR_0001485246.html">x</a></body>`)
	if got := c.Check(context.Background(), doc, "src.html"); len(got) != 0 {
		t.Errorf("expected prefixed href to resolve, got %v", got)
	}
}

func TestCheck_QueryAndFragmentStripped(t *testing.T) {
	listing := []dms.FileRef{{ID: 1, Name: "a_page.html"}}
	c := newChecker(listing)

	doc := parseDoc(t, `<body><a href="page.html?v=2#section">x</a></body>`)
	if got := c.Check(context.Background(), doc, "src.html"); len(got) != 0 {
		t.Errorf("expected query/fragment to be ignored, got %v", got)
	}
}

func TestCheck_FragmentTargetHealthy(t *testing.T) {
	doc := parseDoc(t, `<body><a href="#section2">jump</a></body>`)
	if got := newChecker(nil).Check(context.Background(), doc, "a.html"); len(got) != 0 {
		t.Errorf("expected fragment target to be healthy, got %v", got)
	}
}

func TestCheck_LocalAssetNotValidated(t *testing.T) {
	doc := parseDoc(t, `<body><a href="manual.pdf">pdf</a></body>`)
	got := newChecker(nil).Check(context.Background(), doc, "a.html")
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].Status != findings.StatusNotValidated {
		t.Errorf("expected not_validated, got %s", got[0].Status)
	}
	if !strings.Contains(got[0].Reason, "base directory") {
		t.Errorf("unexpected reason %q", got[0].Reason)
	}
}

func TestProbe_TargetProbedOnce(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(2 * time.Second)
	target := srv.URL + "/once"

	done := make(chan struct{})
	for range 8 {
		go func() {
			p.Probe(context.Background(), target)
			done <- struct{}{}
		}()
	}
	for range 8 {
		<-done
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("expected exactly 1 network hit, got %d", n)
	}
}
