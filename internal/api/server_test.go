package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/helpforge/helpaudit/internal/config"
	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/helpforge/helpaudit/internal/scan"
)

// fakeDMS serves a one-collection store with a single document containing
// one broken same-corpus link.
func fakeDMS(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/dms/list_collections", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"items": []map[string]any{{"id": 42, "collection_name": "Help EN"}},
			},
		})
	})
	mux.HandleFunc("/dms/collection/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"total_count": 1,
				"items":       []map[string]any{{"id": 1, "file_name": "Proj_en-US_a.html"}},
			},
		})
	})
	mux.HandleFunc("/dms/file_download", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<body><a href="missing.html">gone</a></body>`))
	})
	return httptest.NewServer(mux)
}

func newTestServer(t *testing.T, store *dms.Client) (*Server, *scan.Service) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	scanner := scan.NewScanner(store, log, scan.Options{Workers: 1})
	svc := scan.NewService(scanner, log, scan.ServiceConfig{WorkerCount: 1, MaxQueueSize: 4})
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	cfg := config.Config{APIKey: "test-key"}
	return NewServer(svc, store, log, cfg), svc
}

func authedRequest(method, url string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-key")
	return req
}

func TestServer_HealthIsPublic(t *testing.T) {
	dmsSrv := fakeDMS(t)
	defer dmsSrv.Close()
	store := dms.NewClient(dms.Config{BaseURL: dmsSrv.URL, AuthToken: "x"})
	srv, _ := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestServer_RejectsMissingAuth(t *testing.T) {
	dmsSrv := fakeDMS(t)
	defer dmsSrv.Close()
	store := dms.NewClient(dms.Config{BaseURL: dmsSrv.URL, AuthToken: "x"})
	srv, _ := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/collections", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong key, got %d", rec.Code)
	}
}

func TestServer_ScanLifecycle(t *testing.T) {
	dmsSrv := fakeDMS(t)
	defer dmsSrv.Close()
	store := dms.NewClient(dms.Config{BaseURL: dmsSrv.URL, AuthToken: "x"})
	srv, _ := newTestServer(t, store)

	// Submit by name; the server resolves it against the store.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/scans",
		[]byte(`{"collection_name":"Help EN"}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body)
	}
	var submitted struct {
		ScanID       string `json:"scan_id"`
		CollectionID int64  `json:"collection_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.CollectionID != 42 {
		t.Errorf("expected collection 42, got %d", submitted.CollectionID)
	}

	// Poll until the job completes.
	var status string
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/scans/"+submitted.ScanID, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status poll: %d", rec.Code)
		}
		var snap struct {
			Status string `json:"status"`
		}
		json.Unmarshal(rec.Body.Bytes(), &snap)
		status = snap.Status
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if status != "completed" {
		t.Fatalf("expected completed, got %q", status)
	}

	// Fetch the report as JSON and as markdown.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/scans/"+submitted.ScanID+"/report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("report: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing.html") {
		t.Error("expected the broken link in the report")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet,
		"/api/scans/"+submitted.ScanID+"/report?format=markdown", nil))
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/markdown") {
		t.Errorf("expected markdown content type, got %q", got)
	}
}

func TestServer_UnknownScan(t *testing.T) {
	dmsSrv := fakeDMS(t)
	defer dmsSrv.Close()
	store := dms.NewClient(dms.Config{BaseURL: dmsSrv.URL, AuthToken: "x"})
	srv, _ := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/scans/NOPE", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServer_SubmitUnknownNameIs404(t *testing.T) {
	dmsSrv := fakeDMS(t)
	defer dmsSrv.Close()
	store := dms.NewClient(dms.Config{BaseURL: dmsSrv.URL, AuthToken: "x"})
	srv, _ := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/scans",
		[]byte(`{"collection_name":"Nope"}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
