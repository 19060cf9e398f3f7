// Package scan runs the corpus audit: it snapshots a collection listing,
// builds the logical document index once from that snapshot, and processes
// every document through the link checker and the content rules on a
// bounded worker pool.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
	"github.com/helpforge/helpaudit/internal/index"
	"github.com/helpforge/helpaudit/internal/linkcheck"
	"github.com/helpforge/helpaudit/internal/rules"
)

// ErrNoDocuments signals a collection with nothing to audit, distinct from
// a scan that found zero defects.
var ErrNoDocuments = errors.New("no documents found in collection")

// Source is what the scanner needs from the document store.
type Source interface {
	ListFiles(ctx context.Context, collectionID int64, query string) ([]dms.FileRef, error)
	FetchFile(ctx context.Context, fileID int64) ([]byte, error)
}

// Options tunes a scan.
type Options struct {
	Workers      int           // concurrent documents
	ProbeWorkers int           // concurrent external probes per document
	ProbeTimeout time.Duration // per-probe request timeout
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.ProbeWorkers <= 0 {
		o.ProbeWorkers = 10
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = 5 * time.Second
	}
	return o
}

// Scanner audits collections against a document source.
type Scanner struct {
	src  Source
	log  *slog.Logger
	opts Options
}

func NewScanner(src Source, log *slog.Logger, opts Options) *Scanner {
	return &Scanner{src: src, log: log, opts: opts.withDefaults()}
}

// Scan audits one collection and returns the sorted findings report. Only a
// listing failure is fatal; per-document fetch and parse failures become
// document-error findings and the scan continues.
func (s *Scanner) Scan(ctx context.Context, collectionID int64) (*findings.Report, error) {
	files, err := s.src.ListFiles(ctx, collectionID, index.DocumentExt)
	if err != nil {
		return nil, fmt.Errorf("list collection %d: %w", collectionID, err)
	}
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}

	// The index must come from the same listing snapshot the scan walks, or
	// ambiguity counts drift from what was actually checked.
	ix := index.Build(files)
	prober := linkcheck.NewProber(s.opts.ProbeTimeout)
	checker := &linkcheck.Checker{Index: ix, Prober: prober, Workers: s.opts.ProbeWorkers}
	ruleSet := rules.Default(prober.Client())

	s.log.Info("scan started",
		"collection_id", collectionID,
		"documents", len(files),
		"logical_names", ix.Len(),
	)

	report := findings.NewReport(collectionID, len(files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch := s.processDocument(gctx, f, checker, ruleSet)
			mu.Lock()
			report.AddAll(batch)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Sort()
	s.log.Info("scan finished", "collection_id", collectionID, "findings", report.Total())
	return report, nil
}

// processDocument fetches, parses, and checks one document. Failures are
// returned as findings, never as errors.
func (s *Scanner) processDocument(ctx context.Context, f dms.FileRef, checker *linkcheck.Checker, ruleSet []rules.Rule) []findings.Finding {
	log := s.log.With("file_id", f.ID, "file", f.Name)

	data, err := s.fetchWithRetry(ctx, f.ID)
	if err != nil {
		log.Error("fetch failed", "error", err)
		return []findings.Finding{findings.DocumentError{File: f.Name, Stage: "fetch", Err: err.Error()}}
	}

	doc, err := htmldoc.Parse(data)
	if err != nil {
		log.Error("parse failed", "error", err)
		return []findings.Finding{findings.DocumentError{File: f.Name, Stage: "parse", Err: err.Error()}}
	}

	var batch []findings.Finding
	for _, lf := range checker.Check(ctx, doc, f.Name) {
		batch = append(batch, lf)
	}
	for _, rule := range ruleSet {
		batch = append(batch, rule.Evaluate(ctx, doc, f.Name)...)
	}
	if len(batch) > 0 {
		log.Info("document checked", "findings", len(batch))
	}
	return batch
}

func (s *Scanner) fetchWithRetry(ctx context.Context, fileID int64) ([]byte, error) {
	var data []byte
	var err error
	for attempt := range maxFetchAttempts {
		data, err = s.src.FetchFile(ctx, fileID)
		if err == nil || !transient(err) {
			return data, err
		}
		s.log.Warn("transient fetch error", "file_id", fileID, "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return data, err
}
