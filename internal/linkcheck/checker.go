// Package linkcheck extracts the references inside one document and
// classifies each as healthy, broken, ambiguous, or not validated, probing
// external targets over the network and resolving same-corpus targets
// against the logical document index.
package linkcheck

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
	"github.com/helpforge/helpaudit/internal/index"
)

// Checker resolves one document's references. Same-corpus and fragment
// targets are pure index lookups; external targets fan out over a bounded
// number of probe workers.
type Checker struct {
	Index   *index.Index
	Prober  *Prober
	Workers int
}

// Check classifies every reference in doc and returns the non-healthy
// results. Healthy resolutions are computed but filtered here at the
// boundary; callers only ever consume defects.
func (c *Checker) Check(ctx context.Context, doc *htmldoc.Document, sourceFile string) []findings.LinkFinding {
	refs := Extract(doc)
	if len(refs) == 0 {
		return nil
	}

	results := make([]findings.LinkFinding, len(refs))
	var external []int

	for i, ref := range refs {
		if isExternal(ref.Target) {
			external = append(external, i)
			continue
		}
		results[i] = c.resolveLocal(ref, sourceFile)
	}

	if len(external) > 0 {
		workers := c.Workers
		if workers <= 0 {
			workers = 10
		}
		sem := make(chan struct{}, workers)
		done := make(chan struct{}, len(external))
		for _, i := range external {
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem }()
				results[i] = c.resolveExternal(ctx, refs[i], sourceFile)
				done <- struct{}{}
			}(i)
		}
		for range external {
			<-done
		}
	}

	var defects []findings.LinkFinding
	for _, r := range results {
		if r.Status != findings.StatusHealthy {
			defects = append(defects, r)
		}
	}
	return defects
}

func isExternal(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func (c *Checker) resolveExternal(ctx context.Context, ref Reference, sourceFile string) findings.LinkFinding {
	out := c.Prober.Probe(ctx, ref.Target)
	f := findings.LinkFinding{
		File:         sourceFile,
		Target:       ref.Target,
		Text:         ref.Text,
		ResolvedForm: ref.Target,
		Status:       findings.StatusHealthy,
		HTTPStatus:   out.HTTPStatus,
	}
	if out.Broken {
		f.Status = findings.StatusBroken
		f.Reason = out.Reason
	}
	return f
}

func (c *Checker) resolveLocal(ref Reference, sourceFile string) findings.LinkFinding {
	f := findings.LinkFinding{
		File:         sourceFile,
		Target:       ref.Target,
		Text:         ref.Text,
		ResolvedForm: resolveForm(ref.Target, sourceFile),
		Status:       findings.StatusHealthy,
	}

	// Fragment targets inside the current render are not verified further.
	if strings.HasPrefix(ref.Target, "#") {
		return f
	}

	if logical, isDoc := logicalTarget(ref.Target); isDoc {
		matches := c.Index.Candidates(logical)
		switch len(matches) {
		case 1:
			return f
		case 0:
			f.Status = findings.StatusBroken
			f.Reason = fmt.Sprintf("logical name not found: %s", logical)
			return f
		default:
			f.Status = findings.StatusAmbiguous
			f.Reason = fmt.Sprintf("%d documents resolve to %s", len(matches), logical)
			f.Candidates = len(matches)
			return f
		}
	}

	// A non-HTML local asset referenced without a resolvable base location:
	// unknown, not failing.
	f.Status = findings.StatusNotValidated
	f.Reason = "cannot verify local path without a base directory"
	return f
}

// logicalTarget extracts the logical document name from a same-corpus
// reference, dropping any query or fragment. isDoc is false when the
// target's path does not carry the corpus document extension at all.
func logicalTarget(target string) (logical string, isDoc bool) {
	pathPart := target
	if u, err := url.Parse(target); err == nil && u.Path != "" {
		pathPart = u.Path
	} else if i := strings.IndexAny(pathPart, "?#"); i >= 0 {
		pathPart = pathPart[:i]
	}
	if !strings.Contains(strings.ToLower(pathPart), index.DocumentExt) {
		return "", false
	}
	logical = index.Normalize(pathPart)
	if logical == "" {
		// Carries the extension mid-name (x.html.bak); it will never match
		// a listing entry but is still reported as a same-corpus miss.
		logical = strings.ToLower(path.Base(strings.ReplaceAll(pathPart, "\\", "/")))
	}
	return logical, true
}

// resolveForm produces the reported form of a target: externals as-is,
// fragments anchored to the source file, local paths unescaped with forward
// slashes.
func resolveForm(target, sourceFile string) string {
	if isExternal(target) {
		return target
	}
	if strings.HasPrefix(target, "#") {
		return sourceFile + target
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	return strings.ReplaceAll(target, "\\", "/")
}
