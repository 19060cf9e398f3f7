// Package index maps logical document names to the physical file ids that
// could satisfy a same-corpus reference. Export pipelines prefix physical
// filenames with arbitrary project strings (Project_en-US_0001485246.html),
// so cross-references can only be correlated through the trailing segment.
package index

import (
	"path"
	"strings"

	"github.com/helpforge/helpaudit/internal/dms"
)

// DocumentExt is the corpus document extension.
const DocumentExt = ".html"

// Index is the logical-name lookup table for one listing snapshot. It is
// built once per scan and read-only afterward.
type Index struct {
	buckets map[string][]int64
}

// Normalize reduces a filename or reference path to its logical document
// name: basename, lower-cased, last underscore-delimited segment. Returns ""
// when the name does not carry the corpus document extension. Idempotent.
func Normalize(name string) string {
	base := strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if !strings.HasSuffix(base, DocumentExt) {
		return ""
	}
	if i := strings.LastIndex(base, "_"); i >= 0 {
		base = base[i+1:]
	}
	return base
}

// Build constructs the index from a listing snapshot. Entries that do not
// normalize to a logical document name are discarded; nothing is ever
// removed afterward.
func Build(listing []dms.FileRef) *Index {
	ix := &Index{buckets: make(map[string][]int64, len(listing))}
	for _, ref := range listing {
		logical := Normalize(ref.Name)
		if logical == "" {
			continue
		}
		ix.buckets[logical] = append(ix.buckets[logical], ref.ID)
	}
	return ix
}

// Candidates returns the file ids that normalize to the given logical name,
// in listing order. A same-corpus reference is unambiguous only when exactly
// one id is returned.
func (ix *Index) Candidates(logical string) []int64 {
	return ix.buckets[logical]
}

// Len returns the number of distinct logical names.
func (ix *Index) Len() int {
	return len(ix.buckets)
}
