// Package rules holds the content rule evaluators. Each rule scans one
// parsed document independently of the others and emits zero or more typed
// findings; rules may run in any order or in parallel across documents.
package rules

import (
	"context"
	"net/http"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

// Rule evaluates one parsed document. The context is only consulted by
// rules that perform network checks.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, doc *htmldoc.Document, file string) []findings.Finding
}

// Default returns the full rule set. client is used by rules that fetch
// remote resources.
func Default(client *http.Client) []Rule {
	return []Rule{
		NoteRule{},
		BulletRule{},
		NavigationRule{},
		SpacingRule{},
		&ImageRule{Client: client},
	}
}
