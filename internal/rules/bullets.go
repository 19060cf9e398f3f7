package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

var (
	listClassRe  = regexp.MustCompile(`List_\d+_-_\w+`)
	marginLeftRe = regexp.MustCompile(`margin-left:\s*(\d+(?:\.\d+)?)(pt|px)`)
	badPropRe    = regexp.MustCompile(`(padding|line-height):\s*[^;]+`)
)

const requiredMargin = "18pt"

// BulletRule checks bullet alignment. Elements styled with the house list
// classes (List_<n>_-_<word>) must declare margin-left: 18pt exactly. Any
// bullet element carrying padding or line-height declarations is defective
// regardless of margin correctness, because those properties break the list
// style. One element can produce more than one finding.
type BulletRule struct{}

func (BulletRule) Name() string { return "bullet-alignment" }

func (BulletRule) Evaluate(_ context.Context, doc *htmldoc.Document, file string) []findings.Finding {
	elements := bulletElements(doc)
	if len(elements) == 0 {
		return nil
	}

	var out []findings.Finding
	for _, el := range elements {
		style := htmldoc.Attr(el, "style")

		if htmldoc.HasClass(el, func(c string) bool { return strings.Contains(c, "List_") }) {
			if m := marginLeftRe.FindStringSubmatch(style); m == nil {
				out = append(out, bulletFinding(el, file, "Missing margin-left property"))
			} else if m[1]+m[2] != requiredMargin {
				out = append(out, bulletFinding(el, file, fmt.Sprintf("Invalid margin-left: %s%s", m[1], m[2])))
			}
		}

		if props := badPropRe.FindAllString(style, -1); len(props) > 0 {
			out = append(out, bulletFinding(el, file,
				"Found problematic properties: "+strings.Join(props, ", ")))
		}
	}
	return out
}

// bulletElements gathers list items plus any div styled with a list class,
// in document order, without duplicates.
func bulletElements(doc *htmldoc.Document) []*html.Node {
	seen := make(map[*html.Node]bool)
	var out []*html.Node
	doc.Walk(func(n *html.Node) bool {
		if n.Type != html.ElementNode || seen[n] {
			return true
		}
		if n.Data == "li" ||
			(n.Data == "div" && htmldoc.HasClass(n, listClassRe.MatchString)) {
			seen[n] = true
			out = append(out, n)
		}
		return true
	})
	return out
}

func bulletFinding(el *html.Node, file, reason string) findings.BulletFinding {
	return findings.BulletFinding{
		File:      file,
		ElementID: htmldoc.Attr(el, "id"),
		Text:      htmldoc.CollapsedText(el),
		Reason:    reason,
	}
}
