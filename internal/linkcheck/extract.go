package linkcheck

import (
	"strings"

	"github.com/helpforge/helpaudit/internal/htmldoc"
)

// RefKind tells which element a reference was extracted from.
type RefKind string

const (
	RefAnchor   RefKind = "anchor"
	RefResource RefKind = "resource"
	RefImage    RefKind = "image"
)

// Reference is one extracted pointer inside a document.
type Reference struct {
	Kind   RefKind
	Target string
	Text   string
}

// Static assets are not subject to corpus-membership checks.
var assetExts = []string{".css", ".js", ".svg", ".png", ".jpg", ".jpeg", ".gif", ".ico"}

func isAsset(target string) bool {
	t := strings.ToLower(target)
	for _, ext := range assetExts {
		if strings.HasSuffix(t, ext) {
			return true
		}
	}
	return false
}

const displayTextLimit = 50

// Extract collects every checkable reference in a document: anchor hrefs,
// link-tag hrefs, and image srcs, excluding pseudo-targets and static
// assets. References are de-duplicated by raw target string; the first
// occurrence's display text wins.
func Extract(doc *htmldoc.Document) []Reference {
	var refs []Reference

	for _, a := range doc.Elements("a") {
		href := htmldoc.Attr(a, "href")
		if href == "" || href == "#" ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			continue
		}
		if isAsset(href) {
			continue
		}
		text := htmldoc.Truncate(htmldoc.CollapsedText(a), displayTextLimit)
		if text == "" {
			text = "Link"
		}
		refs = append(refs, Reference{Kind: RefAnchor, Target: href, Text: text})
	}

	for _, l := range doc.Elements("link") {
		href := htmldoc.Attr(l, "href")
		if href == "" || isAsset(href) {
			continue
		}
		refs = append(refs, Reference{Kind: RefResource, Target: href, Text: "CSS/Resource link"})
	}

	for _, img := range doc.Elements("img") {
		src := htmldoc.Attr(img, "src")
		if src == "" || isAsset(src) {
			continue
		}
		text := htmldoc.Truncate(htmldoc.Attr(img, "alt"), displayTextLimit)
		if text == "" {
			text = "Image"
		}
		refs = append(refs, Reference{Kind: RefImage, Target: src, Text: text})
	}

	seen := make(map[string]bool, len(refs))
	unique := refs[:0]
	for _, r := range refs {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		unique = append(unique, r)
	}
	return unique
}
