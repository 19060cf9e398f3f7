package rules

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

var menuKeywords = []string{"nav", "menu", "navbar", "header", "sidebar"}

// SpacingRule flags inline anchors whose display text runs directly into the
// surrounding text with no separating whitespace. Navigation chrome and
// skip links are exempt; punctuation immediately after a link is accepted.
type SpacingRule struct{}

func (SpacingRule) Name() string { return "anchor-spacing" }

func (SpacingRule) Evaluate(_ context.Context, doc *htmldoc.Document, file string) []findings.Finding {
	var out []findings.Finding
	for _, a := range doc.Elements("a") {
		if isMenuLink(a) || isSkipLink(a) {
			continue
		}
		linkText := htmldoc.Text(a)
		if linkText == "" || a.Parent == nil {
			continue
		}

		parentText := htmldoc.Text(a.Parent)
		start := strings.Index(parentText, linkText)
		if start < 0 {
			continue
		}
		end := start + len(linkText)

		missingBefore := false
		if start > 0 {
			r, _ := utf8.DecodeLastRuneInString(parentText[:start])
			missingBefore = !unicode.IsSpace(r)
		}
		missingAfter := false
		if end < len(parentText) {
			r, _ := utf8.DecodeRuneInString(parentText[end:])
			missingAfter = !unicode.IsSpace(r) && !isTrailingPunct(r)
		}

		if missingBefore || missingAfter {
			out = append(out, findings.SpacingFinding{
				File:          file,
				LinkText:      linkText,
				MissingBefore: missingBefore,
				MissingAfter:  missingAfter,
			})
		}
	}
	return out
}

func isTrailingPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', ')':
		return true
	}
	return false
}

// isMenuLink reports whether the anchor sits inside menu-like structure:
// a nav or header element, or an ancestor whose class list or id carries a
// menu keyword.
func isMenuLink(a *html.Node) bool {
	return htmldoc.FindAncestor(a, func(p *html.Node) bool {
		if p.Data == "nav" || p.Data == "header" {
			return true
		}
		id := htmldoc.Attr(p, "id")
		for _, kw := range menuKeywords {
			if id != "" && strings.Contains(id, kw) {
				return true
			}
			for _, c := range htmldoc.Classes(p) {
				if c == kw {
					return true
				}
			}
		}
		return false
	}) != nil
}

func isSkipLink(a *html.Node) bool {
	return strings.Contains(htmldoc.Attr(a, "aria-label"), "Skip to Main content")
}
