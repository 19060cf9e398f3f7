package rules

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

const (
	stepClass    = "Step_1"
	commandClass = "Command_002c_menucascade_002c_uicontrol"

	// The only accepted separator form: one space each side.
	canonicalSep = " > "
)

var subWordSplitRe = regexp.MustCompile(`[/\\\-_'()]`)

// NavigationRule validates breadcrumb paths inside step containers. The
// child text and command/menu elements are concatenated in document order
// into one path string; separator glyphs (literal '>', entity-encoded, or
// double-encoded) are reduced to the literal form. A path is flagged when
// any separator does not appear as exactly " > ", and when any sub-word
// mixes at least two upper-case with at least one lower-case letter.
// All-caps acronyms and plain capitalized words pass.
type NavigationRule struct{}

func (NavigationRule) Name() string { return "navigation-path" }

func (NavigationRule) Evaluate(_ context.Context, doc *htmldoc.Document, file string) []findings.Finding {
	var out []findings.Finding
	for _, div := range doc.ElementsByClass("div", func(c string) bool { return c == stepClass }) {
		path := breadcrumbPath(div)
		if path == "" {
			continue
		}
		incorrectSpacing, camel := validatePath(path)
		if !incorrectSpacing && len(camel) == 0 {
			continue
		}
		out = append(out, findings.NavigationFinding{
			File:             file,
			Path:             path,
			IncorrectSpacing: incorrectSpacing,
			CamelCaseWords:   camel,
		})
	}
	return out
}

// breadcrumbPath joins a step container's direct children into one path
// string. The parser already decodes one level of entities; unescaping once
// more reduces double-encoded separators (&amp;gt; in the source) to the
// literal glyph. The joined string has whitespace runs collapsed to single
// spaces, which preserves glyph spacing defects within each text segment.
func breadcrumbPath(div *html.Node) string {
	var parts []string
	for c := div.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			t := html.UnescapeString(c.Data)
			if strings.TrimSpace(t) != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			// Command/menu elements carry the path segments; other inline
			// elements contribute their visible text as well.
			if t := html.UnescapeString(htmldoc.CollapsedText(c)); t != "" {
				parts = append(parts, t)
			}
		}
	}
	joined := strings.Join(parts, " ")
	return strings.Join(strings.Fields(joined), " ")
}

// validatePath applies the spacing and camel-case checks to one path.
func validatePath(path string) (incorrectSpacing bool, camel []string) {
	if strings.Contains(path, ">") {
		// Mask every correctly spaced separator; any glyph left over was in
		// some other form.
		masked := strings.ReplaceAll(path, canonicalSep, " \x00 ")
		incorrectSpacing = strings.Contains(masked, ">")
	}

	seen := make(map[string]bool)
	for _, segment := range strings.Split(path, ">") {
		for _, word := range strings.Fields(segment) {
			for _, sub := range subWordSplitRe.Split(word, -1) {
				if sub == "" || !isCamelLike(sub) || seen[sub] {
					continue
				}
				seen[sub] = true
				camel = append(camel, sub)
			}
		}
	}
	return incorrectSpacing, camel
}

// isCamelLike reports at least two upper-case and one lower-case letter.
func isCamelLike(word string) bool {
	var upper, lower int
	for _, r := range word {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	return upper >= 2 && lower >= 1
}
