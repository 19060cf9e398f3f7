package report

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Help Corpus Audit</title>
<style>
body { font-family: sans-serif; margin: 2em; max-width: 72em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f0f0f0; }
</style>
</head>
<body>
`

const htmlFooter = "</body>\n</html>\n"

// HTML renders the markdown report and wraps it in a standalone page.
func HTML(w io.Writer, in Input) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	if _, err := io.WriteString(w, htmlHeader); err != nil {
		return err
	}
	if err := md.Convert([]byte(Markdown(in)), w); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	_, err := io.WriteString(w, htmlFooter)
	return err
}
