package renderer

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.Table))

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.2em 0.6em; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

// HTML converts a markdown report into a standalone HTML page.
func HTML(title, markdown string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, htmlHeader, html.EscapeString(title))
	if err := htmlConverter.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("converting report to html: %w", err)
	}
	buf.WriteString(htmlFooter)
	return buf.Bytes(), nil
}
