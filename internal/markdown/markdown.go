// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post bodies written in Markdown into the HTML
// stored in the content repository. Raw HTML inside the Markdown is passed
// through, so pasted rich-text fragments survive the conversion.
package markdown

import (
	"bytes"
	"fmt"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Body formats accepted by the authoring API.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Convert returns body as HTML according to format. An empty format or
// FormatHTML returns body unchanged.
func Convert(format, body string) (string, error) {
	switch format {
	case "", FormatHTML:
		return body, nil
	case FormatMarkdown:
		return ToHTML(body)
	default:
		return "", fmt.Errorf("unknown body format %q", format)
	}
}
