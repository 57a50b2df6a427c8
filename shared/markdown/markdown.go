// Package markdown renders post content and cuts plain-text excerpts from it.
package markdown

import (
	"bytes"
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const ellipsis = "..."

type TextProcessor struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	)
	return &TextProcessor{
		md:     md,
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

// Render converts markdown to HTML that is safe to embed in a page.
// Raw HTML in the source is dropped by the sanitizer.
func (tp *TextProcessor) Render(content string) string {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(content), &buf); err != nil {
		return tp.ugc.Sanitize(html.EscapeString(content))
	}
	return strings.TrimSpace(tp.ugc.Sanitize(buf.String()))
}

// PlainText strips markup and collapses whitespace.
func (tp *TextProcessor) PlainText(content string) string {
	stripped := html.UnescapeString(tp.strict.Sanitize(tp.Render(content)))
	return strings.Join(strings.FieldsFunc(stripped, unicode.IsSpace), " ")
}

// Excerpt returns the first limit characters of the plain text, followed by
// "..." when anything was cut.
func (tp *TextProcessor) Excerpt(content string, limit int) string {
	text := []rune(tp.PlainText(content))
	if limit < 0 || len(text) <= limit {
		return string(text)
	}
	return string(text[:limit]) + ellipsis
}
