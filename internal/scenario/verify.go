package scenario

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RenderedText returns the whitespace-normalised visible text of an HTML
// document. Form controls, scripts and styles are dropped so a value still
// sitting in an input does not count as rendered content.
func RenderedText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse rendered page: %w", err)
	}
	doc.Find("input, textarea, select, script, style, noscript, template").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

// ContainsText reports whether literal appears in the rendered text of html.
func ContainsText(html, literal string) (bool, error) {
	text, err := RenderedText(html)
	if err != nil {
		return false, err
	}
	want := strings.Join(strings.Fields(literal), " ")
	if want == "" {
		return false, fmt.Errorf("empty expected literal")
	}
	return strings.Contains(text, want), nil
}
