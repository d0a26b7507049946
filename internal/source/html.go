package source

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLReader extracts visible text from HTML reports
type HTMLReader struct{}

// NewHTMLReader creates a new HTML reader
func NewHTMLReader() *HTMLReader {
	return &HTMLReader{}
}

// Name returns the reader name
func (h *HTMLReader) Name() string {
	return "html"
}

// CanHandle matches HTML content types and .html/.htm/.xhtml references
func (h *HTMLReader) CanHandle(ref string, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return true
	}
	if contentType != "" {
		return false
	}
	switch extOf(ref) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// Read parses the HTML and returns its visible text
func (h *HTMLReader) Read(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return Normalize(visibleText(doc)), nil
}

// blockElements end a line of text so sentences in separate paragraphs,
// table cells or list items are never glued together
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "table": true, "blockquote": true, "pre": true,
	"dt": true, "dd": true, "figcaption": true, "caption": true, "title": true,
	"ul": true, "ol": true, "nav": true, "header": true, "footer": true,
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)

	lines := strings.Split(buf.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
