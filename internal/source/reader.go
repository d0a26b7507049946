package source

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reader turns raw document bytes into plain text
type Reader interface {
	// Name returns the reader name
	Name() string

	// CanHandle checks if this reader understands the given reference/content type
	CanHandle(ref string, contentType string) bool

	// Read converts the raw bytes into text
	Read(body []byte) (string, error)
}

// Registry manages document readers
type Registry struct {
	readers  []Reader
	fallback Reader
}

// NewRegistry creates a registry with the built-in readers
func NewRegistry() *Registry {
	registry := &Registry{
		readers: make([]Reader, 0),
	}

	registry.Register(NewHTMLReader())

	// Plain text is the fallback for .txt, .md, pdftotext output, stdin
	registry.fallback = NewTextReader()

	return registry
}

// Register registers a new reader; later registrations are tried last
func (r *Registry) Register(reader Reader) {
	r.readers = append(r.readers, reader)
}

// FindReader finds the reader for the given reference and content type
func (r *Registry) FindReader(ref string, contentType string) Reader {
	for _, reader := range r.readers {
		if reader.CanHandle(ref, contentType) {
			return reader
		}
	}
	return r.fallback
}

// TextReader reads plain text documents
type TextReader struct{}

// NewTextReader creates a new plain text reader
func NewTextReader() *TextReader {
	return &TextReader{}
}

// Name returns the reader name
func (t *TextReader) Name() string {
	return "text"
}

// CanHandle always returns true (fallback reader)
func (t *TextReader) CanHandle(ref string, contentType string) bool {
	return true
}

// Read returns the body as text with invalid UTF-8 replaced
func (t *TextReader) Read(body []byte) (string, error) {
	text := string(body)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return Normalize(text), nil
}

var (
	pageBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n\n")

	// "--- Page N ---" separators written by PDF converters
	pageMarker = regexp.MustCompile(`[ \t]*(--- Page \d+ ---)[ \t]*`)
)

// Normalize prepares extracted text for pattern matching: Windows and old Mac
// line endings become \n, form feeds (pdftotext page breaks) become a blank
// line and page markers are put on a line of their own.
func Normalize(text string) string {
	text = pageBreaks.Replace(text)
	return pageMarker.ReplaceAllString(text, "\n$1\n")
}

// extOf returns the lower-cased file extension of a path or URL path
func extOf(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return strings.ToLower(filepath.Ext(ref))
}
