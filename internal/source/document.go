package source

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyReference is returned when no file, URL or "-" was given
	ErrEmptyReference = errors.New("empty document reference")

	// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL
	ErrRobotsDisallowed = errors.New("blocked by robots.txt")

	// ErrBodyTooLarge is returned when a document exceeds the configured size limit
	ErrBodyTooLarge = errors.New("document exceeds size limit")
)

// StdinRef is the reference that reads the document from standard input
const StdinRef = "-"

// Document is a loaded text document ready for extraction
type Document struct {
	Ref         string // Reference as given by the caller
	Subject     string // Human-readable name derived from the reference
	Text        string // Normalised plain text
	ContentType string // Content type reported by the server, empty for files
	Reader      string // Name of the reader that produced Text
	FinalURL    string // URL after redirects (URLs only)
}

// IsURL reports whether ref is an http(s) URL
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// SubjectOf derives a human-readable subject from a file path or URL
func SubjectOf(ref string) string {
	if ref == StdinRef {
		return "stdin"
	}

	name := ref
	if IsURL(ref) {
		parsed, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		path := strings.Trim(parsed.Path, "/")
		if path == "" {
			return parsed.Host
		}
		segments := strings.Split(path, "/")
		name = segments[len(segments)-1]
	} else {
		name = filepath.Base(ref)
	}

	// Remove file extensions
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}

	// De-slugify
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
