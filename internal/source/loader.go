package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Loader resolves a document reference into normalised text
type Loader struct {
	fetcher  *Fetcher
	readers  *Registry
	stdin    io.Reader
	maxBytes int64
	log      *slog.Logger
}

// NewLoader creates a loader. fetcher may be nil, in which case URLs are rejected.
func NewLoader(fetcher *Fetcher, maxBytes int64, log *slog.Logger) *Loader {
	return &Loader{
		fetcher:  fetcher,
		readers:  NewRegistry(),
		stdin:    os.Stdin,
		maxBytes: maxBytes,
		log:      log,
	}
}

// WithStdin replaces the reader used for the "-" reference
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// Load reads ref: "-" is standard input, http(s) URLs are fetched,
// anything else is a local file
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyReference
	}

	doc := &Document{
		Ref:     ref,
		Subject: SubjectOf(ref),
	}

	var body []byte
	switch {
	case ref == StdinRef:
		b, err := readLimited(l.stdin, l.maxBytes)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		body = b

	case IsURL(ref):
		if l.fetcher == nil {
			return nil, fmt.Errorf("%s: fetching disabled", ref)
		}
		result, err := l.fetcher.FetchWithRetry(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, err)
		}
		body = result.Body
		doc.ContentType = result.ContentType
		doc.FinalURL = result.FinalURL
		if result.FinalURL != ref {
			doc.Subject = SubjectOf(result.FinalURL)
		}

	default:
		b, err := l.readFile(ref)
		if err != nil {
			return nil, err
		}
		body = b
	}

	reader := l.readers.FindReader(ref, doc.ContentType)
	text, err := reader.Read(body)
	if err != nil {
		return nil, fmt.Errorf("read %s as %s: %w", ref, reader.Name(), err)
	}
	doc.Text = text
	doc.Reader = reader.Name()

	l.log.Debug("document loaded", "ref", ref, "reader", doc.Reader, "bytes", len(body))
	return doc, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	body, err := readLimited(f, l.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}
