package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/strata/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader() *Loader {
	return NewLoader(NewFetcher(testSourceConfig(), logging.Discard()), 1<<20, logging.Discard())
}

func TestLoader_EmptyReference(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyReference)
}

func TestLoader_Stdin(t *testing.T) {
	loader := newTestLoader().WithStdin(strings.NewReader("Trench T-5\r\nLocus L12"))

	doc, err := loader.Load(context.Background(), StdinRef)
	require.NoError(t, err)
	assert.Equal(t, "Trench T-5\nLocus L12", doc.Text)
	assert.Equal(t, "stdin", doc.Subject)
	assert.Equal(t, "text", doc.Reader)
}

func TestLoader_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harappa_season-2.txt")
	require.NoError(t, os.WriteFile(path, []byte("page one\fpage two"), 0o644))

	doc, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two", doc.Text)
	assert.Equal(t, "harappa season 2", doc.Subject)
}

func TestLoader_HTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	html := `<html><head><style>p{}</style></head><body><p>Site 3: Mohenjo-daro</p><script>var x=1;</script></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	doc, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "html", doc.Reader)
	assert.Equal(t, "Site 3: Mohenjo-daro", doc.Text)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_Directory(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestLoader_FileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644))

	loader := NewLoader(nil, 10, logging.Discard())
	_, err := loader.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestLoader_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<html><body><h1>Season report</h1><p>Excavated 2500-1900 BCE.</p></body></html>")
	}))
	defer server.Close()

	doc, err := newTestLoader().Load(context.Background(), server.URL+"/reports/kalibangan_2004")
	require.NoError(t, err)
	assert.Equal(t, "html", doc.Reader)
	assert.Equal(t, "Season report\nExcavated 2500-1900 BCE.", doc.Text)
	assert.Equal(t, "kalibangan 2004", doc.Subject)
}

func TestLoader_URLWithoutFetcher(t *testing.T) {
	loader := NewLoader(nil, 0, logging.Discard())
	_, err := loader.Load(context.Background(), "https://example.org/report.txt")
	assert.ErrorContains(t, err, "fetching disabled")
}

func TestSubjectOf(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"-", "stdin"},
		{"/data/reports/Lothal_Dock-1955.pdf.txt", "Lothal Dock 1955.pdf"},
		{"report.md", "report"},
		{"https://example.org/", "example.org"},
		{"https://example.org/sites/site_3-mohenjo-daro.html", "site 3 mohenjo daro"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, SubjectOf(tt.ref))
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.org"))
	assert.True(t, IsURL("HTTP://example.org"))
	assert.False(t, IsURL("ftp://example.org"))
	assert.False(t, IsURL("reports/http.txt"))
}
