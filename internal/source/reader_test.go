package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FindReader(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name        string
		ref         string
		contentType string
		want        string
	}{
		{"html content type", "https://example.org/r", "text/html; charset=utf-8", "html"},
		{"xhtml content type", "https://example.org/r", "application/xhtml+xml", "html"},
		{"plain content type wins over extension", "https://example.org/r.html", "text/plain", "text"},
		{"html extension", "report.HTM", "", "html"},
		{"extension before query", "https://example.org/r.html?page=2", "", "html"},
		{"text file", "report.txt", "", "text"},
		{"stdin", "-", "", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, registry.FindReader(tt.ref, tt.contentType).Name())
		})
	}
}

func TestTextReader_InvalidUTF8(t *testing.T) {
	text, err := NewTextReader().Read([]byte("Site 1: Ur\xff"))
	require.NoError(t, err)
	assert.Equal(t, "Site 1: Ur�", text)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb\nc", Normalize("a\r\nb\rc"))
	assert.Equal(t, "end of page\n\nnext page", Normalize("end of page\fnext page"))
	assert.Equal(t, "Trench 4\n--- Page 2 ---\nLocus 9", Normalize("Trench 4 --- Page 2 --- Locus 9"))
}

func TestHTMLReader_VisibleText(t *testing.T) {
	html := `<html><head><title>Report</title><script>var lat = 1.5;</script></head>
<body>
  <nav><noscript>enable js</noscript></nav>
  <table><tr><td>Trench T-5</td><td>28.6128° N, 77.2311° E</td></tr></table>
  <ul><li>Locus   L12</li><li>Locus L13</li></ul>
</body></html>`

	text, err := NewHTMLReader().Read([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, "Report\nTrench T-5\n28.6128° N, 77.2311° E\nLocus L12\nLocus L13", text)
}
