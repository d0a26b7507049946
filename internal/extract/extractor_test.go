package extract

import (
	"sync"
	"testing"

	"github.com/ppiankov/strata/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mohenjoDaro = "Site 3: Mohenjo-daro is located at 27.325, 68.138. Excavated 2500-1900 BCE."

func TestExtractor_MohenjoDaroScenario(t *testing.T) {
	e := NewExtractor()

	sites := e.Sites(mohenjoDaro)
	require.Len(t, sites, 1)
	assert.Equal(t, "Site 3: Mohenjo-daro", sites[0].SiteName)
	assert.Equal(t, model.SiteTypeSite, sites[0].SiteType)

	coords := e.Coordinates(mohenjoDaro)
	require.Len(t, coords, 1)
	assert.InDelta(t, 27.325, coords[0].Latitude, 1e-9)
	assert.InDelta(t, 68.138, coords[0].Longitude, 1e-9)
	assert.Equal(t, "Site 3: Mohenjo-daro", coords[0].SiteName)

	dates := e.Dates(mohenjoDaro)
	require.Len(t, dates, 1)
	assert.Equal(t, -2500, dates[0].StartYear)
	assert.Equal(t, -1900, dates[0].EndYear)
	assert.Equal(t, "Site 3: Mohenjo-daro", dates[0].SiteName)
}

func TestExtractor_EmptyText(t *testing.T) {
	e := NewExtractor()

	for _, text := range []string{"", "   \n\n  ", "A plain paragraph with nothing structured in it."} {
		assert.Empty(t, e.Coordinates(text))
		assert.Empty(t, e.Dates(text))
		assert.Empty(t, e.Sites(text))
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	text := mohenjoDaro + "\nTrench T-5 at 28.6128° N, 77.2311° E was dug in summer 2005; HST-202 (Hastinapur) 1998 to 2002."
	e := NewExtractor()

	assert.Equal(t, e.Coordinates(text), e.Coordinates(text))
	assert.Equal(t, e.Dates(text), e.Dates(text))
	assert.Equal(t, e.Sites(text), e.Sites(text))
}

func TestExtractor_ConcurrentUse(t *testing.T) {
	e := NewExtractor()
	want := e.Dates(mohenjoDaro)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, e.Dates(mohenjoDaro))
			_ = e.Coordinates(mohenjoDaro)
			_ = e.Sites(mohenjoDaro)
		}()
	}
	wg.Wait()
}

func TestNewExtractor_Options(t *testing.T) {
	assert.Equal(t, model.DefaultContextWindow, NewExtractor().ContextWindow())
	assert.Equal(t, 40, NewExtractor(WithContextWindow(40)).ContextWindow())
	assert.Equal(t, 0, NewExtractor(WithContextWindow(0)).ContextWindow())
	assert.Equal(t, model.DefaultContextWindow, NewExtractor(WithContextWindow(-5)).ContextWindow())
}

func TestSnippet(t *testing.T) {
	text := "abcdef\nGHIJ\nklmnop"

	assert.Equal(t, "ef GHIJ kl", snippet(text, 7, 11, 3))
	assert.Equal(t, "GHIJ", snippet(text, 7, 11, 0))
	assert.Equal(t, "abcdef GHIJ klmnop", snippet(text, 7, 11, 500))
}

func TestSnippet_MultibyteCharacters(t *testing.T) {
	text := "ééé 27.325, 68.138 ààà"
	start := len("ééé ")
	end := start + len("27.325, 68.138")

	assert.Equal(t, "é 27.325, 68.138 à", snippet(text, start, end, 2))
}
