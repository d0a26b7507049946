package extract

import (
	"testing"

	"github.com/ppiankov/strata/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteNames(sites []model.Site) []string {
	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.SiteName
	}
	return names
}

func TestSites_NumberedSite(t *testing.T) {
	sites := NewExtractor().Sites("Site 1: Harappa lies on the Ravi. site 2 Lothal, on the coast.")

	require.Len(t, sites, 2)
	assert.Equal(t, "Site 1: Harappa", sites[0].SiteName)
	assert.Equal(t, "Site 2: Lothal", sites[1].SiteName)
	assert.Equal(t, model.SiteTypeSite, sites[1].SiteType)
}

func TestSites_CodedSite(t *testing.T) {
	sites := NewExtractor().Sites("Sherds from HST-202 (Hastinapur) and KL12 (Kalibangan) were compared.")

	assert.Equal(t, []string{"HST-202 (Hastinapur)", "KL12 (Kalibangan)"}, siteNames(sites))
	for _, s := range sites {
		assert.Equal(t, model.SiteTypeSite, s.SiteType)
	}
}

func TestSites_CodedSiteRequiresUppercase(t *testing.T) {
	sites := NewExtractor().Sites("see fig-12 (left) for the section drawing")
	assert.Empty(t, sites)
}

func TestSites_TrenchAndLocus(t *testing.T) {
	sites := NewExtractor().Sites("Locus L12 lies below Trench T-5; Trench 7 was backfilled.")

	require.Len(t, sites, 3)
	assert.Equal(t, "Trench T-5", sites[0].SiteName)
	assert.Equal(t, model.SiteTypeTrench, sites[0].SiteType)
	assert.Equal(t, "Trench 7", sites[1].SiteName)
	assert.Equal(t, "Locus L12", sites[2].SiteName)
	assert.Equal(t, model.SiteTypeLocus, sites[2].SiteType)
}

func TestSites_Mound(t *testing.T) {
	sites := NewExtractor().Sites("Burials were found in Mound A at Site 3.")

	require.Len(t, sites, 1)
	assert.Equal(t, "Mound A at Site 3", sites[0].SiteName)
	assert.Equal(t, model.SiteTypeMound, sites[0].SiteType)
}

func TestSites_Deduplication(t *testing.T) {
	sites := NewExtractor().Sites("Trench T-5 was opened in May. Trench T-5 was closed in June.")
	assert.Len(t, sites, 1)
}

func TestSites_OverlappingFamiliesKeepBoth(t *testing.T) {
	sites := NewExtractor().Sites("Mound B at Site 4: Dholavira, north gate.")

	assert.Equal(t, []string{"Site 4: Dholavira", "Mound B at Site 4"}, siteNames(sites))
}

func TestSites_ContextCollapsesNewlines(t *testing.T) {
	sites := NewExtractor().Sites("Section drawing\nTrench T-9\nfacing north")

	require.Len(t, sites, 1)
	assert.Equal(t, "Section drawing Trench T-9 facing north", sites[0].Context)
}

func TestInferSiteName_Priority(t *testing.T) {
	assert.Equal(t, "Site 3: Harappa", InferSiteName("Trench T-5 near Site 3: Harappa, west side"))
	assert.Equal(t, "HST-202 (Hastinapur)", InferSiteName("Locus L4 at HST-202 (Hastinapur)"))
	assert.Equal(t, "Locus L4", InferSiteName("Locus L4 below Trench T-5"))
	assert.Equal(t, "Mound C at Site 9", InferSiteName("pits in Mound C at Site 9."))
}

func TestInferSiteName_EarliestTrenchOrLocus(t *testing.T) {
	assert.Equal(t, "Locus L12", InferSiteName("Locus L12 lies below Trench 5"))
	assert.Equal(t, "Trench 5", InferSiteName("Trench 5 cuts through Locus L12"))
	assert.Equal(t, "Trench T-3", InferSiteName("the TRENCH T-3 section"))
}

func TestInferSiteName_None(t *testing.T) {
	assert.Empty(t, InferSiteName("no structural cue in this snippet"))
	assert.Empty(t, InferSiteName(""))
}
