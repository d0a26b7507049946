package extract

import (
	"testing"

	"github.com/ppiankov/strata/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDates_CERange(t *testing.T) {
	dates := NewExtractor().Dates("Fieldwork ran from 1998 to 2002 under the state survey.")

	require.Len(t, dates, 1)
	assert.Equal(t, "1998-2002", dates[0].Label)
	assert.Equal(t, 1998, dates[0].StartYear)
	assert.Equal(t, 2002, dates[0].EndYear)
	assert.Equal(t, model.DateKindCERange, dates[0].Kind)
}

func TestDates_CERangeDescendingSwapped(t *testing.T) {
	dates := NewExtractor().Dates("Seasons 2002–1998 are summarised below.")

	require.Len(t, dates, 1)
	assert.Equal(t, 1998, dates[0].StartYear)
	assert.Equal(t, 2002, dates[0].EndYear)
}

func TestDates_Subsumption(t *testing.T) {
	text := "The site was occupied 1998 to 2002 by the field school. " +
		"Later reports note that in 1999 a trench was opened on the north slope."
	dates := NewExtractor().Dates(text)

	require.Len(t, dates, 1)
	assert.Equal(t, 1998, dates[0].StartYear)
	assert.Equal(t, 2002, dates[0].EndYear)
}

func TestDates_BCERangeOrdering(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"descending", "Occupation spans 2500-1900 BCE."},
		{"ascending", "Occupation spans 1900–2500 BC."},
		{"dotted", "Occupation spans 2500 - 1900 B.C.E."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := NewExtractor().Dates(tt.text)

			require.Len(t, dates, 1)
			assert.Equal(t, -2500, dates[0].StartYear)
			assert.Equal(t, -1900, dates[0].EndYear)
			assert.Equal(t, "2500–1900 BCE", dates[0].Label)
			assert.Equal(t, model.DateKindBCERange, dates[0].Kind)
		})
	}
}

func TestDates_BCERangeNotReadAsCERange(t *testing.T) {
	dates := NewExtractor().Dates("Phase II is dated 2000-1900 BCE on ceramic grounds.")

	require.Len(t, dates, 1)
	assert.Equal(t, -2000, dates[0].StartYear)
	assert.Equal(t, -1900, dates[0].EndYear)
}

func TestDates_SingleBCEYear(t *testing.T) {
	dates := NewExtractor().Dates("The earliest hearth dates to around 3000 BC.")

	require.Len(t, dates, 1)
	assert.Equal(t, "3000 BCE", dates[0].Label)
	assert.Equal(t, -3000, dates[0].StartYear)
	assert.Equal(t, -3000, dates[0].EndYear)
	assert.Equal(t, model.DateKindBCEYear, dates[0].Kind)
}

func TestDates_SingleBCEYearSubsumedByRange(t *testing.T) {
	text := "Mature phase 2500-1900 BCE. A seal impression of 2000 BCE was found."
	dates := NewExtractor().Dates(text)

	require.Len(t, dates, 1)
	assert.Equal(t, model.DateKindBCERange, dates[0].Kind)
}

func TestDates_BCEYearNotAlsoCEYear(t *testing.T) {
	dates := NewExtractor().Dates("Abandonment around 1900 BCE is widely accepted.")

	require.Len(t, dates, 1)
	assert.Equal(t, -1900, dates[0].StartYear)
}

func TestDates_ContextualYear(t *testing.T) {
	dates := NewExtractor().Dates("The mound was surveyed in 1987 and revisited in summer 2005.")

	require.Len(t, dates, 2)
	assert.Equal(t, 1987, dates[0].StartYear)
	assert.Equal(t, model.DateKindContextualYear, dates[0].Kind)
	assert.Equal(t, "2005", dates[1].Label)
	assert.Equal(t, model.DateKindContextualYear, dates[1].Kind)
}

func TestDates_BareYear(t *testing.T) {
	dates := NewExtractor().Dates("A report was published in 2004.")

	require.Len(t, dates, 1)
	assert.Equal(t, "2004", dates[0].Label)
	assert.Equal(t, model.DateKindYear, dates[0].Kind)
}

func TestDates_BareYearIgnoredNearGridReference(t *testing.T) {
	dates := NewExtractor().Dates("Grid Zone 2001 was used for the mapping sheet.")
	assert.Empty(t, dates)
}

func TestDates_BareYearDeduplicated(t *testing.T) {
	dates := NewExtractor().Dates("In 2004 the report appeared; a second edition also dates from 2004.")
	assert.Len(t, dates, 1)
}

func TestDates_StartNotAfterEnd(t *testing.T) {
	text := `Seasons 2010-2008 and 1850 to 1870. Phases 1200-1500 BC, 800–950 BCE.
	Excavated 1923, published 1931, dated in 2019. Around 700 BCE.`
	dates := NewExtractor().Dates(text)

	require.NotEmpty(t, dates)
	for _, d := range dates {
		assert.LessOrEqual(t, d.StartYear, d.EndYear, d.Label)
	}
}

func TestDates_SiteNameInferred(t *testing.T) {
	dates := NewExtractor().Dates("Locus L12 yielded charcoal dated 1450-1300 BCE.")

	require.Len(t, dates, 1)
	assert.Equal(t, "Locus L12", dates[0].SiteName)
}

func TestDates_NoMatches(t *testing.T) {
	dates := NewExtractor().Dates("Undated surface scatter of potsherds.")

	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}
