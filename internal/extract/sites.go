package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/strata/internal/model"
)

// siteFamily is one structural naming convention for site references
type siteFamily struct {
	siteType model.SiteType
	pattern  *regexp.Regexp
	label    func(m []string) string
}

// siteFamilies are scanned in priority order by Sites
var siteFamilies = []siteFamily{
	{
		// "Site 3: Mohenjo-daro", "Site 12 Harappa"
		siteType: model.SiteTypeSite,
		pattern:  regexp.MustCompile(`(?im)\bSite\s+(\d+)[:\s]+([A-Za-z][A-Za-z\s\-]+?)(?:[,\s.]|$)`),
		label: func(m []string) string {
			return "Site " + m[1] + ": " + normalizeLabel(m[2])
		},
	},
	{
		// "HST-202 (Hastinapur)"
		siteType: model.SiteTypeSite,
		pattern:  regexp.MustCompile(`\b([A-Z]{2,4}-?\d{1,4})\s*\(([^)]+)\)`),
		label: func(m []string) string {
			return m[1] + " (" + normalizeLabel(m[2]) + ")"
		},
	},
	{
		siteType: model.SiteTypeTrench,
		pattern:  regexp.MustCompile(`(?i)\bTrench\s+([A-Z]?-?\d+)`),
		label: func(m []string) string {
			return "Trench " + m[1]
		},
	},
	{
		siteType: model.SiteTypeLocus,
		pattern:  regexp.MustCompile(`(?i)\bLocus\s+([A-Z]?-?\d+)`),
		label: func(m []string) string {
			return "Locus " + m[1]
		},
	},
	{
		siteType: model.SiteTypeMound,
		pattern:  regexp.MustCompile(`(?i)\bMound\s+([A-Z])\s+at\s+Site\s+(\d+)`),
		label: func(m []string) string {
			return "Mound " + m[1] + " at Site " + m[2]
		},
	},
}

// inferenceFamilies drive InferSiteName. Trench and Locus share one family so
// the earliest of the two in a snippet wins.
var inferenceFamilies = []siteFamily{
	siteFamilies[0],
	siteFamilies[1],
	{
		pattern: regexp.MustCompile(`(?i)\b(Trench|Locus)\s+([A-Z]?-?\d+)`),
		label: func(m []string) string {
			return strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:]) + " " + m[2]
		},
	},
	siteFamilies[4],
}

// Sites extracts site, trench, locus and mound references from text.
// A span of text may match several families and yield several records;
// records are deduplicated by exact name, first occurrence wins.
func (e *Extractor) Sites(text string) []model.Site {
	results := make([]model.Site, 0)
	seen := make(map[string]bool)

	for _, family := range siteFamilies {
		for _, loc := range family.pattern.FindAllStringSubmatchIndex(text, -1) {
			name := family.label(submatches(text, loc))
			if seen[name] {
				continue
			}
			seen[name] = true

			results = append(results, model.Site{
				SiteName: name,
				SiteType: family.siteType,
				Context:  snippet(text, loc[0], loc[1], model.DefaultContextWindow),
			})
		}
	}

	e.log.Debug("extracted sites", "count", len(results))
	return results
}

// InferSiteName returns the first site reference found in a short snippet,
// trying the inference families in priority order, or "" if none matches.
func InferSiteName(snippet string) string {
	for _, family := range inferenceFamilies {
		if m := family.pattern.FindStringSubmatch(snippet); m != nil {
			return family.label(m)
		}
	}
	return ""
}

// submatches converts an index location into captured strings
func submatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// normalizeLabel collapses internal whitespace (line breaks from PDF text included)
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
