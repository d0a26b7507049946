package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ppiankov/strata/internal/model"
)

// bceMarker matches the era suffixes BCE, BC, B.C.E. and B.C.
const bceMarker = `(?:B\.C\.(?:E\.)?|BCE?\b)`

const modernYear = `(?:18|19|20)\d{2}`

// dateCandidate is a parsed match before dedup and subsumption
type dateCandidate struct {
	label      string
	start, end int
}

// dateFamily is one way of writing a date. Range families are deduplicated
// on the exact (start, end) pair; single-year families are suppressed when an
// earlier record already covers the year.
type dateFamily struct {
	kind    model.DateKind
	pattern *regexp.Regexp
	single  bool
	parse   func(re *regexp.Regexp, text string, loc []int) (dateCandidate, bool)
}

var (
	bceSuffixPattern   = regexp.MustCompile(`(?i)^\s*` + bceMarker)
	yearNeighbourGuard = regexp.MustCompile(`UTM|Zone|\d{6,}`)
)

// dateFamilies run in order from broad ranges to narrow, ambiguous years.
// The order matters: subsumption only looks at records collected so far.
var dateFamilies = []dateFamily{
	{
		// "1998 to 2002", "from 1998-2002", "between 1998 – 2002"
		kind: model.DateKindCERange,
		pattern: regexp.MustCompile(`(?i)(?:\b(?:from|between|during)\s+)?\b(?P<start>` + modernYear +
			`)\s*(?:to|-|–)\s*(?P<end>` + modernYear + `)\b`),
		parse: parseCERange,
	},
	{
		// "2500–1900 BCE", "3000-2000 BC"
		kind:    model.DateKindBCERange,
		pattern: regexp.MustCompile(`(?i)\b(?P<start>\d{3,4})\s*(?:-|–|—)\s*(?P<end>\d{3,4})\s*` + bceMarker),
		parse:   parseBCERange,
	},
	{
		// "2500 BCE"
		kind:    model.DateKindBCEYear,
		pattern: regexp.MustCompile(`(?i)\b(?P<year>\d{3,4})\s*` + bceMarker),
		single:  true,
		parse:   parseBCEYear,
	},
	{
		// "summer 2005", "excavated in 1999", "field season 2014"
		kind: model.DateKindContextualYear,
		pattern: regexp.MustCompile(`(?i)\b(?:summer|winter|spring|fall|autumn|field\s+season|excavated|surveyed|dated)\s+(?:in\s+)?(?P<year>` +
			modernYear + `)\b`),
		single: true,
		parse:  parseModernYear,
	},
	{
		// "2004"
		kind:    model.DateKindYear,
		pattern: regexp.MustCompile(`\b(?P<year>` + modernYear + `)\b`),
		single:  true,
		parse:   parseBareYear,
	},
}

// Dates extracts years and year ranges from text on a signed year axis
// (BCE negative). Every record satisfies StartYear <= EndYear.
//
// A single year is dropped when it falls inside any record collected so far,
// or when its text lies inside a span already matched by an earlier family
// (the "1900" of "2500-1900 BCE" is not a CE year).
func (e *Extractor) Dates(text string) []model.DateRange {
	results := make([]model.DateRange, 0)
	seenRanges := make(map[[2]int]bool)
	var claimed []span

	for _, family := range dateFamilies {
		var matched []span

		for _, loc := range family.pattern.FindAllStringSubmatchIndex(text, -1) {
			c, ok := family.parse(family.pattern, text, loc)
			if !ok {
				continue
			}
			at := span{start: loc[0], end: loc[1]}
			matched = append(matched, at)

			if family.single {
				if subsumed(results, c.start) || overlapsAny(claimed, at) {
					continue
				}
			} else {
				key := [2]int{c.start, c.end}
				if seenRanges[key] {
					continue
				}
				seenRanges[key] = true
			}

			context := snippet(text, loc[0], loc[1], e.window)
			results = append(results, model.DateRange{
				Label:     c.label,
				StartYear: c.start,
				EndYear:   c.end,
				Context:   context,
				SiteName:  InferSiteName(context),
				Kind:      family.kind,
			})
		}

		claimed = append(claimed, matched...)
	}

	e.log.Debug("extracted dates", "count", len(results))
	return results
}

// subsumed reports whether year falls inside any collected record
func subsumed(results []model.DateRange, year int) bool {
	for _, r := range results {
		if r.Contains(year) {
			return true
		}
	}
	return false
}

func overlapsAny(spans []span, s span) bool {
	for _, o := range spans {
		if o.overlaps(s) {
			return true
		}
	}
	return false
}

func parseCERange(re *regexp.Regexp, text string, loc []int) (dateCandidate, bool) {
	// "2000-1900 BCE" belongs to the BCE range family
	if bceSuffixPattern.MatchString(text[loc[1]:]) {
		return dateCandidate{}, false
	}

	start, err1 := strconv.Atoi(group(re, text, loc, "start"))
	end, err2 := strconv.Atoi(group(re, text, loc, "end"))
	if err1 != nil || err2 != nil {
		return dateCandidate{}, false
	}
	if start > end {
		start, end = end, start
	}

	return dateCandidate{
		label: fmt.Sprintf("%d-%d", start, end),
		start: start,
		end:   end,
	}, true
}

func parseBCERange(re *regexp.Regexp, text string, loc []int) (dateCandidate, bool) {
	earlier, err1 := strconv.Atoi(group(re, text, loc, "start"))
	later, err2 := strconv.Atoi(group(re, text, loc, "end"))
	if err1 != nil || err2 != nil {
		return dateCandidate{}, false
	}
	// The larger BCE number is the earlier year
	if earlier < later {
		earlier, later = later, earlier
	}

	return dateCandidate{
		label: fmt.Sprintf("%d–%d BCE", earlier, later),
		start: -earlier,
		end:   -later,
	}, true
}

func parseBCEYear(re *regexp.Regexp, text string, loc []int) (dateCandidate, bool) {
	year, err := strconv.Atoi(group(re, text, loc, "year"))
	if err != nil {
		return dateCandidate{}, false
	}
	return dateCandidate{
		label: fmt.Sprintf("%d BCE", year),
		start: -year,
		end:   -year,
	}, true
}

func parseModernYear(re *regexp.Regexp, text string, loc []int) (dateCandidate, bool) {
	year, err := strconv.Atoi(group(re, text, loc, "year"))
	if err != nil {
		return dateCandidate{}, false
	}
	return dateCandidate{
		label: strconv.Itoa(year),
		start: year,
		end:   year,
	}, true
}

// parseBareYear rejects years sitting next to UTM references or long digit
// runs, which are usually parts of grid coordinates. This is a heuristic: it
// can both miss real years and let coordinate fragments through.
func parseBareYear(re *regexp.Regexp, text string, loc []int) (dateCandidate, bool) {
	from := max(0, loc[0]-5)
	to := min(len(text), loc[1]+5)
	if yearNeighbourGuard.MatchString(text[from:to]) {
		return dateCandidate{}, false
	}
	return parseModernYear(re, text, loc)
}
