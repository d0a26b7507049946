package score

import (
	"fmt"
	"math"
	"time"

	"github.com/ppiankov/strata/internal/model"
)

const (
	futureYearPenalty = 5
	nullIslandEpsilon = 1e-6
)

// Scorer calculates the mapping readiness index and generates signals.
// The index says how much of a report can go straight onto a map and a
// timeline; it never alters the records it looks at.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// WithClock fixes the clock used for the future-year check
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Calculate calculates the readiness score and generates diagnostic signals
func (s *Scorer) Calculate(coords []model.Coordinate, dates []model.DateRange, sites []model.Site) model.Score {
	signals := make([]model.Signal, 0, 6)

	nullIsland := countNullIsland(coords)
	mappable := len(coords) - nullIsland

	// 1. Coordinate coverage (0-40 points)
	coverageScore, coverageSignal := s.coordinateCoverage(mappable, len(sites))
	signals = append(signals, coverageSignal)

	// 2. Site linkage (0-30 points)
	linkageScore, linkageSignal := s.siteLinkage(coords, dates)
	signals = append(signals, linkageSignal)

	// 3. Timeline coverage (0-20 points)
	timelineScore, timelineSignal := s.timelineCoverage(dates)
	signals = append(signals, timelineSignal)

	// 4. Site references (0-10 points)
	refScore, refSignal := s.siteReferences(sites)
	signals = append(signals, refSignal)

	// Plausibility signals
	if nullIsland > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalNullIsland,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d coordinate(s) at 0,0 excluded from mapping", nullIsland),
			Data:        map[string]interface{}{"count": nullIsland},
		})
	}

	future := s.futureYears(dates)
	if len(future) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalFutureYear,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d date(s) end after %d", len(future), s.now().Year()),
			Data: map[string]interface{}{
				"labels":  future,
				"penalty": futureYearPenalty,
			},
		})
	}

	if signal, ok := bareYearHeavy(dates); ok {
		signals = append(signals, signal)
	}

	total := coverageScore + linkageScore + timelineScore + refScore
	if len(future) > 0 {
		total -= futureYearPenalty
	}
	total = clamp(total, 0, 100)

	return model.Score{
		Index:      total,
		Confidence: determineConfidence(total, len(coords)+len(dates)+len(sites)),
		Signals:    signals,
	}
}

// coordinateCoverage scores mappable coordinates against named sites (0-40 points)
func (s *Scorer) coordinateCoverage(mappable, siteCount int) (int, model.Signal) {
	if mappable == 0 {
		return 0, model.Signal{
			Type:        model.SignalCoordinateCoverage,
			Severity:    model.SeverityCritical,
			Description: "No mappable coordinates extracted",
			Data: map[string]interface{}{
				"coordinates": 0,
				"sites":       siteCount,
			},
		}
	}

	ratio := float64(mappable) / float64(max(siteCount, 1))
	score := int(math.Min(ratio*40, 40))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCoordinateCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("%d mappable coordinate(s) for %d site reference(s)", mappable, siteCount),
		Data: map[string]interface{}{
			"coordinates": mappable,
			"sites":       siteCount,
			"ratio":       ratio,
			"score":       score,
			"formula":     "min(coordinates / max(sites, 1) * 40, 40)",
		},
	}
}

// siteLinkage scores the share of coordinates and dates with an inferred site (0-30 points)
func (s *Scorer) siteLinkage(coords []model.Coordinate, dates []model.DateRange) (int, model.Signal) {
	total := len(coords) + len(dates)
	if total == 0 {
		return 0, model.Signal{
			Type:        model.SignalSiteLinkage,
			Severity:    model.SeverityWarning,
			Description: "No coordinates or dates to link to sites",
			Data:        map[string]interface{}{"records": 0},
		}
	}

	linked := 0
	for _, c := range coords {
		if c.SiteName != "" {
			linked++
		}
	}
	for _, d := range dates {
		if d.SiteName != "" {
			linked++
		}
	}

	ratio := float64(linked) / float64(total)
	score := int(ratio * 30)

	severity := model.SeverityInfo
	if ratio < 0.25 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalSiteLinkage,
		Severity:    severity,
		Description: fmt.Sprintf("Site linkage: %d/%d records (%.0f%%)", linked, total, ratio*100),
		Data: map[string]interface{}{
			"linked":  linked,
			"records": total,
			"ratio":   ratio,
			"score":   score,
			"formula": "(linked / records) * 30",
		},
	}
}

// timelineCoverage scores dated records, bare years at half weight (0-20 points)
func (s *Scorer) timelineCoverage(dates []model.DateRange) (int, model.Signal) {
	if len(dates) == 0 {
		return 0, model.Signal{
			Type:        model.SignalTimelineCoverage,
			Severity:    model.SeverityWarning,
			Description: "No dates extracted",
			Data:        map[string]interface{}{"dates": 0},
		}
	}

	var ranges, bce, bare int
	weighted := 0.0
	for _, d := range dates {
		switch d.Kind {
		case model.DateKindYear:
			bare++
			weighted += 0.5
		case model.DateKindBCERange, model.DateKindBCEYear:
			bce++
			weighted++
		default:
			weighted++
		}
		if !d.IsSingleYear() {
			ranges++
		}
	}
	score := int(math.Min(weighted*5, 20))

	return score, model.Signal{
		Type:        model.SignalTimelineCoverage,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d date(s): %d range(s), %d BCE, %d bare year(s)", len(dates), ranges, bce, bare),
		Data: map[string]interface{}{
			"dates":    len(dates),
			"ranges":   ranges,
			"bce":      bce,
			"bare":     bare,
			"weighted": weighted,
			"score":    score,
			"formula":  "min((dates - bare/2) * 5, 20)",
		},
	}
}

// siteReferences scores distinct site, trench, locus and mound references (0-10 points)
func (s *Scorer) siteReferences(sites []model.Site) (int, model.Signal) {
	byType := make(map[string]int)
	for _, site := range sites {
		byType[string(site.SiteType)]++
	}
	score := min(len(sites)*2, 10)

	severity := model.SeverityInfo
	description := fmt.Sprintf("%d site reference(s)", len(sites))
	if len(sites) == 0 {
		severity = model.SeverityWarning
		description = "No site references found"
	}

	return score, model.Signal{
		Type:        model.SignalSiteReferences,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"sites":   len(sites),
			"by_type": byType,
			"score":   score,
			"formula": "min(sites * 2, 10)",
		},
	}
}

func (s *Scorer) futureYears(dates []model.DateRange) []string {
	year := s.now().Year()
	var labels []string
	for _, d := range dates {
		if d.EndYear > year {
			labels = append(labels, d.Label)
		}
	}
	return labels
}

// bareYearHeavy flags timelines where most dates are years with no cue
// that they date anything archaeological
func bareYearHeavy(dates []model.DateRange) (model.Signal, bool) {
	if len(dates) < 3 {
		return model.Signal{}, false
	}

	bare := 0
	for _, d := range dates {
		if d.Kind == model.DateKindYear {
			bare++
		}
	}
	share := float64(bare) / float64(len(dates))
	if share <= 0.5 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalBareYearHeavy,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d of %d dates are bare years (publication or citation years?)", bare, len(dates)),
		Data: map[string]interface{}{
			"bare":  bare,
			"dates": len(dates),
			"share": share,
		},
	}, true
}

func countNullIsland(coords []model.Coordinate) int {
	n := 0
	for _, c := range coords {
		if math.Abs(c.Latitude) < nullIslandEpsilon && math.Abs(c.Longitude) < nullIslandEpsilon {
			n++
		}
	}
	return n
}

// determineConfidence determines the confidence level based on the score
func determineConfidence(score int, records int) string {
	if records < 3 {
		return "low"
	}

	switch {
	case score >= 70:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
