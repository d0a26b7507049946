package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/strata/internal/model"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string            `json:"type"`
	Geometry   point             `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // longitude, latitude
}

type featureProperties struct {
	SiteName string   `json:"site_name,omitempty"`
	Format   string   `json:"format"`
	Context  string   `json:"context"`
	Dates    []string `json:"dates,omitempty"` // labels of dates linked to the same site
	Document string   `json:"document"`
}

// WriteGeoJSON writes one Point feature per coordinate. Dates inferred for the
// same site are attached so a map layer can be filtered by period.
func WriteGeoJSON(w io.Writer, report *model.Report) error {
	datesBySite := make(map[string][]string)
	for _, d := range report.Dates {
		if d.SiteName != "" {
			datesBySite[d.SiteName] = append(datesBySite[d.SiteName], d.Label)
		}
	}

	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]feature, 0, len(report.Coordinates)),
	}
	for _, c := range report.Coordinates {
		props := featureProperties{
			SiteName: c.SiteName,
			Format:   string(c.Format),
			Context:  c.Context,
			Document: report.Subject,
		}
		if c.SiteName != "" {
			props.Dates = datesBySite[c.SiteName]
		}

		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: point{
				Type:        "Point",
				Coordinates: [2]float64{c.Longitude, c.Latitude},
			},
			Properties: props,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	return nil
}
