package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ppiankov/strata/internal/model"
)

var csvHeader = []string{"record", "site", "latitude", "longitude", "label", "start_year", "end_year", "kind", "context"}

// WriteCSV writes every record as one row of a flat table. Columns that do
// not apply to a record type are left empty.
func WriteCSV(w io.Writer, report *model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	rows := make([][]string, 0, len(report.Coordinates)+len(report.Dates)+len(report.Sites))
	for _, c := range report.Coordinates {
		rows = append(rows, []string{
			"coordinate", c.SiteName,
			strconv.FormatFloat(c.Latitude, 'f', -1, 64),
			strconv.FormatFloat(c.Longitude, 'f', -1, 64),
			"", "", "", string(c.Format), c.Context,
		})
	}
	for _, d := range report.Dates {
		rows = append(rows, []string{
			"date", d.SiteName, "", "", d.Label,
			strconv.Itoa(d.StartYear), strconv.Itoa(d.EndYear),
			string(d.Kind), d.Context,
		})
	}
	for _, s := range report.Sites {
		rows = append(rows, []string{"site", s.SiteName, "", "", "", "", "", string(s.SiteType), s.Context})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
