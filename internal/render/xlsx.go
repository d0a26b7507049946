package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/strata/internal/model"
)

const (
	sheetCoordinates = "Coordinates"
	sheetDates       = "Dates"
	sheetSites       = "Sites"
	sheetSummary     = "Summary"
)

// WriteXLSX writes a workbook with one sheet per record type plus a summary
func WriteXLSX(w io.Writer, report *model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	summary := [][]any{
		{"Document", report.Subject},
		{"Source", report.Source},
		{"Extracted at", report.ExtractedAt.Format("2006-01-02 15:04:05 MST")},
		{"Language", report.Language},
		{"Coordinates", len(report.Coordinates)},
		{"Dates", len(report.Dates)},
		{"Sites", len(report.Sites)},
		{"Readiness index", report.Score.Index},
		{"Confidence", report.Score.Confidence},
	}
	if err := writeRows(f, sheetSummary, nil, summary, header); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 18)
	_ = f.SetColWidth(sheetSummary, "B", "B", 60)

	coordRows := make([][]any, 0, len(report.Coordinates))
	for _, c := range report.Coordinates {
		coordRows = append(coordRows, []any{c.Latitude, c.Longitude, c.SiteName, string(c.Format), c.Context})
	}
	if err := addSheet(f, sheetCoordinates,
		[]string{"Latitude", "Longitude", "Site", "Format", "Context"}, coordRows, header); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetCoordinates, "A", "B", 12)
	_ = f.SetColWidth(sheetCoordinates, "C", "C", 28)
	_ = f.SetColWidth(sheetCoordinates, "E", "E", 80)

	dateRows := make([][]any, 0, len(report.Dates))
	for _, d := range report.Dates {
		dateRows = append(dateRows, []any{d.Label, d.StartYear, d.EndYear, string(d.Kind), d.SiteName, d.Context})
	}
	if err := addSheet(f, sheetDates,
		[]string{"Label", "Start", "End", "Kind", "Site", "Context"}, dateRows, header); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetDates, "A", "A", 16)
	_ = f.SetColWidth(sheetDates, "E", "E", 28)
	_ = f.SetColWidth(sheetDates, "F", "F", 80)

	siteRows := make([][]any, 0, len(report.Sites))
	for _, s := range report.Sites {
		siteRows = append(siteRows, []any{s.SiteName, string(s.SiteType), s.Context})
	}
	if err := addSheet(f, sheetSites,
		[]string{"Site", "Type", "Context"}, siteRows, header); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetSites, "A", "A", 28)
	_ = f.SetColWidth(sheetSites, "C", "C", 80)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return writeRows(f, sheet, headers, rows, headerStyle)
}

// writeRows writes an optional bold header row followed by rows
func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	row := 1
	if len(headers) > 0 {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fmt.Errorf("%s: %w", sheet, err)
			}
		}
		if err := f.SetRowStyle(sheet, row, row, headerStyle); err != nil {
			return fmt.Errorf("%s: %w", sheet, err)
		}
		row++
	}

	for _, values := range rows {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s: %w", sheet, err)
			}
		}
		row++
	}
	return nil
}
