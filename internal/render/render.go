package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/strata/internal/model"
)

// Stdout is the output path that writes to standard output
const Stdout = "-"

// Renderer writes reports in the supported output formats
type Renderer struct {
	includeFooter bool
	stdout        io.Writer
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		stdout:        os.Stdout,
	}
}

// WithStdout redirects the "-" output path
func (r *Renderer) WithStdout(w io.Writer) *Renderer {
	r.stdout = w
	return r
}

// RenderJSON writes the report as indented JSON to path ("-" for stdout)
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return r.toPath(path, func(w io.Writer) error {
		return WriteJSON(w, report)
	})
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return r.toPath(path, func(w io.Writer) error {
		return WriteMarkdown(w, report, r.includeFooter)
	})
}

// RenderGeoJSON writes the coordinates as a GeoJSON FeatureCollection to path
func (r *Renderer) RenderGeoJSON(report *model.Report, path string) error {
	return r.toPath(path, func(w io.Writer) error {
		return WriteGeoJSON(w, report)
	})
}

// RenderXLSX writes the records as an Excel workbook to path
func (r *Renderer) RenderXLSX(report *model.Report, path string) error {
	return r.toPath(path, func(w io.Writer) error {
		return WriteXLSX(w, report)
	})
}

// RenderCSV writes every record as a flat CSV table to path
func (r *Renderer) RenderCSV(report *model.Report, path string) error {
	return r.toPath(path, func(w io.Writer) error {
		return WriteCSV(w, report)
	})
}

// RenderLLMMarkdown writes the LLM narrative to its own Markdown file
func (r *Renderer) RenderLLMMarkdown(report *model.Report, path string) error {
	if report.LLM == nil || !report.LLM.Enabled {
		return nil
	}
	return r.toPath(path, func(w io.Writer) error {
		return WriteLLMMarkdown(w, report)
	})
}

// WriteJSON encodes the report as indented JSON
func WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (r *Renderer) toPath(path string, write func(io.Writer) error) (err error) {
	if path == Stdout {
		return write(r.stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}
