package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/strata/internal/logging"
	"github.com/ppiankov/strata/internal/pipeline"
	"github.com/ppiankov/strata/internal/render"
)

var (
	outJSON        string
	outMD          string
	outGeoJSON     string
	outXLSX        string
	outCSV         string
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|url|->",
	Short: "Extract coordinates, dates and sites from one document",
	Long: `Extract reads one document (a text or HTML file, an http(s) URL, or "-"
for standard input) and reports:
- Coordinates in decimal, hemisphere and degree-minute-second notation
- Years and year ranges, CE and BCE
- Site, trench, locus and mound references
- A mapping readiness index showing how much of it can go on a map

Without output flags the JSON report is written to standard output.

Example:
  strata extract survey.txt
  strata extract survey.html --md report.md --geojson sites.geojson
  strata extract https://example.org/report.html --xlsx records.xlsx
  cat notes.txt | strata extract - --window 60
  strata extract survey.txt --llm --llm-provider ollama --llm-model llama3.1`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output flags
	extractCmd.Flags().StringVar(&outJSON, "json", "", `output JSON path ("-" for stdout)`)
	extractCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	extractCmd.Flags().StringVar(&outGeoJSON, "geojson", "", "output GeoJSON path")
	extractCmd.Flags().StringVar(&outXLSX, "xlsx", "", "output Excel workbook path")
	extractCmd.Flags().StringVar(&outCSV, "csv", "", `output CSV path ("-" for stdout)`)

	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "overall timeout including fetching and LLM summary")

	addCommonFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ref := args[0]

	cfg := loadConfig(viper.GetViper())
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	out := pipeline.Outputs{JSON: outJSON, Markdown: outMD, GeoJSON: outGeoJSON, XLSX: outXLSX, CSV: outCSV}
	if out == (pipeline.Outputs{}) {
		out.JSON = render.Stdout
	}

	ctx, cancel := commandContext(cmd.Context(), extractTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	if cfg.Output.Verbose {
		_, _ = fmt.Fprintf(stderr, "Extracting: %s\n", ref)
		_, _ = fmt.Fprintf(stderr, "Context window: %d\n", cfg.Extraction.ContextWindow)
		_, _ = fmt.Fprintf(stderr, "Cache: %v\n", cfg.Cache.Enabled)
		if cfg.LLM.Provider != "" {
			_, _ = fmt.Fprintf(stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		_, _ = fmt.Fprintln(stderr)
	}

	if ref == "-" && cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
		_, _ = fmt.Fprintln(stderr, "Reading document from standard input (Ctrl-D to finish)...")
	}

	log := logging.New(cfg.Output.Verbose, stderr)
	p := pipeline.NewPipeline(cfg, log).
		WithStdin(cmd.InOrStdin()).
		WithOutput(cmd.OutOrStdout(), stderr)

	report, err := p.Process(ctx, ref)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if cfg.Output.Verbose {
		_, _ = fmt.Fprintf(stderr, "✓ Extracted %d coordinates\n", len(report.Coordinates))
		_, _ = fmt.Fprintf(stderr, "✓ Extracted %d dates\n", len(report.Dates))
		_, _ = fmt.Fprintf(stderr, "✓ Extracted %d site references\n", len(report.Sites))
		if report.LLM != nil && report.LLM.Enabled {
			_, _ = fmt.Fprintf(stderr, "✓ Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
	}

	if err := p.RenderReport(report, out); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// stdinIsTerminal reports whether "-" would block waiting for keyboard input
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
