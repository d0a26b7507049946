package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/strata/internal/logging"
	"github.com/ppiankov/strata/internal/pipeline"
	"github.com/ppiankov/strata/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	formats      []string
	batchTimeout time.Duration
)

var knownFormats = map[string]string{
	"json":    ".json",
	"md":      ".md",
	"geojson": ".geojson",
	"xlsx":    ".xlsx",
	"csv":     ".csv",
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Extract records from many documents in parallel",
	Long: `Batch processes a list of documents concurrently:
- Read document references from the list file (one per line, # comments)
- Relative paths are resolved against the list file's directory
- Process documents in parallel with a configurable worker count
- Write one report per document, named after the document

Example:
  strata batch documents.txt
  strata batch documents.txt --concurrency 8 --output-dir ./reports
  strata batch documents.txt --formats json,md,geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./strata-reports", "output directory for reports")
	batchCmd.Flags().StringSliceVar(&formats, "formats", []string{"json", "md"}, "report formats to write (json, md, geojson, xlsx, csv)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	addCommonFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg := loadConfig(viper.GetViper())
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	for _, f := range formats {
		if _, ok := knownFormats[f]; !ok {
			return fmt.Errorf("unknown format %q (supported: json, md, geojson, xlsx, csv)", f)
		}
	}

	ctx, cancel := commandContext(cmd.Context(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(stderr, "\n")
	_, _ = fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(stderr, "  Strata Batch Extraction\n")
	_, _ = fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(stderr, "\n")
	_, _ = fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	_, _ = fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	_, _ = fmt.Fprintf(stderr, "  Output dir:   %s\n", outputDir)
	_, _ = fmt.Fprintf(stderr, "  Formats:      %s\n", strings.Join(formats, ", "))
	_, _ = fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		_, _ = fmt.Fprintf(stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	_, _ = fmt.Fprintf(stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	log := logging.New(cfg.Output.Verbose, stderr)
	p := pipeline.NewPipeline(cfg, log).WithOutput(io.Discard, io.Discard)

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).OnResult(func(r *worker.DocumentResult) {
		if r.Error != nil {
			_, _ = fmt.Fprintf(stderr, "✗ %s: %v\n", r.Ref, r.Error)
			return
		}
		_, _ = fmt.Fprintf(stderr, "✓ %s (readiness: %d/100)\n", r.Report.Subject, r.Report.Score.Index)
	})

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	written := make(map[string]int)
	writeFailures := 0
	for _, result := range results {
		if result.Error != nil {
			continue
		}
		slug := uniqueSlug(written, sanitizeFilename(result.Report.Subject))
		if err := p.RenderReport(result.Report, batchOutputs(outputDir, slug, formats)); err != nil {
			writeFailures++
			_, _ = fmt.Fprintf(stderr, "✗ %s: %v\n", result.Ref, err)
		}
	}

	succeeded, failed := worker.Counts(results)

	_, _ = fmt.Fprintf(stderr, "\n")
	_, _ = fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(stderr, "  Batch Complete\n")
	_, _ = fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(stderr, "\n")
	_, _ = fmt.Fprintf(stderr, "  Total:     %d documents\n", len(results))
	_, _ = fmt.Fprintf(stderr, "  Success:   %d\n", succeeded-writeFailures)
	_, _ = fmt.Fprintf(stderr, "  Failures:  %d\n", failed+writeFailures)
	_, _ = fmt.Fprintf(stderr, "  Output:    %s\n", outputDir)
	_, _ = fmt.Fprintf(stderr, "\n")

	if len(results) > 0 && succeeded == 0 {
		return fmt.Errorf("all %d documents failed", len(results))
	}
	return nil
}

func batchOutputs(dir, slug string, formats []string) pipeline.Outputs {
	var out pipeline.Outputs
	for _, f := range formats {
		path := filepath.Join(dir, slug+knownFormats[f])
		switch f {
		case "json":
			out.JSON = path
		case "md":
			out.Markdown = path
		case "geojson":
			out.GeoJSON = path
		case "xlsx":
			out.XLSX = path
		case "csv":
			out.CSV = path
		}
	}
	return out
}

// uniqueSlug appends -2, -3, ... when two documents share a subject
func uniqueSlug(seen map[string]int, slug string) string {
	seen[slug]++
	if n := seen[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}

// sanitizeFilename turns a report subject into a portable file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")

	// Limit length without splitting a multi-byte character
	if len(s) > 100 {
		s = s[:100]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}

	if s == "" {
		return "document"
	}
	return s
}
