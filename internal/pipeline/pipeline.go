package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/strata/internal/cache"
	"github.com/ppiankov/strata/internal/extract"
	"github.com/ppiankov/strata/internal/llm"
	"github.com/ppiankov/strata/internal/model"
	"github.com/ppiankov/strata/internal/render"
	"github.com/ppiankov/strata/internal/score"
	"github.com/ppiankov/strata/internal/source"
)

// ErrNoDocument is returned when there is no document to extract from
var ErrNoDocument = errors.New("no document")

// Pipeline orchestrates the complete extraction process
type Pipeline struct {
	loader     *source.Loader
	extractor  *extract.Extractor
	scorer     *score.Scorer
	cache      *cache.ReportCache // nil when caching is disabled
	summarizer *llm.Summarizer    // nil when the LLM provider failed to initialize
	renderer   *render.Renderer
	config     *model.Config
	log        *slog.Logger
	progress   io.Writer
	now        func() time.Time
}

// Outputs lists where RenderReport writes each format; empty paths are skipped
type Outputs struct {
	JSON     string
	Markdown string
	GeoJSON  string
	XLSX     string
	CSV      string
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, log *slog.Logger) *Pipeline {
	var reports *cache.ReportCache
	if cfg.Cache.Enabled {
		reports = cache.NewReportCache(cache.NewLayeredCache(cfg.Cache))
	}

	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg), log)
	if err != nil {
		// A broken LLM setup never blocks extraction
		log.Warn("LLM provider disabled", "error", err)
	}

	return &Pipeline{
		loader:     source.NewLoader(source.NewFetcher(cfg.Source, log), cfg.Source.MaxBodyBytes, log),
		extractor:  extract.NewExtractor(extract.WithContextWindow(cfg.Extraction.ContextWindow), extract.WithLogger(log)),
		scorer:     score.NewScorer(),
		cache:      reports,
		summarizer: summarizer,
		renderer:   render.NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
		log:        log,
		progress:   os.Stderr,
		now:        time.Now,
	}
}

// WithStdin replaces the reader used for the "-" reference
func (p *Pipeline) WithStdin(r io.Reader) *Pipeline {
	p.loader.WithStdin(r)
	return p
}

// WithOutput redirects progress lines and "-" outputs
func (p *Pipeline) WithOutput(stdout, progress io.Writer) *Pipeline {
	p.renderer.WithStdout(stdout)
	p.progress = progress
	return p
}

// WithClock replaces the clock used for timestamps and plausibility checks
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	p.scorer.WithClock(now)
	return p
}

// Process loads ref (file, URL or "-") and extracts a report from it
func (p *Pipeline) Process(ctx context.Context, ref string) (*model.Report, error) {
	doc, err := p.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	return p.ProcessText(ctx, doc)
}

// ProcessText runs the extractors over a loaded document, scores the records
// and attaches the optional LLM summary
func (p *Pipeline) ProcessText(ctx context.Context, doc *source.Document) (*model.Report, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	window := p.extractor.ContextWindow()
	key := cache.Key(doc.Text, window)

	report, cached := p.lookup(key)
	if !cached {
		var err error
		report, err = p.extract(ctx, doc.Text)
		if err != nil {
			return nil, err
		}
		report.ContextWindow = window
		report.TextChars = utf8.RuneCountInString(doc.Text)
		report.Language = source.DetectLanguage(doc.Text)
		report.Score = p.scorer.Calculate(report.Coordinates, report.Dates, report.Sites)

		if p.cache != nil {
			if err := p.cache.Put(key, report); err != nil {
				p.log.Warn("cache write failed", "error", err)
			}
		}
	}

	report.ID = uuid.NewString()
	report.Subject = doc.Subject
	report.Source = doc.Ref
	if doc.FinalURL != "" {
		report.Source = doc.FinalURL
	}
	report.ExtractedAt = p.now().UTC()

	if report.Language != "" && report.Language != "en" {
		p.log.Warn("document is not in English, patterns may miss records",
			"subject", report.Subject, "language", report.Language)
	}

	// The summary runs after scoring and never affects records or score
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			p.log.Warn("LLM summary generation failed", "error", err)
		} else {
			report.LLM = summary
		}
	}

	p.log.Debug("document extracted",
		"subject", report.Subject,
		"coordinates", len(report.Coordinates),
		"dates", len(report.Dates),
		"sites", len(report.Sites),
		"cached", cached)
	return report, nil
}

func (p *Pipeline) lookup(key string) (*model.Report, bool) {
	if p.cache == nil {
		return nil, false
	}
	report, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	report.LLM = nil
	return report, true
}

// extract runs the three extractors concurrently on the same text
func (p *Pipeline) extract(ctx context.Context, text string) (*model.Report, error) {
	report := &model.Report{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Coordinates = p.extractor.Coordinates(text)
		return ctx.Err()
	})
	g.Go(func() error {
		report.Dates = p.extractor.Dates(text)
		return ctx.Err()
	})
	g.Go(func() error {
		report.Sites = p.extractor.Sites(text)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	// Empty lists encode as [] rather than null
	if report.Coordinates == nil {
		report.Coordinates = []model.Coordinate{}
	}
	if report.Dates == nil {
		report.Dates = []model.DateRange{}
	}
	if report.Sites == nil {
		report.Sites = []model.Site{}
	}
	return report, nil
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, out Outputs) error {
	verbose := p.config.Output.Verbose

	if out.JSON != "" {
		if err := p.renderer.RenderJSON(report, out.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.wrote(verbose, "JSON", out.JSON)
	}

	if out.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, out.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.wrote(verbose, "Markdown", out.Markdown)

		// The narrative also goes to its own file next to the report
		if out.Markdown != render.Stdout && report.LLM != nil && report.LLM.Enabled {
			llmPath := strings.TrimSuffix(out.Markdown, ".md") + ".llm.md"
			if err := p.renderer.RenderLLMMarkdown(report, llmPath); err != nil {
				p.log.Warn("failed to write LLM summary", "path", llmPath, "error", err)
			} else {
				p.wrote(verbose, "LLM Summary", llmPath)
			}
		}
	}

	if out.GeoJSON != "" {
		if err := p.renderer.RenderGeoJSON(report, out.GeoJSON); err != nil {
			return fmt.Errorf("render GeoJSON: %w", err)
		}
		p.wrote(verbose, "GeoJSON", out.GeoJSON)
	}

	if out.XLSX != "" {
		if err := p.renderer.RenderXLSX(report, out.XLSX); err != nil {
			return fmt.Errorf("render XLSX: %w", err)
		}
		p.wrote(verbose, "XLSX", out.XLSX)
	}

	if out.CSV != "" {
		if err := p.renderer.RenderCSV(report, out.CSV); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		p.wrote(verbose, "CSV", out.CSV)
	}

	render.WriteSummary(p.progress, report)
	return nil
}

func (p *Pipeline) wrote(verbose bool, format, path string) {
	if verbose && path != render.Stdout {
		_, _ = fmt.Fprintf(p.progress, "✓ Wrote %s: %s\n", format, path)
	}
}
