package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/ppiankov/strata/internal/extract"
	"github.com/ppiankov/strata/internal/model"
)

// coordinateTolerance is how far (in degrees) a coordinate quoted in a summary
// may drift from an extracted one and still count as the same point; models
// round to 4 decimals routinely.
const coordinateTolerance = 1e-3

// Summarizer produces the optional narrative and checks it against the records
type Summarizer struct {
	provider  Provider
	config    Config
	extractor *extract.Extractor
	log       *slog.Logger
}

// NewSummarizer creates a summarizer. With no provider configured the
// summarizer is disabled and GenerateSummary returns nil.
func NewSummarizer(config Config, log *slog.Logger) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider:  provider,
		config:    config,
		extractor: extract.NewExtractor(extract.WithLogger(log)),
		log:       log,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, empty when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary asks the provider for a narrative of the report. Provider
// failures never fail extraction: they come back as warnings on the summary.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider: s.provider.Name(),
		Model:    s.config.Model,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available, summary skipped", s.provider.Name()))
		return summary, nil
	}
	summary.Enabled = true

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, s.unverifiedCoordinates(resp.Summary, report.Coordinates)...)

	s.log.Debug("llm summary generated", "provider", summary.Provider, "model", summary.Model, "tokens", resp.TokensUsed)
	return summary, nil
}

// unverifiedCoordinates runs the coordinate extractor over the summary and
// reports every point that is not among the extracted records
func (s *Summarizer) unverifiedCoordinates(text string, extracted []model.Coordinate) []string {
	var warnings []string
	for _, c := range s.extractor.Coordinates(text) {
		if !hasCoordinate(extracted, c) {
			warnings = append(warnings, fmt.Sprintf(
				"summary mentions %.6f, %.6f which was not extracted from the document", c.Latitude, c.Longitude))
		}
	}
	return warnings
}

func hasCoordinate(coords []model.Coordinate, c model.Coordinate) bool {
	for _, e := range coords {
		if math.Abs(e.Latitude-c.Latitude) <= coordinateTolerance &&
			math.Abs(e.Longitude-c.Longitude) <= coordinateTolerance {
			return true
		}
	}
	return false
}
