package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/strata/internal/extract"
	"github.com/ppiankov/strata/internal/logging"
	"github.com/ppiankov/strata/internal/model"
)

// MockProvider is a test double for LLM providers
type MockProvider struct {
	available bool
	summary   string
	err       error
	requests  []SummarizeRequest
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) IsAvailable(ctx context.Context) bool { return m.available }

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &SummarizeResponse{Summary: m.summary, Model: "mock-1", TokensUsed: 42}, nil
}

func newMockSummarizer(p *MockProvider) *Summarizer {
	return &Summarizer{
		provider:  p,
		config:    Config{Provider: "mock", Model: "mock-default", MaxTokens: 300},
		extractor: extract.NewExtractor(extract.WithLogger(logging.Discard())),
		log:       logging.Discard(),
	}
}

func sampleReport() model.Report {
	return model.Report{
		Subject: "Mohenjo-daro survey",
		Coordinates: []model.Coordinate{
			{Latitude: 27.325, Longitude: 68.138, SiteName: "Site 3: Mohenjo-daro", Format: model.FormatDecimalHemisphere},
		},
		Dates: []model.DateRange{
			{Label: "2500–1900 BCE", StartYear: -2500, EndYear: -1900, Kind: model.DateKindBCERange},
		},
		Sites: []model.Site{{SiteName: "Site 3: Mohenjo-daro", SiteType: model.SiteTypeSite}},
	}
}

func TestNewSummarizer_Disabled(t *testing.T) {
	s, err := NewSummarizer(Config{}, logging.Discard())
	require.NoError(t, err)
	assert.False(t, s.IsEnabled())
	assert.Empty(t, s.ProviderName())

	summary, err := s.GenerateSummary(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	_, err := NewSummarizer(Config{Provider: "gemini"}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestNewSummarizer_OpenAIWithoutKey(t *testing.T) {
	_, err := NewSummarizer(Config{Provider: "openai"}, logging.Discard())
	require.Error(t, err)
}

func TestGenerateSummary_Unavailable(t *testing.T) {
	provider := &MockProvider{available: false}
	summary, err := newMockSummarizer(provider).GenerateSummary(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.False(t, summary.Enabled)
	assert.Empty(t, provider.requests)
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "not available")
}

func TestGenerateSummary_ProviderError(t *testing.T) {
	provider := &MockProvider{available: true, err: errors.New("rate limited")}
	summary, err := newMockSummarizer(provider).GenerateSummary(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.True(t, summary.Enabled)
	assert.Empty(t, summary.SummaryMD)
	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, "LLM summary generation failed: rate limited", summary.Warnings[0])
}

func TestGenerateSummary_Success(t *testing.T) {
	provider := &MockProvider{
		available: true,
		summary:   "Site 3 lies at 27.3250° N, 68.1380° E and was occupied 2500–1900 BCE.",
	}
	summary, err := newMockSummarizer(provider).GenerateSummary(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.True(t, summary.Enabled)
	assert.Equal(t, "mock", summary.Provider)
	assert.Equal(t, "mock-1", summary.Model)
	assert.Equal(t, provider.summary, summary.SummaryMD)
	assert.Empty(t, summary.Warnings)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, "mock-default", provider.requests[0].Model)
	assert.Equal(t, 300, provider.requests[0].MaxTokens)
	assert.Equal(t, "Mohenjo-daro survey", provider.requests[0].Report.Subject)
}

func TestGenerateSummary_UnverifiedCoordinate(t *testing.T) {
	provider := &MockProvider{
		available: true,
		summary:   "The mound sits near 25.0000° N, 68.0000° E, close to Site 3 at 27.3251° N, 68.1379° E.",
	}
	summary, err := newMockSummarizer(provider).GenerateSummary(context.Background(), sampleReport())
	require.NoError(t, err)

	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, "summary mentions 25.000000, 68.000000 which was not extracted from the document", summary.Warnings[0])
}

func TestBuildPrompt(t *testing.T) {
	report := sampleReport()
	report.Score = model.Score{Index: 76, Confidence: "high"}
	prompt := BuildPrompt(report)

	assert.Contains(t, prompt, "Document: Mohenjo-daro survey")
	assert.Contains(t, prompt, "Mapping readiness: 76/100 (high)")
	assert.Contains(t, prompt, "Coordinates (1):\n- 27.325000, 68.138000 at Site 3: Mohenjo-daro")
	assert.Contains(t, prompt, "- 2500–1900 BCE (-2500 to -1900) at ")
	assert.Contains(t, prompt, "- Site 3: Mohenjo-daro [Site]")
	assert.NotContains(t, prompt, "more\n")
}

func TestBuildPrompt_Truncates(t *testing.T) {
	report := model.Report{Subject: "Large survey"}
	for i := 0; i < maxPromptRecords+5; i++ {
		report.Sites = append(report.Sites, model.Site{SiteName: fmt.Sprintf("Locus L%d", i), SiteType: model.SiteTypeLocus})
	}

	prompt := BuildPrompt(report)
	assert.Contains(t, prompt, "Sites (35):")
	assert.Contains(t, prompt, "... and 5 more")
	assert.Contains(t, prompt, "Locus L29 [Locus]")
	assert.NotContains(t, prompt, "Locus L30 [")
	assert.Equal(t, 1, strings.Count(prompt, "... and"))
}

func TestConfigFromModel(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.1"
	cfg.Source.HTTPSProxy = "http://proxy.local:3128"

	c := ConfigFromModel(cfg)
	assert.Equal(t, "ollama", c.Provider)
	assert.Equal(t, "llama3.1", c.Model)
	assert.Equal(t, "http://proxy.local:3128", c.HTTPSProxy)
}
