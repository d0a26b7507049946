package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/strata/internal/model"
)

// maxPromptRecords caps each record list in the prompt
const maxPromptRecords = 30

const systemPrompt = "You summarize archaeological extraction results. You only restate the records you are given and never add coordinates, dates or sites of your own."

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative from the extracted records
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report holds the records the summary must be based on
	Report model.Report

	// Prompt is an optional custom prompt (if empty, BuildPrompt is used)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI or Anthropic
	APIKey string

	// BaseURL for custom endpoints (Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 800,
	}
}

// BuildPrompt renders the extracted records into the summarization prompt
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	b.WriteString("Summarize the archaeological content of a document from the records below.\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("1. Use ONLY the coordinates, dates and sites listed here.\n")
	b.WriteString("2. Do not convert, round or invent coordinates.\n")
	b.WriteString("3. BCE years are negative numbers in the records; write them as BCE.\n")
	b.WriteString("4. If the records are too sparse for a summary, say so.\n\n")

	fmt.Fprintf(&b, "Document: %s\n", report.Subject)
	fmt.Fprintf(&b, "Mapping readiness: %d/100 (%s)\n\n", report.Score.Index, report.Score.Confidence)

	fmt.Fprintf(&b, "Coordinates (%d):\n", len(report.Coordinates))
	for i, c := range report.Coordinates {
		if i >= maxPromptRecords {
			fmt.Fprintf(&b, "... and %d more\n", len(report.Coordinates)-maxPromptRecords)
			break
		}
		fmt.Fprintf(&b, "- %.6f, %.6f%s\n", c.Latitude, c.Longitude, siteSuffix(c.SiteName))
	}

	fmt.Fprintf(&b, "\nDates (%d):\n", len(report.Dates))
	for i, d := range report.Dates {
		if i >= maxPromptRecords {
			fmt.Fprintf(&b, "... and %d more\n", len(report.Dates)-maxPromptRecords)
			break
		}
		fmt.Fprintf(&b, "- %s (%d to %d)%s\n", d.Label, d.StartYear, d.EndYear, siteSuffix(d.SiteName))
	}

	fmt.Fprintf(&b, "\nSites (%d):\n", len(report.Sites))
	for i, s := range report.Sites {
		if i >= maxPromptRecords {
			fmt.Fprintf(&b, "... and %d more\n", len(report.Sites)-maxPromptRecords)
			break
		}
		fmt.Fprintf(&b, "- %s [%s]\n", s.SiteName, s.SiteType)
	}

	b.WriteString("\nWrite 3-5 sentences: which sites are described, where they are and which periods they span.")
	return b.String()
}

func siteSuffix(site string) string {
	if site == "" {
		return ""
	}
	return " at " + site
}

func pickModel(reqModel, configModel, fallback string) string {
	if reqModel != "" {
		return reqModel
	}
	if configModel != "" {
		return configModel
	}
	return fallback
}

func pickMaxTokens(reqMax, configMax int) int {
	if reqMax > 0 {
		return reqMax
	}
	if configMax > 0 {
		return configMax
	}
	return 800
}
