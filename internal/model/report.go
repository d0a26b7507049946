package model

import "time"

// Report is the complete extraction result for one document
type Report struct {
	ID            string    `json:"id"`                 // Run identifier (uuid)
	Subject       string    `json:"subject"`            // Human-readable document name
	Source        string    `json:"source"`             // File path, URL or "-" for stdin
	ExtractedAt   time.Time `json:"extracted_at"`       // When extraction ran
	Language      string    `json:"language,omitempty"` // Detected document language
	TextChars     int       `json:"text_chars"`         // Length of the extracted text in characters
	ContextWindow int       `json:"context_window"`     // Characters captured on each side of a match

	Coordinates []Coordinate `json:"coordinates"`
	Dates       []DateRange  `json:"dates"`
	Sites       []Site       `json:"sites"`

	Score Score `json:"score"` // Mapping readiness index and signals

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM narrative (never affects records or score)
}

// Score represents the transparent mapping readiness breakdown
type Score struct {
	Index      int      `json:"index"`      // Overall readiness index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalCoordinateCoverage SignalType = "coordinate_coverage" // Coordinates available for mapping
	SignalSiteLinkage        SignalType = "site_linkage"        // Records carrying an inferred site name
	SignalTimelineCoverage   SignalType = "timeline_coverage"   // Dates available for a timeline
	SignalSiteReferences     SignalType = "site_references"     // Named sites, trenches, loci, mounds
	SignalNullIsland         SignalType = "null_island"         // 0,0 coordinates, usually a placeholder
	SignalFutureYear         SignalType = "future_year"         // Years after the extraction date
	SignalBareYearHeavy      SignalType = "bare_year_heavy"     // Timeline dominated by context-free years
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains the optional LLM-generated narrative
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"` // e.g. coordinates mentioned that were never extracted
}
