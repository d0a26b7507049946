package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/strata/internal/model"
)

var cellEscaper = strings.NewReplacer("|", "\\|", "\n", " ", "\r", " ")

// WriteMarkdown writes a human-readable report with one table per record type
func WriteMarkdown(w io.Writer, report *model.Report, includeFooter bool) error {
	bw := bufio.NewWriter(w)
	p := func(format string, a ...any) {
		_, _ = fmt.Fprintf(bw, format, a...)
	}

	p("# Strata Report: %s\n\n", report.Subject)
	p("- **Source:** %s\n", report.Source)
	p("- **Extracted:** %s\n", report.ExtractedAt.Format("2006-01-02 15:04:05 MST"))
	if report.Language != "" {
		p("- **Language:** %s\n", report.Language)
	}
	p("- **Context window:** %d characters\n", report.ContextWindow)
	p("- **Run:** `%s`\n\n", report.ID)

	p("## Mapping Readiness\n\n")
	p("**Index:** %d/100 (confidence: %s)\n\n", report.Score.Index, report.Score.Confidence)
	if len(report.Score.Signals) > 0 {
		p("| Signal | Severity | Description |\n")
		p("|---|---|---|\n")
		for _, s := range report.Score.Signals {
			p("| %s | %s | %s |\n", s.Type, severityIcon(s.Severity), cell(s.Description))
		}
		p("\n")
	}

	p("## Coordinates (%d)\n\n", len(report.Coordinates))
	if len(report.Coordinates) == 0 {
		p("_No coordinates found._\n\n")
	} else {
		p("| # | Latitude | Longitude | Site | Format | Context |\n")
		p("|---|---|---|---|---|---|\n")
		for i, c := range report.Coordinates {
			p("| %d | %.6f | %.6f | %s | %s | %s |\n",
				i+1, c.Latitude, c.Longitude, cell(c.SiteName), c.Format, cell(c.Context))
		}
		p("\n")
	}

	p("## Dates (%d)\n\n", len(report.Dates))
	if len(report.Dates) == 0 {
		p("_No dates found._\n\n")
	} else {
		p("| # | Label | Start | End | Kind | Site | Context |\n")
		p("|---|---|---|---|---|---|---|\n")
		for i, d := range report.Dates {
			p("| %d | %s | %d | %d | %s | %s | %s |\n",
				i+1, cell(d.Label), d.StartYear, d.EndYear, d.Kind, cell(d.SiteName), cell(d.Context))
		}
		p("\n")
	}

	p("## Sites (%d)\n\n", len(report.Sites))
	if len(report.Sites) == 0 {
		p("_No site references found._\n\n")
	} else {
		p("| # | Site | Type | Context |\n")
		p("|---|---|---|---|\n")
		for i, s := range report.Sites {
			p("| %d | %s | %s | %s |\n", i+1, cell(s.SiteName), s.SiteType, cell(s.Context))
		}
		p("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		p("## Summary (%s/%s)\n\n", report.LLM.Provider, report.LLM.Model)
		p("%s\n\n", strings.TrimSpace(report.LLM.SummaryMD))
		for _, warning := range report.LLM.Warnings {
			p("> ⚠️ %s\n", warning)
		}
		if len(report.LLM.Warnings) > 0 {
			p("\n")
		}
	}

	if includeFooter {
		p("---\n\n")
		p("_Records are pattern matches with surrounding context. Verify them against the source before publishing a map or timeline._\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// WriteLLMMarkdown writes only the LLM narrative and its warnings
func WriteLLMMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "_Generated by %s/%s from the extracted records._\n\n", report.LLM.Provider, report.LLM.Model)
	b.WriteString(strings.TrimSpace(report.LLM.SummaryMD))
	b.WriteString("\n")
	if len(report.LLM.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warning := range report.LLM.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write llm markdown: %w", err)
	}
	return nil
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return cellEscaper.Replace(s)
}

func severityIcon(s model.SignalSeverity) string {
	switch s {
	case model.SeverityCritical:
		return "🔴 critical"
	case model.SeverityWarning:
		return "🟡 warning"
	default:
		return "🟢 info"
	}
}
