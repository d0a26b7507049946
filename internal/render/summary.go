package render

import (
	"fmt"
	"io"

	"github.com/ppiankov/strata/internal/model"
)

// WriteSummary prints a short overview of the report, meant for stderr
func WriteSummary(w io.Writer, report *model.Report) {
	_, _ = fmt.Fprintf(w, "\n%s\n", report.Subject)
	_, _ = fmt.Fprintf(w, "  Coordinates: %d\n", len(report.Coordinates))
	_, _ = fmt.Fprintf(w, "  Dates:       %d\n", len(report.Dates))
	_, _ = fmt.Fprintf(w, "  Sites:       %d\n", len(report.Sites))
	_, _ = fmt.Fprintf(w, "  Readiness:   %d/100 (%s)\n", report.Score.Index, report.Score.Confidence)

	for _, s := range report.Score.Signals {
		if s.Severity == model.SeverityInfo {
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", severityIcon(s.Severity), s.Description)
	}

	if report.LLM != nil {
		for _, warning := range report.LLM.Warnings {
			_, _ = fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
	}
	_, _ = fmt.Fprintln(w)
}
