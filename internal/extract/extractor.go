package extract

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/strata/internal/model"
)

// Extractor finds coordinates, dates and site references in document text.
// It only holds configuration, so one Extractor may be shared by goroutines.
type Extractor struct {
	window int
	log    *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithContextWindow sets how many characters of surrounding text are kept
// on each side of a coordinate or date match. Negative values are ignored.
func WithContextWindow(chars int) Option {
	return func(e *Extractor) {
		if chars >= 0 {
			e.window = chars
		}
	}
}

// WithLogger sets the logger used for debug notes (e.g. unsupported UTM coordinates)
func WithLogger(log *slog.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExtractor creates a new extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		window: model.DefaultContextWindow,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ContextWindow returns the configured context window in characters
func (e *Extractor) ContextWindow() int {
	return e.window
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// snippet returns text[start:end] widened by window characters on each side,
// with newlines collapsed to spaces and surrounding whitespace trimmed.
func snippet(text string, start, end, window int) string {
	from := start
	for i := 0; i < window && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}

	to := end
	for i := 0; i < window && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	return strings.TrimSpace(newlines.Replace(text[from:to]))
}

// group returns the text captured by a named subexpression in a
// FindAllStringSubmatchIndex location, or "" if it did not participate.
func group(re *regexp.Regexp, text string, loc []int, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || 2*i+1 >= len(loc) || loc[2*i] < 0 {
		return ""
	}
	return text[loc[2*i]:loc[2*i+1]]
}

// span is a half-open byte range of the source text
type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}
