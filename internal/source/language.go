package source

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

const (
	minLanguageSample = 40
	maxLanguageSample = 4000
)

// Languages field reports are commonly written in. Building the detector for
// every language lingua knows costs far more memory than a CLI run warrants.
var reportLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Greek,
	lingua.Turkish,
	lingua.Arabic,
	lingua.Persian,
	lingua.Urdu,
	lingua.Hindi,
	lingua.Russian,
	lingua.Chinese,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLanguage returns the ISO 639-1 code of the document language,
// or "" when the text is too short or ambiguous
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minLanguageSample {
		return ""
	}
	if len(text) > maxLanguageSample {
		text = strings.ToValidUTF8(text[:maxLanguageSample], "")
	}

	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(reportLanguages...).
			Build()
	})

	language, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
