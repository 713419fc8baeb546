package textextract

import (
	"strings"
	"unicode"

	"github.com/joseph-ayodele/case-summarizer/internal/entity"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// Analyze counts words, estimates reading minutes (at least one) and detects
// Hindi by the presence of Devanagari script.
func Analyze(text string) entity.TextStats {
	words := len(strings.Fields(text))
	minutes := words / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return entity.TextStats{
		Language:       DetectLanguage(text),
		WordCount:      words,
		ReadingMinutes: minutes,
	}
}

// DetectLanguage returns "hi" if text contains Devanagari characters, else "en".
func DetectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return "hi"
		}
	}
	return "en"
}
