package textextract

import (
	"regexp"
	"strings"
)

var (
	reCRLF        = regexp.MustCompile(`\r\n?`)
	reTabs        = regexp.MustCompile(`[\t\f\v]+`)
	reMultiSpace  = regexp.MustCompile(` {2,}`)
	reMultiBlank  = regexp.MustCompile(`\n{3,}`)
	reLoneL       = regexp.MustCompile(`\bl\b`)
	reDoublePipe  = regexp.MustCompile(`\|\|`)
	rePipe        = regexp.MustCompile(`\|`)
	reRepeatedDot = regexp.MustCompile(`\.{2,}`)
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`,
	"‘", "'", "’", "'",
	"\u00a0", " ",
)

// Clean collapses noisy whitespace and fixes common OCR artifacts.
// Conservative: keeps line breaks so numbered report sections stay on their
// own lines; collapses >2 newlines into a single blank line.
func Clean(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = quoteReplacer.Replace(s)
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	s = reRepeatedDot.ReplaceAllString(s, ".")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FixOCR repairs character confusions typical of tesseract output: a lone "l"
// is almost always "I", pipes are "ll" or "I".
func FixOCR(s string) string {
	s = reLoneL.ReplaceAllString(s, "I")
	s = reDoublePipe.ReplaceAllString(s, "ll")
	return rePipe.ReplaceAllString(s, "I")
}
