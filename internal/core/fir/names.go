package fir

import (
	"regexp"
	"strings"
)

// rankTitles lists honorifics and police ranks that prefix a person's name.
const rankTitles = `Shri|Smt|Sri|Kumari|Km|Mr|Mrs|Ms|Miss|Dr|` +
	`Assistant\s+Sub[\s-]*Inspector|Sub[\s-]*Inspector|Inspector|Insp|` +
	`Head\s+Constable|Lady\s+Constable|Constable|Const|` +
	`ASI|SI|HC|PC|LC|DSP|ACP|SHO|I\.?O`

var (
	reNameEcho = regexp.MustCompile(`(?i)^Name\s*[:\-]\s*`)
	reRank     = regexp.MustCompile(`(?i)^(?:` + rankTitles + `)(?:\.\s*|\s+)`)
	reBareRank = regexp.MustCompile(`(?i)^(?:` + rankTitles + `)\.?$`)
	// personStop marks where a name capture runs into the next detail label.
	personStop = regexp.MustCompile(`(?i)\s+(?:Age|Aged|Address|Designation|Contact|Phone|Mobile|Mob|Occupation|Rank|` +
		`Gender|Sex|Nationality|Father'?s?\s+Name|S/o|D/o|W/o|R/o|Belt\s+No|PIS\s+No|` +
		`Complainant|Accused|Witness(?:es)?|Sections?|Date|Time|Police\s+Station|FIR|Investigating)\b`)
	reTrailingWordDot = regexp.MustCompile(`([A-Za-z]{2,})\.$`)
)

// cleanName strips a "Name:" echo and up to two leading rank or title tokens,
// then collapses whitespace. It returns "" when nothing name-like remains,
// including when only a title is left.
func cleanName(s string) string {
	s = collapseSpaces(s)
	s = reNameEcho.ReplaceAllString(s, "")
	for i := 0; i < 2; i++ {
		stripped := reRank.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = strings.Trim(s, " ,;:-")
	s = reTrailingWordDot.ReplaceAllString(s, "$1")
	if reBareRank.MatchString(s) {
		return ""
	}
	return s
}
