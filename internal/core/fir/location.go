package fir

import (
	"regexp"
	"strings"
)

// DefaultLocalities are matched, in order, when nothing else yields a location.
var DefaultLocalities = []string{
	"Connaught Place",
	"Karol Bagh",
	"Chandni Chowk",
	"Bandra",
	"Andheri",
	"Koramangala",
	"Whitefield",
	"Salt Lake",
	"Banjara Hills",
	"R.S. Puram",
	"T. Nagar",
}

var (
	locationRules = ruleSet{
		r(`(?i)\b(?:Location|Place\s+of\s+(?:Occurrence|Incident|Offence))\s*[:\-]\s*([^\n]{1,120})`).
			until(regexp.MustCompile(`(?i)[,;]?\s*\b(?:Date|Time|FIR|Police\s+Station|Complainant|Accused|Witness(?:es)?|Sections?|Investigating)\b`)),
		r(`(?i)\bPolice\s+Station[^()\n]{0,80}\(\s*([^()\n]{2,80}?)\s*\)`),
	}

	reAtIn        = regexp.MustCompile(`\b(?:at|in)\s+([A-Z][A-Za-z.]*(?:[ ]+[A-Z][A-Za-z.]*){0,5})`)
	reAtInSuffix  = regexp.MustCompile(`\b(?:at|in)\s+((?:[A-Z][A-Za-z.]*[ ]+){0,4}` + localitySuffix + `)\b`)
	reBoilerStart = regexp.MustCompile(`(?i)^(?:Survey\s+No|FIR\b|First\b|Information\b|Report\b|Police\s+Station)`)
	reBoilerWord  = regexp.MustCompile(`(?i)\b(?:Survey|FIR|First|Information|Report|Police|Station|Section|IPC)\b`)

	reSurveyTail    = regexp.MustCompile(`(?i)[\s,;]*\bSurvey\s+No.*$`)
	reSpacedInitial = regexp.MustCompile(`\b([A-Z])\s*\.`)
	reJoinInitials  = regexp.MustCompile(`\b([A-Z]\.)\s+([A-Z]\.)`)
)

const localitySuffix = `(?:Nagar|Road|Colony|District|City|Village|Town|Market|Sector|Street|Lane|Marg|Chowk|` +
	`Bazaar|Bazar|Puram|Pur|Vihar|Enclave|Layout|Extension|Block|Area|Park|Mandal|Taluk|Tehsil)`

// extractLocation applies the location precedence: explicit label, then the
// parenthesised sub-locality after a station mention, then the station value,
// then an "at/in" phrase, then known localities, then the station, then N/A.
func (x *Extractor) extractLocation(d document, station string) string {
	loc := locationRules.first(d.flat)
	if loc == "" && found(station) {
		loc = station
	}
	if loc == "" {
		loc = atInPhrase(d.flat)
	}
	if loc = tidyLocation(loc); loc != "" {
		return loc
	}
	if v := x.knownLocality(d.flat); v != "" {
		return v
	}
	return orNA(station)
}

// atInPhrase picks the first capitalised "at/in" phrase that does not open with
// report boilerplate. A pick that still carries boilerplate is replaced by the
// first phrase ending in a locality suffix, or dropped.
func atInPhrase(text string) string {
	var pick string
	for _, m := range reAtIn.FindAllStringSubmatch(text, -1) {
		if !reBoilerStart.MatchString(m[1]) {
			pick = m[1]
			break
		}
	}
	if pick == "" || !reBoilerWord.MatchString(pick) {
		return pick
	}
	for _, m := range reAtInSuffix.FindAllStringSubmatch(text, -1) {
		if !reBoilerStart.MatchString(m[1]) {
			return m[1]
		}
	}
	return ""
}

func tidyLocation(s string) string {
	s = reSurveyTail.ReplaceAllString(s, "")
	s = collapseSpaces(s)
	s = reSpacedInitial.ReplaceAllString(s, "$1.")
	for {
		joined := reJoinInitials.ReplaceAllString(s, "$1$2")
		if joined == s {
			break
		}
		s = joined
	}
	return trimValue(s)
}

func (x *Extractor) knownLocality(text string) string {
	for i, re := range x.localityPatterns {
		if re.MatchString(text) {
			return x.localities[i]
		}
	}
	return ""
}

func localityPattern(name string) *regexp.Regexp {
	parts := strings.Fields(name)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(parts, `\s*`) + `(?:\b|$)`)
}

// trimValue drops trailing separators and a sentence period after a full word.
func trimValue(s string) string {
	s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ",;:-"))
	return reTrailingWordDot.ReplaceAllString(s, "$1")
}
