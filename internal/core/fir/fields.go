package fir

import "regexp"

const numbered = `(?mi)^[ \t]*\(?\d{1,2}[.)][ \t]*`

var (
	// nextHeading ends a person or witness block. Only numbered lines that open
	// a known report section qualify, so numbered witness entries do not.
	nextHeading = regexp.MustCompile(numbered + `(?:Complainant|Informant|Accused|Suspect|List\s+of|Witness|` +
		`Sections?\b|Legal|Acts?\b|Investigat|I\.\s?O\.|Brief|Facts|Property|Occurrence|Offence|Place|Location|` +
		`Date|Time|Action|Police\s+Station|FIR\b|First\s+Information|Statement|Description|Delay|Inquest|Reasons?\b|` +
		`Signature|Distance|Particulars|Details|Type|Nature)`)

	complainantHeading = regexp.MustCompile(numbered + `(?:Complainant|Informant)`)
	accusedHeading     = regexp.MustCompile(numbered + `(?:Accused|Suspect)`)
	officerHeading     = regexp.MustCompile(numbered + `(?:Investigating|Investigation|I\.\s?O\.)`)
	witnessHeading     = regexp.MustCompile(numbered + `(?:List\s+of\s+)?Witness(?:es)?\b`)
)

var (
	stationRules = ruleSet{
		r(`(?i)\bPolice\s+Station\s*(?:[:\-–]\s*)?([A-Za-z0-9][^,\n]{0,100})`),
	}
	firNumberRules = ruleSet{
		r(`(?i)\bFIR\s*(?:No\.?|Number)\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9/\-]{0,40})`),
		r(`(?i)\bFIR\s+registered\s*(?:vide\s+)?(?:No\.?|Number)\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9/\-]{0,40})`),
	}
	dateRules = ruleSet{
		r(`\b(\d{1,2}[/\-.]\d{1,2}[/\-.](?:\d{4}|\d{2}))\b`),
	}
	timeRules = ruleSet{
		r(`(?i)\bTime\s*[:\-]\s*(\d{1,2}:\d{2}(?:\s*[AP]\.?M\.?)?)`),
		r(`(?i)\b(?:at|around)\s+(\d{1,2}:\d{2}(?:\s*[AP]\.?M\.?)?)`),
		r(`\b(\d{1,2}:\d{2})(?:\s*hrs)?\b`),
	}

	nameInBlock = ruleSet{
		r(`(?i)\bName\s*[:\-]\s*([^,\n]{1,80})`).until(personStop),
	}
	complainantRules = ruleSet{
		r(`(?i)\b(?:Complainant|Informant)(?:'s)?\s*(?:Name|Details)?\s*[:\-]\s*([^,\n]{1,80})`).until(personStop),
	}
	accusedRules = ruleSet{
		r(`(?i)\b(?:Accused|Suspect)(?:'s)?\s*(?:Name|Details)?\s*[:\-]\s*([^,\n]{1,80})`).until(personStop),
	}
	officerRules = ruleSet{
		r(`(?i)\bInvestigating\s+Officer(?:'s)?\s*(?:Name|Details)?\s*[:\-]\s*([^,\n]{1,80})`).until(personStop),
		r(`(?i)\bassigned\s+to\s+([^,\n]{1,80}?)\s*,\s*(?:the\s+)?Investigating\s+Officer`),
		r(`(?i)\bI\.\s?O\.?\s*[:\-]\s*([^,\n]{1,80})`).until(personStop),
	}
)

// personField resolves a name from its heading block, falling back to flat
// label matches. The result is cleaned or NotAvailable.
func personField(d document, heading *regexp.Regexp, fallback ruleSet) string {
	if block := sliceBlock(d.block, heading, nextHeading); block != "" {
		if v := cleanName(nameInBlock.first(block)); v != "" {
			return v
		}
	}
	return orNA(cleanName(fallback.first(d.flat)))
}

// reStationSuffix drops a trailing "(sub-locality)"; that part feeds the location instead.
var reStationSuffix = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

func extractStation(d document) string {
	v := stationRules.first(d.flat)
	return orNA(trimValue(reStationSuffix.ReplaceAllString(v, "")))
}

func extractFIRNumber(d document) string {
	return orNA(firNumberRules.first(d.flat))
}

func extractDate(d document) string {
	return orNA(dateRules.first(d.flat))
}

func extractTime(d document) string {
	return orNA(collapseSpaces(timeRules.first(d.flat)))
}
