package fir

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	reWitnessLine = regexp.MustCompile(`^[ \t]*(?:[-*•·][ \t]*|\(?\d{1,2}[.)][ \t]*)?([A-Za-z][A-Za-z.' :\t]{0,60})`)
	witnessStop   = regexp.MustCompile(`(?i)(?:^|\s+)(?:Designation|Rank|Address|Contact|Phone|Mobile|Mob|Age|Occupation|S/o|D/o|W/o|R/o)\b`)
	reNoWitness   = regexp.MustCompile(`(?i)^(?:nil|none|n/?a|not\s+applicable|no\s+witness(?:es)?)$`)

	witnessInline = ruleSet{
		r(`(?i)\bWitness(?:es)?\s*[:\-]\s*([^\n]{1,300})`).until(inlineLabel),
	}
	// inlineLabel ends an inline witness list that runs into the next field.
	inlineLabel = regexp.MustCompile(`(?i)\b(?:Witness(?:es)?|Name|Complainant|Accused|Sections?|Police\s+Station|FIR|Date|Time|Location|Investigating)\s*[:\-]`)
	reListSplit = regexp.MustCompile(`\s*,\s*|\s+and\s+`)
	reWordDot   = regexp.MustCompile(`([A-Za-z]+)\.(?:\s|$)`)

	sectionShapes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bIPC\s+Section\s+(\d+[A-Za-z]?)\b`),
		regexp.MustCompile(`(?i)\bSection\s+(\d+[A-Za-z]?)\s+IPC\b`),
	}
)

func extractWitnesses(d document) []string {
	set := newOrderedSet()
	if block := sliceBlock(d.block, witnessHeading, nextHeading); block != "" {
		lines := strings.Split(block, "\n")
		// the first line is the heading itself
		for _, line := range lines[1:] {
			m := reWitnessLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			addWitness(set, cutAt(cutSentence(m[1]), witnessStop))
		}
	}
	if len(set.list()) == 0 {
		if inline := witnessInline.first(d.flat); inline != "" {
			for _, tok := range reListSplit.Split(cutSentence(inline), -1) {
				addWitness(set, cutAt(tok, witnessStop))
			}
		}
	}
	return set.list()
}

func addWitness(set *orderedSet, raw string) {
	name := cleanName(raw)
	if !strings.ContainsFunc(name, unicode.IsLetter) || reNoWitness.MatchString(name) {
		return
	}
	set.add(name)
}

// cutSentence truncates s at the first period that closes a sentence. Periods
// after a title such as "Dr." or a one-letter initial are kept.
func cutSentence(s string) string {
	for _, m := range reWordDot.FindAllStringSubmatchIndex(s, -1) {
		word := s[m[2]:m[3]]
		if len(word) == 1 || reBareRank.MatchString(word) {
			continue
		}
		return s[:m[3]]
	}
	return s
}

func cutAt(s string, stop *regexp.Regexp) string {
	if loc := stop.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

// extractSections collects both citation shapes across the whole text,
// canonicalised to "IPC <n>" in order of first appearance.
func extractSections(d document) []string {
	type hit struct {
		pos int
		num string
	}
	var hits []hit
	for _, re := range sectionShapes {
		for _, m := range re.FindAllStringSubmatchIndex(d.flat, -1) {
			hits = append(hits, hit{pos: m[0], num: d.flat[m[2]:m[3]]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	set := newOrderedSet()
	for _, h := range hits {
		set.add("IPC " + strings.ToUpper(h.num))
	}
	return set.list()
}
