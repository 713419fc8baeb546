package fir

import (
	"regexp"
	"strings"
)

// rule is one candidate pattern: the capture group holding the value and an
// optional stop pattern that truncates the capture at the first match.
type rule struct {
	re    *regexp.Regexp
	group int
	stop  *regexp.Regexp
}

func r(pattern string) rule {
	return rule{re: regexp.MustCompile(pattern), group: 1}
}

func (ru rule) until(stop *regexp.Regexp) rule {
	ru.stop = stop
	return ru
}

func (ru rule) match(text string) string {
	m := ru.re.FindStringSubmatch(text)
	if m == nil || ru.group >= len(m) {
		return ""
	}
	return ru.cut(m[ru.group])
}

func (ru rule) cut(v string) string {
	if ru.stop != nil {
		if loc := ru.stop.FindStringIndex(v); loc != nil {
			v = v[:loc[0]]
		}
	}
	return strings.TrimSpace(v)
}

// ruleSet is an ordered list of candidates, most specific first.
type ruleSet []rule

// first returns the first non-empty trimmed capture, or "".
func (rs ruleSet) first(text string) string {
	if text == "" {
		return ""
	}
	for _, ru := range rs {
		if v := ru.match(text); v != "" {
			return v
		}
	}
	return ""
}

// sliceBlock returns text from the first start match up to (not including) the
// next end match found after the start heading, or to end of text. It returns
// "" when start does not occur.
func sliceBlock(text string, start, end *regexp.Regexp) string {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	if e := end.FindStringIndex(rest); e != nil {
		return text[loc[0] : loc[1]+e[0]]
	}
	return text[loc[0]:]
}

// orderedSet keeps first-seen order and drops exact duplicates.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) list() []string {
	return s.items
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

func found(v string) bool {
	return v != "" && v != NotAvailable
}
