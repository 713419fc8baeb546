package fir

import (
	"regexp"
	"strings"
)

var (
	reLineBreaks = regexp.MustCompile(`\r\n?`)
	reHorizontal = regexp.MustCompile(`[ \t\f\v]+`)
)

// document holds the two views every extractor works against.
type document struct {
	// block keeps the original line structure; used for heading slices and per-line scans.
	block string
	// flat has horizontal whitespace collapsed and is trimmed; newlines survive.
	flat string
}

func normalize(raw string) document {
	block := reLineBreaks.ReplaceAllString(raw, "\n")
	flat := strings.TrimSpace(reHorizontal.ReplaceAllString(block, " "))
	return document{block: block, flat: flat}
}

func (d document) blank() bool {
	return d.flat == ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
