// Package fir turns the raw text of a First Information Report into a
// structured case summary.
//
// Extraction is a pure function of the input. Every scalar field falls back to
// NotAvailable and every list to an empty slice, so callers always receive a
// fully populated Summary.
package fir

import "regexp"

// Extractor holds the configurable parts of extraction. The zero value is not
// usable; construct one with New.
type Extractor struct {
	localities       []string
	localityPatterns []*regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithKnownLocalities replaces the locality names used as the last location
// fallback. Blank names are ignored.
func WithKnownLocalities(names ...string) Option {
	return func(x *Extractor) {
		x.localities = x.localities[:0]
		for _, n := range names {
			if n = collapseSpaces(n); n != "" {
				x.localities = append(x.localities, n)
			}
		}
	}
}

// New builds an Extractor. It is safe for concurrent use.
func New(opts ...Option) *Extractor {
	x := &Extractor{localities: append([]string(nil), DefaultLocalities...)}
	for _, o := range opts {
		o(x)
	}
	x.localityPatterns = make([]*regexp.Regexp, len(x.localities))
	for i, n := range x.localities {
		x.localityPatterns[i] = localityPattern(n)
	}
	return x
}

var defaultExtractor = New()

// Extract summarises raw with the default configuration.
func Extract(raw string) Summary {
	return defaultExtractor.Extract(raw)
}

// Extract summarises raw. Blank input yields EmptySummary.
func (x *Extractor) Extract(raw string) Summary {
	d := normalize(raw)
	if d.blank() {
		return EmptySummary()
	}
	e := x.entities(d)
	return Summary{
		Overview:  buildOverview(e),
		KeyPoints: buildKeyPoints(e),
		Entities:  e,
		Timeline:  buildTimeline(e),
	}
}

// ExtractEntities returns only the field record for raw.
func (x *Extractor) ExtractEntities(raw string) Entities {
	d := normalize(raw)
	if d.blank() {
		return defaultEntities()
	}
	return x.entities(d)
}

func (x *Extractor) entities(d document) Entities {
	station := extractStation(d)
	return Entities{
		FIRNumber:            extractFIRNumber(d),
		PoliceStation:        station,
		Date:                 extractDate(d),
		Time:                 extractTime(d),
		Complainant:          personField(d, complainantHeading, complainantRules),
		Accused:              personField(d, accusedHeading, accusedRules),
		Witnesses:            extractWitnesses(d),
		Sections:             extractSections(d),
		Location:             x.extractLocation(d, station),
		InvestigatingOfficer: personField(d, officerHeading, officerRules),
	}
}
