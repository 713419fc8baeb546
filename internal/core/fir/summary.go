package fir

import "strings"

func buildOverview(e Entities) string {
	parts := []string{"First Information Report registered"}
	if found(e.PoliceStation) {
		parts = append(parts, "at "+e.PoliceStation)
	}
	if found(e.Location) && e.Location != e.PoliceStation {
		parts = append(parts, "("+e.Location+")")
	}
	if found(e.FIRNumber) {
		parts = append(parts, "vide FIR No. "+e.FIRNumber)
	}
	if found(e.Date) {
		parts = append(parts, "dated "+e.Date)
	}
	if found(e.Time) {
		parts = append(parts, "at", e.Time)
	}
	return strings.Join(parts, " ") + "."
}

func buildKeyPoints(e Entities) []string {
	sections := NotAvailable
	if len(e.Sections) > 0 {
		sections = strings.Join(e.Sections, ", ")
	}
	return []string{
		"Complainant: " + e.Complainant,
		"Accused: " + e.Accused,
		"Location: " + e.Location,
		"Sections: " + sections,
		"Investigating Officer: " + e.InvestigatingOfficer,
	}
}

func buildTimeline(e Entities) []TimelineEntry {
	var when []string
	if found(e.Date) {
		when = append(when, e.Date)
	}
	if found(e.Time) {
		when = append(when, e.Time)
	}
	if len(when) == 0 {
		return []TimelineEntry{}
	}
	return []TimelineEntry{{Time: strings.Join(when, " "), Event: EventRegistered}}
}
