package fir

// NotAvailable is the placeholder for any field the extractor could not resolve.
const NotAvailable = "N/A"

// EventRegistered labels the timeline entry for report registration.
const EventRegistered = "FIR Registered"

const emptyOverview = "FIR summary not available."

// Entities is the fixed-shape record of fields pulled out of a report.
// Scalar fields are never empty: unresolved values hold NotAvailable.
type Entities struct {
	FIRNumber            string   `json:"firNumber"`
	PoliceStation        string   `json:"policeStation"`
	Date                 string   `json:"date"`
	Time                 string   `json:"time"`
	Complainant          string   `json:"complainant"`
	Accused              string   `json:"accused"`
	Witnesses            []string `json:"witnesses"`
	Sections             []string `json:"sections"`
	Location             string   `json:"location"`
	InvestigatingOfficer string   `json:"investigatingOfficer"`
}

// TimelineEntry is a single dated event.
type TimelineEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// Summary is the structured case record produced for one report.
type Summary struct {
	Overview  string          `json:"overview"`
	KeyPoints []string        `json:"keyPoints"`
	Entities  Entities        `json:"entities"`
	Timeline  []TimelineEntry `json:"timeline"`
}

func defaultEntities() Entities {
	return Entities{
		FIRNumber:            NotAvailable,
		PoliceStation:        NotAvailable,
		Date:                 NotAvailable,
		Time:                 NotAvailable,
		Complainant:          NotAvailable,
		Accused:              NotAvailable,
		Witnesses:            []string{},
		Sections:             []string{},
		Location:             NotAvailable,
		InvestigatingOfficer: NotAvailable,
	}
}

// EmptySummary is returned for blank input.
func EmptySummary() Summary {
	return Summary{
		Overview:  emptyOverview,
		KeyPoints: []string{},
		Entities:  defaultEntities(),
		Timeline:  []TimelineEntry{},
	}
}

// IsEmpty reports whether s carries no extracted content.
func (s Summary) IsEmpty() bool {
	return s.Overview == emptyOverview && len(s.KeyPoints) == 0
}
