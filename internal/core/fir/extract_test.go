package fir

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFIR = `FIRST INFORMATION REPORT
FIR No. 245/2024
Police Station: Saket (Malviya Nagar), District South
Date: 12/03/2024	Time: 21:15 hrs

1. Complainant Details
Name: Shri Rajesh Kumar   Age: 45   Address: B-12, Saket
2. Accused Details
Name: Mohan Verma, S/o Ram Verma
3. Investigating Officer
Name: SI Anil Sharma, Belt No. 1234
4. Brief Facts
The complainant reported that his motorcycle was stolen from the market.
Offence under IPC Section 379 and Section 411 IPC.
5. Witnesses
1. HC Deepak Yadav, Designation: Head Constable
2. Sunita Devi
3. Sunita Devi
`

func TestExtract_BlankInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\r\n\t \n"} {
		got := Extract(in)
		assert.Equal(t, "FIR summary not available.", got.Overview)
		assert.Empty(t, got.KeyPoints)
		assert.NotNil(t, got.KeyPoints)
		assert.Empty(t, got.Timeline)
		assert.NotNil(t, got.Timeline)
		assert.Equal(t, defaultEntities(), got.Entities)
		assert.True(t, got.IsEmpty())
	}
}

func TestExtract_FullReport(t *testing.T) {
	got := Extract(sampleFIR)
	e := got.Entities

	assert.Equal(t, "245/2024", e.FIRNumber)
	assert.Equal(t, "Saket", e.PoliceStation)
	assert.Equal(t, "12/03/2024", e.Date)
	assert.Equal(t, "21:15", e.Time)
	assert.Equal(t, "Rajesh Kumar", e.Complainant)
	assert.Equal(t, "Mohan Verma", e.Accused)
	assert.Equal(t, "Anil Sharma", e.InvestigatingOfficer)
	assert.Equal(t, "Malviya Nagar", e.Location)
	assert.Equal(t, []string{"Deepak Yadav", "Sunita Devi"}, e.Witnesses)
	assert.Equal(t, []string{"IPC 379", "IPC 411"}, e.Sections)

	assert.Equal(t,
		"First Information Report registered at Saket (Malviya Nagar) vide FIR No. 245/2024 dated 12/03/2024 at 21:15.",
		got.Overview)
	assert.Equal(t, []string{
		"Complainant: Rajesh Kumar",
		"Accused: Mohan Verma",
		"Location: Malviya Nagar",
		"Sections: IPC 379, IPC 411",
		"Investigating Officer: Anil Sharma",
	}, got.KeyPoints)
	assert.Equal(t, []TimelineEntry{{Time: "12/03/2024 21:15", Event: EventRegistered}}, got.Timeline)
}

func TestExtract_StationDateTime(t *testing.T) {
	got := Extract("Police Station: City Police Station, Date: 15/09/2024, Time: 18:30 hrs")
	e := got.Entities

	assert.Equal(t, "City Police Station", e.PoliceStation)
	assert.Equal(t, "15/09/2024", e.Date)
	assert.Equal(t, "18:30", e.Time)
	assert.Equal(t, "City Police Station", e.Location)
	assert.Equal(t, "First Information Report registered at City Police Station dated 15/09/2024 at 18:30.", got.Overview)
	assert.Equal(t, []TimelineEntry{{Time: "15/09/2024 18:30", Event: EventRegistered}}, got.Timeline)
}

func TestExtract_PersonBlocks(t *testing.T) {
	got := Extract("1. Complainant Details\nName: Rajesh Kumar, Age: 34\n2. Accused Details\nName: Unknown\n")
	assert.Equal(t, "Rajesh Kumar", got.Entities.Complainant)
	assert.Equal(t, "Unknown", got.Entities.Accused)
	assert.Equal(t, NotAvailable, got.Entities.InvestigatingOfficer)
}

func TestExtract_PersonFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, e Entities)
	}{
		{
			name:  "inline complainant label",
			input: "Complainant Name: Smt. Lakshmi Iyer, Age 52, resident of Adyar.",
			check: func(t *testing.T, e Entities) { assert.Equal(t, "Lakshmi Iyer", e.Complainant) },
		},
		{
			name:  "complainant label on its own line",
			input: "Complainant Details:\nName: Arjun Mehta\nAge: 29",
			check: func(t *testing.T, e Entities) { assert.Equal(t, "Arjun Mehta", e.Complainant) },
		},
		{
			name:  "accused with address",
			input: "Accused: Ravi Prakash Address: Ward 4, Bhopal",
			check: func(t *testing.T, e Entities) { assert.Equal(t, "Ravi Prakash", e.Accused) },
		},
		{
			name:  "officer assigned phrase",
			input: "The case was assigned to Inspector Vikram Singh, Investigating Officer of the station.",
			check: func(t *testing.T, e Entities) { assert.Equal(t, "Vikram Singh", e.InvestigatingOfficer) },
		},
		{
			name:  "officer label",
			input: "Investigating Officer: ASI Kiran Bedi, Contact: 98100",
			check: func(t *testing.T, e Entities) { assert.Equal(t, "Kiran Bedi", e.InvestigatingOfficer) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Extract(tt.input).Entities)
		})
	}
}

func TestExtract_Time(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Time: 18:30 hrs", "18:30"},
		{"Time - 9:05 PM", "9:05 PM"},
		{"The theft happened around 10:45 am near the gate", "10:45 am"},
		{"reported 23:10 hrs by phone", "23:10"},
		{"no time here", NotAvailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.input).Entities.Time, tt.input)
	}
}

func TestExtract_Date(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Date: 01-02-23", "01-02-23"},
		{"registered on 5.11.2022 at noon", "5.11.2022"},
		{"FIR No. 123/2024 filed today", NotAvailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.input).Entities.Date, tt.input)
	}
}

func TestExtract_FIRNumber(t *testing.T) {
	assert.Equal(t, "0456/2023", Extract("FIR Number: 0456/2023").Entities.FIRNumber)
	assert.Equal(t, "DL-SKT-77", Extract("FIR registered No. DL-SKT-77 on file").Entities.FIRNumber)
	assert.Equal(t, NotAvailable, Extract("First Information Report").Entities.FIRNumber)
}

func TestExtract_SectionsDeduplicated(t *testing.T) {
	got := Extract("Booked under IPC Section 379. Also Section 379 IPC applies.")
	assert.Equal(t, []string{"IPC 379"}, got.Entities.Sections)

	got = Extract("Section 420 IPC read with ipc section 120b and again Section 420 IPC")
	assert.Equal(t, []string{"IPC 420", "IPC 120B"}, got.Entities.Sections)
	assert.Contains(t, got.KeyPoints, "Sections: IPC 420, IPC 120B")
}

func TestExtract_NoDateNoTime(t *testing.T) {
	got := Extract("Complainant: Meera Nair. Accused: unknown person. Section 323 IPC.")
	assert.Empty(t, got.Timeline)
	assert.NotNil(t, got.Timeline)
	assert.Equal(t, "First Information Report registered.", got.Overview)
}

func TestExtract_WitnessBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"designation cut", "5. Witnesses\n1. SI Amit Singh, Designation: Security\n2. Priya Rao\n6. Sections", []string{"Amit Singh", "Priya Rao"}},
		{"dotted title", "5. Witnesses\n1. Dr. Mehta\n2. Priya Rao\n6. Sections", []string{"Mehta", "Priya Rao"}},
		{"sentence after name", "5. Witnesses\n1. Ravi Kumar. Age 34\n6. Sections", []string{"Ravi Kumar"}},
		{"initials kept", "5. Witnesses\n1. Insp. R.K. Sharma\n6. Sections", []string{"R.K. Sharma"}},
		{"repeated after rank strip", "5. Witnesses\n1. Priya Rao\n2. HC Priya Rao\n6. Sections", []string{"Priya Rao"}},
		{"bare title dropped", "5. Witnesses\n1. Dr.\n2. Priya Rao\n6. Sections", []string{"Priya Rao"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.input).Entities.Witnesses)
		})
	}
}

func TestExtract_WitnessInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"sentence end", "Witnesses: Ramesh Gupta, Suresh and HC Mohan Lal. Nothing else was seen.", []string{"Ramesh Gupta", "Suresh", "Mohan Lal"}},
		{"dotted titles", "Witnesses: Dr. Mehta, SI Ravi Kumar and Smt Priya Rao.", []string{"Mehta", "Ravi Kumar", "Priya Rao"}},
		{"repeated", "Witnesses: Priya Rao, Smt. Priya Rao and Suresh", []string{"Priya Rao", "Suresh"}},
		{"next label", "Witnesses: Deepak Yadav, Sunita Devi Accused: Mohan Verma", []string{"Deepak Yadav", "Sunita Devi"}},
		{"title only", "Witnesses: Dr.", []string{}},
		{"nil", "Witnesses: Nil", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.input).Entities.Witnesses)
		})
	}
}

func TestExtract_Location(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"label", "Location: Karol Bagh, Date: 01/01/2024", "Karol Bagh"},
		{"place of occurrence", "Place of Occurrence - Sector 21 Market; Time: 10:00", "Sector 21 Market"},
		{"parenthetical", "Police Station Kotwali (Chandni Chowk), Delhi", "Chandni Chowk"},
		{"station", "Police Station: Hazratganj, Lucknow", "Hazratganj"},
		{"at phrase", "The incident occurred in Lajpat Nagar near the market.", "Lajpat Nagar"},
		{
			"boilerplate skipped",
			"Recorded in First Information Report. Seized at Survey No. 45. Recovered at Gandhi Nagar.",
			"Gandhi Nagar",
		},
		{
			"suffix pass",
			"Vehicle parked at Main Gate Section Office, later found in Shastri Nagar.",
			"Shastri Nagar",
		},
		{"survey tail and initials", "Location: R . S . Puram Survey No. 12/4", "R.S. Puram"},
		{"known locality", "Mobile snatched near koramangala bus stop.", "Koramangala"},
		{"nothing", "a quiet report with no place", NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.input).Entities.Location)
		})
	}
}

func TestExtractor_KnownLocalities(t *testing.T) {
	x := New(WithKnownLocalities("Sector 17", "  "))
	assert.Equal(t, "Sector 17", x.Extract("theft near sector 17 market").Entities.Location)
	assert.Equal(t, NotAvailable, x.Extract("snatching near koramangala").Entities.Location)
}

func TestExtract_ScalarsAlwaysPopulated(t *testing.T) {
	inputs := []string{
		"x",
		sampleFIR,
		"Name:",
		"Police Station:",
		"Witnesses: , , and",
		strings.Repeat("((((", 50),
	}
	for _, in := range inputs {
		e := Extract(in).Entities
		for _, v := range []string{e.FIRNumber, e.PoliceStation, e.Date, e.Time, e.Complainant, e.Accused, e.Location, e.InvestigatingOfficer} {
			assert.NotEmpty(t, v, in)
		}
		assert.NotNil(t, e.Witnesses)
		assert.NotNil(t, e.Sections)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	first := Extract(sampleFIR)

	var wg sync.WaitGroup
	results := make([]Summary, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Extract(sampleFIR)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, first, got)
	}
}

func TestExtract_PathologicalInput(t *testing.T) {
	in := strings.Repeat("Name: ,,,.... Witness: and and ", 20000) + strings.Repeat("a", 100000)
	got := Extract(in)
	assert.Equal(t, NotAvailable, got.Entities.Complainant)
	assert.Empty(t, got.Entities.Sections)
}

func TestSummary_JSONShape(t *testing.T) {
	b, err := json.Marshal(EmptySummary())
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"keyPoints":[]`)
	assert.Contains(t, s, `"timeline":[]`)
	assert.Contains(t, s, `"witnesses":[]`)
	assert.Contains(t, s, `"investigatingOfficer":"N/A"`)
}

func TestExtract_InlineLabelsDoNotBleed(t *testing.T) {
	e := Extract("Complainant: Meera Nair. Accused: unknown person. Section 323 IPC.").Entities
	assert.Equal(t, "Meera Nair", e.Complainant)
	assert.Equal(t, "unknown person", e.Accused)
	assert.Equal(t, []string{"IPC 323"}, e.Sections)
}
