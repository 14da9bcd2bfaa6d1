package calendar

import (
	"regexp"
	"strings"
	"testing"
)

func TestVerify(t *testing.T) {
	ics := Generate(sampleOccurrences(), testOptions())

	n, err := Verify(ics, "America/Chicago")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Verify() = %d events, want 2", n)
	}
}

func TestVerify_Failures(t *testing.T) {
	good := Generate(sampleOccurrences(), testOptions())
	// Second event takes the first event's UID.
	duplicated := regexp.MustCompile(`UID:isu-workday-1-\d+`).ReplaceAllString(good, "UID:isu-workday-0-1756123500000")
	if strings.Count(duplicated, "UID:isu-workday-0-1756123500000@isu\r\n") != 2 {
		t.Fatalf("fixture does not repeat the first UID:\n%s", duplicated)
	}

	tests := []struct {
		name    string
		ics     string
		tzid    string
		wantErr string
	}{
		{
			name:    "wrong zone",
			ics:     good,
			tzid:    "America/New_York",
			wantErr: "TZID",
		},
		{
			name:    "duplicate uid",
			ics:     duplicated,
			tzid:    "America/Chicago",
			wantErr: "duplicate UID",
		},
		{
			name: "missing dtend",
			ics: strings.Join([]string{
				"BEGIN:VCALENDAR",
				"VERSION:2.0",
				"PRODID:-//Test//EN",
				"BEGIN:VEVENT",
				"UID:a@b",
				"DTSTAMP:20251015T190405Z",
				"DTSTART;TZID=America/Chicago:20250825T120500",
				"END:VEVENT",
				"END:VCALENDAR",
				"",
			}, "\r\n"),
			tzid:    "America/Chicago",
			wantErr: "missing DTEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.ics, tt.tzid)
			if err == nil {
				t.Fatal("Verify() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	occs := sampleOccurrences()
	occs[0].Title = "Seminar; Topics, Part\\1"

	summaries, err := Inspect(strings.NewReader(Generate(occs, testOptions())))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Inspect() = %d events, want 2", len(summaries))
	}

	first := summaries[0]
	if first.Title != "Seminar; Topics, Part\\1" {
		t.Errorf("Title = %q, want the unescaped original", first.Title)
	}
	if first.Location != "Howe Hall 1244" {
		t.Errorf("Location = %q", first.Location)
	}
	if first.Start != "20250825T120500" || first.End != "20250825T125500" {
		t.Errorf("Start/End = %q/%q", first.Start, first.End)
	}
	if first.TZID != "America/Chicago" {
		t.Errorf("TZID = %q", first.TZID)
	}
	if first.UID != "isu-workday-0-1756123500000@isu" {
		t.Errorf("UID = %q", first.UID)
	}
}

func TestInspect_Invalid(t *testing.T) {
	if _, err := Inspect(strings.NewReader("BEGIN:VCALENDAR\r\nnot a property line\r\n")); err == nil {
		t.Error("Inspect() expected error for malformed input")
	}
}
