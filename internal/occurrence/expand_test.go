package occurrence

import (
	"testing"
	"time"

	"github.com/pfrederiksen/workday-ics/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func pattern(days []schedule.Day, start, end schedule.TimeOfDay, dates schedule.DateRange) schedule.MeetingPattern {
	return schedule.MeetingPattern{
		Days:     days,
		Times:    &schedule.TimeRange{Start: start, End: end},
		Location: "Howe Hall 1244",
		Dates:    dates,
	}
}

func TestExpand_TwoWeekRange(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Monday, schedule.Wednesday},
		schedule.TimeOfDay{Hour: 9}, schedule.TimeOfDay{Hour: 9, Minute: 50},
		schedule.DateRange{Start: date(2025, 8, 25), End: date(2025, 9, 5)},
	)

	occs := Expand(p, "CS 101", Options{})

	if len(occs) != 4 {
		t.Fatalf("Expand() returned %d occurrences, want 4", len(occs))
	}

	perDay := make(map[time.Weekday]int)
	for _, o := range occs {
		perDay[o.Start.Weekday()]++

		if d := o.End.Sub(o.Start); d != 50*time.Minute {
			t.Errorf("occurrence %v lasts %v, want 50m", o.Start, d)
		}
		if o.Start.Before(date(2025, 8, 25)) || o.Start.After(date(2025, 9, 6)) {
			t.Errorf("occurrence %v outside the range", o.Start)
		}
		if o.Title != "CS 101" || o.Location != "Howe Hall 1244" {
			t.Errorf("occurrence carries %q / %q", o.Title, o.Location)
		}
	}

	if perDay[time.Monday] != 2 || perDay[time.Wednesday] != 2 {
		t.Errorf("per weekday = %v, want 2 Mondays and 2 Wednesdays", perDay)
	}

	want := []time.Time{
		time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 27, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC),
	}
	for i, w := range want {
		if !occs[i].Start.Equal(w) {
			t.Errorf("occs[%d].Start = %v, want %v", i, occs[i].Start, w)
		}
	}
}

func TestExpand_EndDateInclusive(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Friday},
		schedule.TimeOfDay{Hour: 13}, schedule.TimeOfDay{Hour: 14},
		schedule.DateRange{Start: date(2025, 8, 25), End: date(2025, 9, 5)},
	)

	occs := Expand(p, "MATH 165", Options{})
	if len(occs) != 2 {
		t.Fatalf("Expand() returned %d occurrences, want 2", len(occs))
	}
	if !occs[1].Start.Equal(time.Date(2025, 9, 5, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("last occurrence = %v, want the end date itself", occs[1].Start)
	}
}

func TestExpand_DefaultRange(t *testing.T) {
	// Wednesday afternoon; the default start is the following Monday.
	now := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)
	p := pattern(
		[]schedule.Day{schedule.Monday, schedule.Wednesday, schedule.Friday},
		schedule.TimeOfDay{Hour: 12, Minute: 5}, schedule.TimeOfDay{Hour: 12, Minute: 55},
		schedule.DateRange{},
	)

	occs := Expand(p, "CS 101", Options{Now: fixedNow(now)})

	first := date(2025, 10, 20)
	last := first.AddDate(0, 0, 112)

	// 17 Mondays (both ends inclusive), 16 Wednesdays, 16 Fridays.
	if len(occs) != 49 {
		t.Fatalf("Expand() returned %d occurrences, want 49", len(occs))
	}
	if !occs[0].Start.Equal(first.Add(12*time.Hour + 5*time.Minute)) {
		t.Errorf("first occurrence = %v", occs[0].Start)
	}
	for _, o := range occs {
		if o.Start.Before(first) || o.Start.After(last.Add(24*time.Hour)) {
			t.Errorf("occurrence %v outside default range", o.Start)
		}
		if o.Start.Hour() != 12 || o.Start.Minute() != 5 {
			t.Errorf("occurrence %v should start at 12:05", o.Start)
		}
	}
}

func TestExpand_PartialDates(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Tuesday},
		schedule.TimeOfDay{Hour: 8}, schedule.TimeOfDay{Hour: 9},
		schedule.DateRange{Start: date(2026, 1, 12)},
	)

	occs := Expand(p, "ENGL 150", Options{SemesterWeeks: 2})
	// Jan 13 and Jan 20; Jan 26 is the computed end.
	if len(occs) != 2 {
		t.Fatalf("Expand() returned %d occurrences, want 2", len(occs))
	}
}

func TestNextMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday is kept", time.Date(2025, 10, 20, 23, 0, 0, 0, time.UTC), date(2025, 10, 20)},
		{"tuesday", time.Date(2025, 10, 21, 8, 0, 0, 0, time.UTC), date(2025, 10, 27)},
		{"sunday", time.Date(2025, 10, 26, 8, 0, 0, 0, time.UTC), date(2025, 10, 27)},
		{"across year", time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), date(2026, 1, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMonday(tt.now); !got.Equal(tt.want) {
				t.Errorf("NextMonday(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestExpand_Unusable(t *testing.T) {
	tests := []struct {
		name string
		p    schedule.MeetingPattern
	}{
		{"no days", schedule.MeetingPattern{Times: &schedule.TimeRange{}}},
		{"no times", schedule.MeetingPattern{Days: []schedule.Day{schedule.Monday}}},
		{"nothing", schedule.MeetingPattern{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if occs := Expand(tt.p, "X", Options{}); len(occs) != 0 {
				t.Errorf("Expand() = %d occurrences, want 0", len(occs))
			}
		})
	}
}

func TestExpand_DegenerateDuration(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Thursday},
		schedule.TimeOfDay{Hour: 11}, schedule.TimeOfDay{Hour: 10},
		schedule.DateRange{Start: date(2025, 8, 25), End: date(2025, 9, 30)},
	)

	occs := Expand(p, "BIO 211", Options{})
	if len(occs) == 0 {
		t.Fatal("Expand() returned no occurrences")
	}
	for _, o := range occs {
		if !o.End.After(o.Start) {
			t.Errorf("end %v not after start %v", o.End, o.Start)
		}
		if d := o.End.Sub(o.Start); d != 50*time.Minute {
			t.Errorf("duration = %v, want 50m", d)
		}
	}

	occs = Expand(p, "BIO 211", Options{FallbackDuration: 75 * time.Minute})
	if d := occs[0].End.Sub(occs[0].Start); d != 75*time.Minute {
		t.Errorf("duration with override = %v, want 75m", d)
	}
}

func TestExpand_DuplicateDays(t *testing.T) {
	dates := schedule.DateRange{Start: date(2025, 8, 25), End: date(2025, 9, 7)}
	single := Expand(pattern([]schedule.Day{schedule.Monday}, schedule.TimeOfDay{Hour: 9}, schedule.TimeOfDay{Hour: 10}, dates), "X", Options{})
	double := Expand(pattern([]schedule.Day{schedule.Monday, schedule.Monday}, schedule.TimeOfDay{Hour: 9}, schedule.TimeOfDay{Hour: 10}, dates), "X", Options{})

	if len(double) != 2*len(single) {
		t.Errorf("duplicate weekday produced %d occurrences, want %d", len(double), 2*len(single))
	}
}

func TestExpand_EmissionOrder(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Friday, schedule.Monday},
		schedule.TimeOfDay{Hour: 9}, schedule.TimeOfDay{Hour: 10},
		schedule.DateRange{Start: date(2025, 8, 25), End: date(2025, 9, 7)},
	)

	occs := Expand(p, "X", Options{})
	wantDays := []time.Weekday{time.Friday, time.Friday, time.Monday, time.Monday}
	if len(occs) != len(wantDays) {
		t.Fatalf("Expand() returned %d occurrences, want %d", len(occs), len(wantDays))
	}
	for i, wd := range wantDays {
		if occs[i].Start.Weekday() != wd {
			t.Errorf("occs[%d] on %v, want %v", i, occs[i].Start.Weekday(), wd)
		}
	}

	Sort(occs)
	for i := 1; i < len(occs); i++ {
		if occs[i].Start.Before(occs[i-1].Start) {
			t.Fatalf("Sort() left %v before %v", occs[i-1].Start, occs[i].Start)
		}
	}
}

func TestExpand_EndBeforeStart(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Monday},
		schedule.TimeOfDay{Hour: 9}, schedule.TimeOfDay{Hour: 10},
		schedule.DateRange{Start: date(2025, 12, 1), End: date(2025, 8, 25)},
	)

	if occs := Expand(p, "X", Options{}); len(occs) != 0 {
		t.Errorf("Expand() = %d occurrences, want 0", len(occs))
	}
}

func TestExpand_MaxWeeksClamp(t *testing.T) {
	p := pattern(
		[]schedule.Day{schedule.Monday},
		schedule.TimeOfDay{Hour: 9}, schedule.TimeOfDay{Hour: 10},
		schedule.DateRange{Start: date(2025, 8, 25), End: date(2525, 8, 25)},
	)

	occs := Expand(p, "X", Options{MaxWeeks: 10})
	if len(occs) != 11 {
		t.Errorf("Expand() = %d occurrences, want 11 after clamping to 10 weeks", len(occs))
	}
}
