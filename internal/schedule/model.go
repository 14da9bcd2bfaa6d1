package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Day is a two-letter iCalendar weekday code.
type Day string

const (
	Sunday    Day = "SU"
	Monday    Day = "MO"
	Tuesday   Day = "TU"
	Wednesday Day = "WE"
	Thursday  Day = "TH"
	Friday    Day = "FR"
	Saturday  Day = "SA"
)

var dayWeekdays = map[Day]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

// Weekday maps the code to a time.Weekday. ok is false for unknown codes.
func (d Day) Weekday() (wd time.Weekday, ok bool) {
	wd, ok = dayWeekdays[d]
	return wd, ok
}

// TimeOfDay is a wall-clock time with no date or zone attached.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText renders the time as HH:MM.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Duration returns the offset of t from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

// TimeRange holds a start and an end time. Keeping both in one value means a
// pattern either has both or neither.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// DateRange is an optional pair of calendar dates. Each endpoint is unset when
// it holds the zero time. Dates are midnight UTC values.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// HasStart reports whether the start date is set.
func (r DateRange) HasStart() bool { return !r.Start.IsZero() }

// HasEnd reports whether the end date is set.
func (r DateRange) HasEnd() bool { return !r.End.IsZero() }

// Fill returns r with any unset endpoint taken from fallback.
func (r DateRange) Fill(fallback DateRange) DateRange {
	if !r.HasStart() {
		r.Start = fallback.Start
	}
	if !r.HasEnd() {
		r.End = fallback.End
	}
	return r
}

// MarshalJSON renders set endpoints as YYYY-MM-DD and omits unset ones.
func (r DateRange) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, 2)
	if r.HasStart() {
		out["start"] = r.Start.Format(time.DateOnly)
	}
	if r.HasEnd() {
		out["end"] = r.End.Format(time.DateOnly)
	}
	return json.Marshal(out)
}

// MeetingPattern is the parsed form of one meeting-pattern fragment.
type MeetingPattern struct {
	Days     []Day      `json:"days"`
	Times    *TimeRange `json:"times,omitempty"`
	Location string     `json:"location"`
	Dates    DateRange  `json:"dates"`
}

// Usable reports whether the pattern has enough information to expand into
// calendar occurrences.
func (p MeetingPattern) Usable() bool {
	return len(p.Days) > 0 && p.Times != nil
}
