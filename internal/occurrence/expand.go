package occurrence

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/pfrederiksen/workday-ics/internal/logger"
	"github.com/pfrederiksen/workday-ics/internal/schedule"
)

const (
	DefaultSemesterWeeks    = 16
	DefaultFallbackDuration = 50 * time.Minute
	DefaultMaxWeeks         = 520
)

// Occurrence is one dated class meeting.
type Occurrence struct {
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Options controls expansion defaults. Zero fields take the Default* values.
type Options struct {
	// Now supplies the current date for the default start. Defaults to time.Now.
	Now func() time.Time

	// SemesterWeeks is the span used when a pattern has no end date.
	SemesterWeeks int

	// FallbackDuration replaces the meeting length when the parsed end time
	// is not after the start time.
	FallbackDuration time.Duration

	// MaxWeeks caps the expanded range so a garbled year cannot produce an
	// unbounded number of occurrences.
	MaxWeeks int
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.SemesterWeeks <= 0 {
		o.SemesterWeeks = DefaultSemesterWeeks
	}
	if o.FallbackDuration <= 0 {
		o.FallbackDuration = DefaultFallbackDuration
	}
	if o.MaxWeeks <= 0 {
		o.MaxWeeks = DefaultMaxWeeks
	}
	return o
}

// Expand produces every occurrence of p between its effective start and end
// dates. Patterns without days or times yield nothing.
//
// Occurrences are grouped by weekday in the order the days appear in the
// pattern, and are chronological within each weekday. The result is not
// sorted across weekdays; use Sort for a total order. A weekday listed twice
// is expanded twice.
func Expand(p schedule.MeetingPattern, title string, opts Options) []Occurrence {
	if !p.Usable() {
		return nil
	}
	opts = opts.withDefaults()

	start, end := effectiveRange(p.Dates, opts)

	if limit := start.AddDate(0, 0, 7*opts.MaxWeeks); end.After(limit) {
		logger.Warn("Date range clamped", logger.Fields{
			"title":     title,
			"start":     start.Format(time.DateOnly),
			"end":       end.Format(time.DateOnly),
			"max_weeks": opts.MaxWeeks,
		})
		end = limit
	}

	out := make([]Occurrence, 0)
	for _, day := range p.Days {
		for _, date := range weeklyDates(day, start, end) {
			occStart := date.Add(p.Times.Start.Duration())
			occEnd := date.Add(p.Times.End.Duration())
			if !occEnd.After(occStart) {
				occEnd = occStart.Add(opts.FallbackDuration)
			}

			out = append(out, Occurrence{
				Title:    title,
				Location: p.Location,
				Start:    occStart,
				End:      occEnd,
			})
		}
	}

	return out
}

// NextMonday returns the date of the first Monday on or after t, at midnight
// UTC. t's own wall-clock date is used.
func NextMonday(t time.Time) time.Time {
	d := dateOf(t)
	delta := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, delta)
}

// Sort orders occurrences by start time, keeping emission order for ties.
func Sort(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		return occs[i].Start.Before(occs[j].Start)
	})
}

func effectiveRange(dates schedule.DateRange, opts Options) (start, end time.Time) {
	start = NextMonday(opts.Now())
	if dates.HasStart() {
		start = dateOf(dates.Start)
	}

	end = start.AddDate(0, 0, 7*opts.SemesterWeeks)
	if dates.HasEnd() {
		end = dateOf(dates.End)
	}
	return start, end
}

// weeklyDates lists every date falling on day from start through end,
// inclusive, at midnight UTC.
func weeklyDates(day schedule.Day, start, end time.Time) []time.Time {
	wd, ok := day.Weekday()
	if !ok || end.Before(start) {
		return nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Until:     end,
		Byweekday: []rrule.Weekday{rruleWeekdays[wd]},
	})
	if err != nil {
		logger.Error("Building weekly rule failed", logger.Fields{"day": string(day)}, err)
		return nil
	}

	return r.All()
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
