package schedule

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/workday-ics/internal/textnorm"
)

var (
	bulletSplitPattern = regexp.MustCompile(`•|·|\s\|\s`)
	leadingDaysPattern = regexp.MustCompile(`^([A-Za-z]{1,12})\s+\d{1,2}:`)
)

// input is the fragment as every strategy sees it.
type input struct {
	text     string
	segments []string
}

// draft accumulates what a strategy extracted. It is passed and returned by
// value; the with* methods return modified copies.
type draft struct {
	days     []Day
	times    *TimeRange
	location string
	// matched is set once a strategy found a time range to anchor on.
	matched bool
}

func (d draft) withDays(days []Day) draft {
	d.days = append([]Day(nil), days...)
	return d
}

func (d draft) withTimes(tr TimeRange) draft {
	d.times = &tr
	return d
}

func (d draft) withLocation(loc string) draft {
	d.location = textnorm.Normalize(loc)
	return d
}

func (d draft) anchored() draft {
	d.matched = true
	return d
}

func (d draft) usable() bool {
	return len(d.days) > 0 && d.times != nil
}

func (d draft) pattern() MeetingPattern {
	p := MeetingPattern{
		Days:     append([]Day{}, d.days...),
		Location: d.location,
	}
	if d.times != nil {
		tr := *d.times
		p.Times = &tr
	}
	return p
}

// strategy extracts a draft from the input. Strategies never fail; they
// return whatever they could recognize, possibly nothing.
type strategy func(in input) draft

// strategies is tried in order by Parse.
var strategies = []strategy{
	segmentedStrategy,
	freeformStrategy,
}

// segmentedStrategy handles "DAYS | TIME | LOCATION" layouts. Days come from
// the segment right before the time segment, or from text glued in front of
// the first time ("MWF 12:05 PM - 12:55 PM"). Location is everything after.
func segmentedStrategy(in input) draft {
	var d draft

	ti := TimeSegmentIndex(in.segments)
	if ti < 0 {
		return d
	}
	d = d.anchored()

	seg := in.segments[ti]
	if tr, ok := FindTimeRange(seg); ok {
		d = d.withTimes(tr)
	}

	var days []Day
	if ti > 0 {
		days = ParseDays(in.segments[ti-1])
	}
	if len(days) == 0 {
		days = ParseDays(gluedPrefix(seg))
	}
	d = d.withDays(days)

	return d.withLocation(strings.Join(in.segments[ti+1:], " "))
}

// freeformStrategy handles text where no single segment holds the time
// range, e.g. "MoWeFr 11:00 AM - 11:50 AM • Howe Hall 1244".
func freeformStrategy(in input) draft {
	var d draft

	if timeRangeCapture.MatchString(in.text) {
		d = d.anchored()
	}
	if tr, ok := FindTimeRange(in.text); ok {
		d = d.withTimes(tr)
	}

	if m := leadingDaysPattern.FindStringSubmatch(in.text); m != nil {
		d = d.withDays(ParseDays(m[1]))
	}

	chunks := bulletSplitPattern.Split(in.text, -1)
	for i, chunk := range chunks {
		if !HasTimeRange(textnorm.Normalize(chunk)) {
			continue
		}
		if i+1 < len(chunks) {
			d = d.withLocation(chunks[i+1])
		}
		break
	}

	return d
}

// resolve runs the chain and returns the first usable draft. When none is
// usable the first anchored draft is returned so callers still see partial
// results, otherwise an empty draft.
func resolve(in input, chain []strategy) draft {
	var fallback draft
	for _, s := range chain {
		d := s(in)
		if d.usable() {
			return d
		}
		if d.matched && !fallback.matched {
			fallback = d
		}
	}
	return fallback
}

// gluedPrefix returns the text in front of the first time token of seg.
func gluedPrefix(seg string) string {
	loc := timeTokenPattern.FindStringIndex(seg)
	if loc == nil {
		return ""
	}
	return textnorm.Normalize(seg[:loc[0]])
}
