package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// timeRangePattern recognizes "12:05 PM - 12:55 PM" style ranges. The
	// separator may be a hyphen or an en dash.
	timeRangePattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*[AP]M\s*[-–]\s*\d{1,2}:\d{2}\s*[AP]M\b`)
	timeRangeCapture = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[AP]M)\s*[-–]\s*(\d{1,2}:\d{2}\s*[AP]M)`)
	timeTokenPattern = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*[AP]M`)
	time12hPattern   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*([AP]M)$`)

	datePattern      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dateRangePattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*[-–]\s*(\d{1,2}/\d{1,2}/\d{4})`)
)

var singleLetterDays = map[byte]Day{
	'M': Monday,
	'T': Tuesday,
	'W': Wednesday,
	'R': Thursday,
	'F': Friday,
}

// ParseDays reads weekday codes out of a compact day string such as "MWF",
// "TuTh", "TR" or "MoWeFr". Whitespace is ignored, multi-letter abbreviations
// win over single letters and anything unrecognized is skipped. Duplicates are
// kept in input order.
func ParseDays(s string) []Day {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	days := make([]Day, 0, len(compact))
	for i := 0; i < len(compact); {
		if i+3 <= len(compact) {
			switch strings.ToLower(compact[i : i+3]) {
			case "sat":
				days = append(days, Saturday)
				i += 3
				continue
			case "sun":
				days = append(days, Sunday)
				i += 3
				continue
			}
		}

		if i+2 <= len(compact) {
			switch compact[i : i+2] {
			case "Th":
				days = append(days, Thursday)
				i += 2
				continue
			case "Tu":
				days = append(days, Tuesday)
				i += 2
				continue
			case "Sa":
				days = append(days, Saturday)
				i += 2
				continue
			case "Su":
				days = append(days, Sunday)
				i += 2
				continue
			}
		}

		if d, ok := singleLetterDays[compact[i]]; ok {
			days = append(days, d)
		}
		i++
	}

	return days
}

// HasTimeRange reports whether s contains an "H:MM AM - H:MM PM" range.
func HasTimeRange(s string) bool {
	return timeRangePattern.MatchString(s)
}

// ParseTime12h parses a single 12-hour clock value like "1:05 PM" or
// "12:00am". The hour must be 1-12 and the minute 00-59.
func ParseTime12h(s string) (TimeOfDay, bool) {
	m := time12hPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return TimeOfDay{}, false
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return TimeOfDay{}, false
	}

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}

	return TimeOfDay{Hour: hour, Minute: minute}, true
}

// FindTimeRange parses the first time range found anywhere in s. ok is false
// when there is no range or either end is not a valid 12-hour time.
func FindTimeRange(s string) (TimeRange, bool) {
	m := timeRangeCapture.FindStringSubmatch(s)
	if m == nil {
		return TimeRange{}, false
	}

	start, ok := ParseTime12h(m[1])
	if !ok {
		return TimeRange{}, false
	}
	end, ok := ParseTime12h(m[2])
	if !ok {
		return TimeRange{}, false
	}

	return TimeRange{Start: start, End: end}, true
}

// ParseDate parses the first M/D/YYYY date in s as midnight UTC. Dates that
// do not exist on the calendar (2/30/2025) are rejected.
func ParseDate(s string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	return dateFromParts(m[1], m[2], m[3])
}

// FindDates scans texts in order and returns the first date of the first text
// that has one and the first date of the last text that has one. Both are zero
// when no text contains a date.
func FindDates(texts []string) (first, last time.Time) {
	for _, text := range texts {
		d, ok := ParseDate(text)
		if !ok {
			continue
		}
		if first.IsZero() {
			first = d
		}
		last = d
	}
	return first, last
}

// FindDateRange parses an embedded "M/D/YYYY - M/D/YYYY" range. ok is true
// when the range text is present; an endpoint that is not a real date is left
// unset.
func FindDateRange(s string) (DateRange, bool) {
	m := dateRangePattern.FindStringSubmatch(s)
	if m == nil {
		return DateRange{}, false
	}

	var r DateRange
	if d, ok := ParseDate(m[1]); ok {
		r.Start = d
	}
	if d, ok := ParseDate(m[2]); ok {
		r.End = d
	}
	return r, true
}

func dateFromParts(month, day, year string) (time.Time, bool) {
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
