package calendar

import (
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"
)

// Verify parses a generated document back and checks that every event has a
// UID and that DTSTART and DTEND carry the expected TZID. It returns the
// number of events.
func Verify(ics, tzid string) (int, error) {
	if tzid == "" {
		tzid = DefaultTZID
	}

	cal, err := ical.ParseCalendar(strings.NewReader(ics))
	if err != nil {
		return 0, fmt.Errorf("parsing calendar: %w", err)
	}

	events := cal.Events()
	seen := make(map[string]bool, len(events))

	for i, ev := range events {
		uid := ev.GetProperty(ical.ComponentPropertyUniqueId)
		if uid == nil || uid.Value == "" {
			return 0, fmt.Errorf("event %d: missing UID", i)
		}
		if seen[uid.Value] {
			return 0, fmt.Errorf("event %d: duplicate UID %s", i, uid.Value)
		}
		seen[uid.Value] = true

		for _, name := range []ical.ComponentProperty{ical.ComponentPropertyDtStart, ical.ComponentPropertyDtEnd} {
			prop := ev.GetProperty(name)
			if prop == nil || prop.Value == "" {
				return 0, fmt.Errorf("event %d: missing %s", i, name)
			}
			if tz := prop.ICalParameters["TZID"]; len(tz) == 0 || tz[0] != tzid {
				return 0, fmt.Errorf("event %d: %s has TZID %v, want %s", i, name, tz, tzid)
			}
		}
	}

	return len(events), nil
}
