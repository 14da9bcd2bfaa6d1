package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/workday-ics/internal/occurrence"
	"github.com/pfrederiksen/workday-ics/internal/textnorm"
)

const (
	DefaultTZID      = "America/Chicago"
	DefaultProdID    = "-//ISU Workday Export//EN"
	DefaultUIDPrefix = "isu-workday"
	DefaultUIDDomain = "isu"
)

// Options controls the identity and zone of a generated calendar.
type Options struct {
	TZID      string
	ProdID    string
	UIDPrefix string
	UIDDomain string

	// CalendarName adds an X-WR-CALNAME header when set.
	CalendarName string

	// Now supplies the DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TZID == "" {
		o.TZID = DefaultTZID
	}
	if o.ProdID == "" {
		o.ProdID = DefaultProdID
	}
	if o.UIDPrefix == "" {
		o.UIDPrefix = DefaultUIDPrefix
	}
	if o.UIDDomain == "" {
		o.UIDDomain = DefaultUIDDomain
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Generate renders occurrences as one VCALENDAR, one VEVENT per occurrence in
// the given order. All events share a single DTSTAMP.
func Generate(occs []occurrence.Occurrence, opts Options) string {
	opts = opts.withDefaults()

	var ics strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&ics, format, args...)
		ics.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("CALSCALE:GREGORIAN")
	line("PRODID:%s", opts.ProdID)
	if opts.CalendarName != "" {
		line("X-WR-CALNAME:%s", escapeICS(opts.CalendarName))
	}

	// DTSTAMP - when this export was generated
	stamp := formatICSTime(opts.Now())

	for i, occ := range occs {
		line("BEGIN:VEVENT")
		line("UID:%s", eventUID(opts, i, occ))
		line("DTSTAMP:%s", stamp)
		line("SUMMARY:%s", escapeICS(occ.Title))
		line("LOCATION:%s", escapeICS(occ.Location))
		line("DTSTART;TZID=%s:%s", opts.TZID, formatLocalTime(occ.Start))
		line("DTEND;TZID=%s:%s", opts.TZID, formatLocalTime(occ.End))
		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	return ics.String()
}

// eventUID is unique within one export because the index is.
func eventUID(opts Options, index int, occ occurrence.Occurrence) string {
	return fmt.Sprintf("%s-%d-%d@%s", opts.UIDPrefix, index, occ.Start.UnixMilli(), opts.UIDDomain)
}

// formatICSTime formats a time.Time as a UTC iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocalTime formats the wall clock of t without any zone conversion
func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS normalizes whitespace and escapes special characters for iCalendar format
func escapeICS(s string) string {
	return textnorm.EscapeText(textnorm.Normalize(s))
}
