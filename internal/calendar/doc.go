// Package calendar writes class occurrences as an iCalendar (RFC 5545)
// document and reads such documents back for verification and inspection.
//
// Start and end values are written as local wall-clock times tagged with a
// single TZID; no VTIMEZONE block is emitted and no zone database lookup is
// performed. DTSTAMP is the only UTC value.
package calendar
