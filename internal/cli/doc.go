// Package cli implements the command-line interface for workday-ics.
//
// The cli package provides the Cobra-based CLI with three commands: export
// converts a saved enrollment page into an .ics file, parse shows how
// meeting-pattern text is understood, and inspect lists the events of an
// existing calendar. Output is text or JSON. Export exits with code 2 when the
// page holds no class meetings, so scripts can tell an empty schedule apart
// from a failure.
package cli
