// Package schedule turns raw meeting-pattern text into a normalized model.
//
// A meeting pattern is the loosely formatted string the enrollment portal
// shows for a class section, for example:
//
//	MWF | 12:05 PM - 12:55 PM | Howe Hall 1244
//	TR 9:30 AM - 10:45 AM
//	MoWeFr 11:00 AM - 11:50 AM • Howe Hall 1244 • 8/25/2025 - 12/12/2025
//
// Parse tries an ordered chain of extraction strategies over the segmented
// fragment and returns the first result that carries both days and times.
// The token extractors (days, 12-hour times, M/D/YYYY dates) are exported so
// the row reconciliation layer can reuse them.
package schedule
