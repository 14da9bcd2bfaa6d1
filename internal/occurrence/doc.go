// Package occurrence expands a weekly meeting pattern into concrete class
// meetings.
//
// Occurrence times are wall-clock values. They are built in UTC purely as a
// carrier and are never converted; the serializer tags them with the
// configured TZID so the calendar application applies the offset.
package occurrence
