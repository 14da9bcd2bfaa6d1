// Package reconcile turns the plain-text bundle scraped from one enrollment
// row into parser-ready meeting patterns.
//
// The scraper hands over every text source it could find for a row; this
// package decides which one to trust. It never sees markup.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/workday-ics/internal/schedule"
	"github.com/pfrederiksen/workday-ics/internal/textnorm"
)

// DefaultTitle is used when a row exposes no course title at all.
const DefaultTitle = "Course"

// Row is the text of one enrollment row, in the order the sources should be
// preferred.
type Row struct {
	// Title is the designated course-listing field.
	Title string
	// Cells is the displayed text of every cell, left to right.
	Cells []string

	// MeetingAttrs are accessible-label or title attribute values found in
	// the meeting-pattern cell.
	MeetingAttrs []string
	// MeetingText is the displayed text of the meeting-pattern cell.
	MeetingText string
	// Descendants is the text of every element in the row, used when the
	// meeting-pattern cell is missing.
	Descendants []string

	StartDateText string
	EndDateText   string
	// DateTexts is every text fragment of the row, scanned for dates when the
	// designated fields are empty.
	DateTexts []string
}

// Resolved is what one row contributes to the export.
type Resolved struct {
	Title    string
	Dates    schedule.DateRange
	Patterns []schedule.MeetingPattern
}

// CourseTitle prefers the designated field, then the first non-empty cell,
// then placeholder.
func CourseTitle(row Row, placeholder string) string {
	if title := textnorm.Normalize(row.Title); title != "" {
		return title
	}
	for _, cell := range row.Cells {
		if c := textnorm.Normalize(cell); c != "" {
			return c
		}
	}
	if placeholder == "" {
		return DefaultTitle
	}
	return placeholder
}

// MeetingText picks the row's meeting-pattern text. An attribute holding a
// time range wins over the displayed text, which wins over any other text in
// the row. Empty means the row has no schedule.
func MeetingText(row Row) string {
	for _, attr := range row.MeetingAttrs {
		if a := textnorm.Normalize(attr); schedule.HasTimeRange(a) {
			return a
		}
	}
	if text := textnorm.Normalize(row.MeetingText); schedule.HasTimeRange(text) {
		return text
	}
	for _, d := range row.Descendants {
		if text := textnorm.Normalize(d); schedule.HasTimeRange(text) {
			return text
		}
	}
	return ""
}

// RowDates reads the row-level start and end dates. An endpoint missing from
// its designated field is filled from the first (start) or last (end) date
// found anywhere in the row.
func RowDates(row Row) schedule.DateRange {
	var r schedule.DateRange
	if d, ok := schedule.ParseDate(textnorm.Normalize(row.StartDateText)); ok {
		r.Start = d
	}
	if d, ok := schedule.ParseDate(textnorm.Normalize(row.EndDateText)); ok {
		r.End = d
	}

	if !r.HasStart() || !r.HasEnd() {
		first, last := schedule.FindDates(row.DateTexts)
		r = r.Fill(schedule.DateRange{Start: first, End: last})
	}
	return r
}

// Candidates rebuilds meeting text into "DAYS TIME • LOCATION" strings so the
// parser sees one shape regardless of how the portal laid the cell out. Text
// without a time segment is passed through unchanged.
func Candidates(text string) []string {
	segments := schedule.SplitSegments(text)
	ti := schedule.TimeSegmentIndex(segments)
	if ti < 0 {
		return []string{text}
	}

	var days string
	if ti > 0 {
		days = segments[ti-1]
	}

	candidate := fmt.Sprintf("%s %s", days, segments[ti])
	if loc := strings.Join(segments[ti+1:], " "); loc != "" {
		candidate += " • " + loc
	}
	return []string{textnorm.Normalize(candidate)}
}

// Resolve reconciles one row. Rows without meeting text and candidates that
// do not parse into a usable pattern are dropped silently. Row-level dates
// only fill in what a fragment did not state itself.
func Resolve(row Row, placeholder string) Resolved {
	res := Resolved{
		Title: CourseTitle(row, placeholder),
		Dates: RowDates(row),
	}

	text := MeetingText(row)
	if text == "" {
		return res
	}

	for _, cand := range Candidates(text) {
		p := schedule.Parse(cand)
		if !p.Usable() {
			continue
		}
		p.Dates = p.Dates.Fill(res.Dates)
		res.Patterns = append(res.Patterns, p)
	}

	return res
}
