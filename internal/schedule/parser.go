package schedule

import (
	"regexp"

	"github.com/pfrederiksen/workday-ics/internal/textnorm"
)

// segmentSplitPattern separates the fields of a meeting pattern: newlines,
// semicolons, bullets and pipes (with or without padding).
var segmentSplitPattern = regexp.MustCompile(`\n|;|•|·|\s*\|\s*`)

// SplitSegments splits text on meeting-pattern separators and returns the
// normalized, non-empty segments in order.
func SplitSegments(text string) []string {
	parts := segmentSplitPattern.Split(text, -1)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = textnorm.Normalize(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// TimeSegmentIndex returns the index of the first segment holding a time
// range, or -1.
func TimeSegmentIndex(segments []string) int {
	for i, seg := range segments {
		if HasTimeRange(seg) {
			return i
		}
	}
	return -1
}

// Parse extracts a MeetingPattern from one raw fragment. It never fails: when
// nothing is recognized the pattern comes back with empty days and nil times,
// so callers must check Usable before expanding it.
//
// An explicit "M/D/YYYY - M/D/YYYY" range anywhere in the fragment is
// attached as the pattern's date range.
func Parse(fragment string) MeetingPattern {
	text := textnorm.Normalize(fragment)
	in := input{
		text:     text,
		segments: SplitSegments(text),
	}

	p := resolve(in, strategies).pattern()

	if dr, ok := FindDateRange(text); ok {
		p.Dates = dr
	}

	return p
}
