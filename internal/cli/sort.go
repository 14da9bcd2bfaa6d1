package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/workday-ics/internal/calendar"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortDocument SortOrder = "document"
	SortByStart  SortOrder = "start"
	SortByTitle  SortOrder = "title"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortDocument, SortByStart, SortByTitle:
		return order, nil
	case "":
		return SortDocument, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'document', 'start' or 'title')", s)
}

// sortEvents sorts event summaries based on the specified sort order. The
// document order is kept for SortDocument and for ties.
func sortEvents(events []calendar.EventSummary, sortOrder SortOrder) {
	switch sortOrder {
	case SortByStart:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByStart(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by start
			return compareByStart(events[i], events[j])
		})
	}
}

// compareByStart compares two events by their start value
// Returns true if event i should come before event j
func compareByStart(i, j calendar.EventSummary) bool {
	// Local ICS date-times (YYYYMMDDTHHMMSS) sort lexicographically.
	if i.Start != "" && j.Start != "" {
		return i.Start < j.Start
	}

	// If only one start is set, put the set one first
	if i.Start != "" {
		return true
	}
	return false
}
