package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByLocation SortOrder = "location"
	SortByTitle    SortOrder = "title"
)

// parseSortOrder validates a --sort value.
func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByLocation, SortByTitle:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'date', 'location' or 'title')", s)
	}
}

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByLocation:
		sort.SliceStable(events, func(i, j int) bool {
			li, lj := strings.ToLower(events[i].Location), strings.ToLower(events[j].Location)
			if li != lj {
				return li < lj
			}
			// If locations are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their start
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	if !i.Start.Equal(j.Start) {
		return i.Start.Before(j.Start)
	}
	// Same start, sort by location then title
	if i.Location != j.Location {
		return strings.ToLower(i.Location) < strings.ToLower(j.Location)
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
