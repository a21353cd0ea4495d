// Package filter narrows a list of fight cards for display and announcements.
//
// Criteria:
//   - Date ranges (from/to instants, compared against the card start)
//   - Locations (substring matching, case-insensitive)
//   - Bouts (substring matching against title and headline bout, case-insensitive)
//   - Weekends only (Friday night through Sunday in the card's start zone)
//   - Upcoming only (cards that have not finished yet)
//
// Example usage:
//
//	from, to, _ := filter.ParseDateRange("March", time.Now(), chicago)
//	f := filter.NewFilter()
//	f.DateFrom, f.DateTo = from, to
//	f.Locations = []string{"Las Vegas"}
//
//	filtered := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// Filter represents card filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Location filtering (case-insensitive substring match)
	Locations []string `json:"locations,omitempty"`

	// Bout filtering against title and headline bout (case-insensitive substring match)
	Bouts []string `json:"bouts,omitempty"`

	// Friday, Saturday or Sunday cards only
	WeekendsOnly bool `json:"weekends_only,omitempty"`

	// Drop cards that ended before Now
	UpcomingOnly bool             `json:"upcoming_only,omitempty"`
	Now          func() time.Time `json:"-"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Locations: []string{},
		Bouts:     []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all events.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Locations) == 0 &&
		len(f.Bouts) == 0 &&
		!f.WeekendsOnly &&
		!f.UpcomingOnly
}

// Matches checks if a card matches all active filter criteria.
// An empty filter matches all cards.
//
// Matching logic:
//   - Date range: card start must be within DateFrom and DateTo (inclusive)
//   - Locations: card location must contain at least one entry
//   - Bouts: card title or headline bout must contain at least one entry
//   - WeekendsOnly: card must start on Friday, Saturday or Sunday
//   - UpcomingOnly: card must not have ended
func (f *Filter) Matches(evt *event.Event) bool {
	// Empty filter matches all events
	if f.IsEmpty() {
		return true
	}

	start := evt.Start

	// Check date range
	if f.DateFrom != nil && !start.IsZero() && start.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !start.IsZero() && start.After(*f.DateTo) {
		return false
	}

	// Check weekends only
	if f.WeekendsOnly && !start.IsZero() {
		switch start.Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
		default:
			return false
		}
	}

	if f.UpcomingOnly {
		now := time.Now
		if f.Now != nil {
			now = f.Now
		}
		if evt.IsPast(now()) {
			return false
		}
	}

	if len(f.Locations) > 0 && !containsAny(evt.Location, f.Locations) {
		return false
	}

	if len(f.Bouts) > 0 && !containsAny(evt.Title+"\n"+evt.HeadlineBout, f.Bouts) {
		return false
	}

	return true
}

// containsAny reports whether s contains at least one needle, ignoring case.
func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// Apply applies the filter to a list of events and returns only matching events.
// If the filter is empty, returns the original list unchanged.
// Otherwise, returns a new slice containing only events that match all criteria.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "From: Mar 1, 2026 | To: Mar 31, 2026 | Locations: Las Vegas | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if len(f.Locations) > 0 {
		parts = append(parts, fmt.Sprintf("Locations: %s", strings.Join(f.Locations, ", ")))
	}

	if len(f.Bouts) > 0 {
		parts = append(parts, fmt.Sprintf("Bouts: %s", strings.Join(f.Bouts, ", ")))
	}

	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	if f.UpcomingOnly {
		parts = append(parts, "Upcoming only")
	}

	return strings.Join(parts, " | ")
}
