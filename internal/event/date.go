package event

import "time"

// IsPast reports whether the card has already finished at now.
func (e *Event) IsPast(now time.Time) bool {
	if e.End.IsZero() {
		return false // Can't determine, don't filter
	}
	return e.End.Before(now)
}

// IsUpcoming reports whether the card has not started yet at now.
// Returns true if the start is unknown.
func (e *Event) IsUpcoming(now time.Time) bool {
	if e.Start.IsZero() {
		return true
	}
	return e.Start.After(now)
}

// IsWithinDays checks if the card starts within the next N days.
// Returns true if days <= 0 (feature disabled) or the start is unknown.
func (e *Event) IsWithinDays(now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	if e.Start.IsZero() {
		return true
	}
	cutoff := now.AddDate(0, 0, days)
	return e.Start.After(now) && e.Start.Before(cutoff)
}
