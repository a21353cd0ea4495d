package event

import (
	"testing"
	"time"
)

func TestIsPast(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		evt  *Event
		want bool
	}{
		{"finished yesterday", &Event{End: now.Add(-24 * time.Hour)}, true},
		{"still running", &Event{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}, false},
		{"unknown end", &Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evt.IsPast(now); got != tt.want {
				t.Errorf("IsPast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	if !(&Event{Start: now.Add(time.Hour)}).IsUpcoming(now) {
		t.Error("card starting in an hour should be upcoming")
	}
	if (&Event{Start: now.Add(-time.Hour)}).IsUpcoming(now) {
		t.Error("card that started an hour ago should not be upcoming")
	}
	if !(&Event{}).IsUpcoming(now) {
		t.Error("card with unknown start should be treated as upcoming")
	}
}

func TestIsWithinDays(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		days  int
		want  bool
	}{
		{"disabled", now.AddDate(0, 0, 100), 0, true},
		{"inside window", now.AddDate(0, 0, 3), 7, true},
		{"outside window", now.AddDate(0, 0, 10), 7, false},
		{"already started", now.Add(-time.Hour), 7, false},
		{"unknown start", time.Time{}, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{Start: tt.start}
			if got := evt.IsWithinDays(now, tt.days); got != tt.want {
				t.Errorf("IsWithinDays(%d) = %v, want %v", tt.days, got, tt.want)
			}
		})
	}
}
