package event

import (
	"testing"
	"time"
)

func testEvent(day int, location, bout string, hour int) *Event {
	date := time.Date(2026, time.February, day, 0, 0, 0, 0, time.UTC)
	start := date.Add(time.Duration(hour) * time.Hour)
	title := bout
	if title == "" {
		title = "Boxing card – " + location
	}
	return &Event{
		UID:          GenerateUID(date, location, bout, "test"),
		StableKey:    GenerateStableKey(date, location),
		Title:        title,
		Start:        start,
		End:          start.Add(3 * time.Hour),
		Location:     location,
		HeadlineBout: bout,
	}
}

func TestDiff(t *testing.T) {
	now := time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)

	known := testEvent(5, "Montreal, Quebec, Canada", "Albert Ramirez versus Lerrone Richards", 19)
	known.FirstSeen = earlier
	previous := CreateSnapshot([]*Event{known}, earlier.Format(time.RFC3339))

	t.Run("finds new events", func(t *testing.T) {
		again := testEvent(5, "Montreal, Quebec, Canada", "Albert Ramirez versus Lerrone Richards", 19)
		later := testEvent(7, "London, England", "", 20)
		sooner := testEvent(6, "Guadalajara, Mexico", "Juan Perez versus Luis Lopez", 19)

		result := Diff(previous, []*Event{again, later, sooner}, now)

		if len(result.NewEvents) != 2 {
			t.Fatalf("expected 2 new events, got %d", len(result.NewEvents))
		}
		if result.NewEvents[0].UID != sooner.UID || result.NewEvents[1].UID != later.UID {
			t.Error("new events should be sorted by start time")
		}
		if !sooner.FirstSeen.Equal(now) {
			t.Errorf("new event FirstSeen = %s, want %s", sooner.FirstSeen, now)
		}
		if !again.FirstSeen.Equal(earlier) {
			t.Errorf("known event FirstSeen = %s, want %s", again.FirstSeen, earlier)
		}
		if len(result.Changes) != 0 {
			t.Errorf("expected no changes, got %d", len(result.Changes))
		}
	})

	t.Run("headline change matched by stable key", func(t *testing.T) {
		swapped := testEvent(5, "Montreal, Quebec, Canada", "Albert Ramirez versus Dmitry Bivol", 20)

		result := Diff(previous, []*Event{swapped}, now)

		if len(result.NewEvents) != 0 {
			t.Errorf("expected no new events, got %d", len(result.NewEvents))
		}
		if len(result.Changes) != 2 {
			t.Fatalf("expected start and title changes, got %d", len(result.Changes))
		}
		if result.Changes[0].ChangeType != "start" || result.Changes[1].ChangeType != "title" {
			t.Errorf("unexpected change types %s, %s", result.Changes[0].ChangeType, result.Changes[1].ChangeType)
		}
		if result.Changes[1].OldValue != known.Title {
			t.Errorf("OldValue = %q, want %q", result.Changes[1].OldValue, known.Title)
		}
	})

	t.Run("nil previous snapshot", func(t *testing.T) {
		evt := testEvent(8, "Cardiff, Wales", "", 21)
		result := Diff(nil, []*Event{evt}, now)
		if len(result.NewEvents) != 1 {
			t.Errorf("expected every event to be new, got %d", len(result.NewEvents))
		}
	})
}

func TestDetectChanges(t *testing.T) {
	now := time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC)
	prev := testEvent(5, "London, England", "", 20)

	t.Run("new card", func(t *testing.T) {
		changes := DetectChanges(nil, prev, now)
		if len(changes) != 1 || changes[0].ChangeType != "new" {
			t.Fatalf("expected a single new change, got %+v", changes)
		}
	})

	t.Run("info change", func(t *testing.T) {
		cur := testEvent(5, "London, England", "", 20)
		cur.Info = "Sky Sports | 10:00 PM UK"

		changes := DetectChanges(prev, cur, now)
		if len(changes) != 1 || changes[0].ChangeType != "info" {
			t.Fatalf("expected a single info change, got %+v", changes)
		}
		if changes[0].NewValue != cur.Info {
			t.Errorf("NewValue = %q, want %q", changes[0].NewValue, cur.Info)
		}
	})

	t.Run("unchanged", func(t *testing.T) {
		if changes := DetectChanges(prev, prev, now); len(changes) != 0 {
			t.Errorf("expected no changes, got %d", len(changes))
		}
	})
}

func TestCompareSnapshots(t *testing.T) {
	now := time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC)

	a := testEvent(5, "London, England", "", 20)
	b := testEvent(6, "Cardiff, Wales", "", 20)
	previous := CreateSnapshot([]*Event{a}, "")

	moved := testEvent(5, "London, England", "", 21)
	current := CreateSnapshot([]*Event{moved, b}, "")

	changes := CompareSnapshots(previous, current, now)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}

	kinds := map[string]bool{}
	for _, c := range changes {
		kinds[c.ChangeType] = true
	}
	if !kinds["start"] || !kinds["new"] {
		t.Errorf("expected start and new changes, got %v", kinds)
	}

	if got := CompareSnapshots(nil, current, now); len(got) != 2 {
		t.Errorf("nil previous should report every card as new, got %d", len(got))
	}
}

func TestAppendChanges(t *testing.T) {
	snap := NewSnapshot()
	batch := make([]*EventChange, maxChangeLog+10)
	for i := range batch {
		batch[i] = &EventChange{UID: "uid", ChangeType: "new"}
	}
	batch[len(batch)-1].UID = "last"

	snap.AppendChanges(batch)

	if len(snap.ChangeLog) != maxChangeLog {
		t.Errorf("change log length = %d, want %d", len(snap.ChangeLog), maxChangeLog)
	}
	if snap.ChangeLog[len(snap.ChangeLog)-1].UID != "last" {
		t.Error("most recent change should be kept")
	}
}
