package event

import (
	"sort"
	"time"
)

// Snapshot represents the cards seen on the schedule at a point in time
type Snapshot struct {
	Events      map[string]*Event `json:"events"`       // keyed by Event.UID
	StableIndex map[string]string `json:"stable_index"` // StableKey → UID mapping
	ChangeLog   []*EventChange    `json:"change_log"`   // Recent changes
	UpdatedAt   string            `json:"updated_at"`   // RFC3339 timestamp
}

// maxChangeLog bounds how many changes a snapshot keeps.
const maxChangeLog = 200

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events:      make(map[string]*Event),
		StableIndex: make(map[string]string),
		ChangeLog:   make([]*EventChange, 0),
	}
}

// DiffResult contains the results of comparing a run against a previous snapshot
type DiffResult struct {
	NewEvents []*Event
	Changes   []*EventChange
}

// Diff compares current events against a previous snapshot. A card is new when neither its
// UID nor its stable key was seen before; a card whose stable key is known but whose UID
// changed is reported through Changes instead. FirstSeen is carried over for known cards and
// set to now for new ones.
func Diff(previous *Snapshot, current []*Event, now time.Time) *DiffResult {
	result := &DiffResult{
		NewEvents: make([]*Event, 0),
		Changes:   make([]*EventChange, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, evt := range current {
		prev := previous.lookup(evt)
		if prev == nil {
			evt.FirstSeen = now.UTC()
			result.NewEvents = append(result.NewEvents, evt)
			continue
		}

		evt.FirstSeen = prev.FirstSeen
		result.Changes = append(result.Changes, DetectChanges(prev, evt, now)...)
	}

	sortEvents(result.NewEvents)
	return result
}

// lookup finds the previous version of evt by UID, then by stable key.
func (s *Snapshot) lookup(evt *Event) *Event {
	if prev, ok := s.Events[evt.UID]; ok {
		return prev
	}
	if evt.StableKey == "" {
		return nil
	}
	if uid, ok := s.StableIndex[evt.StableKey]; ok {
		return s.Events[uid]
	}
	return nil
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(events []*Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, evt := range events {
		snap.Events[evt.UID] = evt
		if evt.StableKey != "" {
			snap.StableIndex[evt.StableKey] = evt.UID
		}
	}

	return snap
}

// AppendChanges adds changes to the snapshot's change log, keeping the most recent ones.
func (s *Snapshot) AppendChanges(changes []*EventChange) {
	s.ChangeLog = append(s.ChangeLog, changes...)
	if n := len(s.ChangeLog); n > maxChangeLog {
		s.ChangeLog = s.ChangeLog[n-maxChangeLog:]
	}
}

// EventChange represents a change detected in a card
type EventChange struct {
	UID        string    `json:"uid"`
	StableKey  string    `json:"stable_key"`
	ChangeType string    `json:"change_type"` // "start", "title", "info", "new"
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	DetectedAt time.Time `json:"detected_at"`
}

// DetectChanges compares two versions of the same card and returns detected changes
func DetectChanges(previous, current *Event, now time.Time) []*EventChange {
	detected := now.UTC()

	if previous == nil {
		return []*EventChange{
			{
				UID:        current.UID,
				StableKey:  current.StableKey,
				ChangeType: "new",
				NewValue:   current.Title,
				DetectedAt: detected,
			},
		}
	}

	var changes []*EventChange
	add := func(kind, oldValue, newValue string) {
		changes = append(changes, &EventChange{
			UID:        current.UID,
			StableKey:  current.StableKey,
			ChangeType: kind,
			OldValue:   oldValue,
			NewValue:   newValue,
			DetectedAt: detected,
		})
	}

	if !previous.Start.Equal(current.Start) {
		add("start", formatStart(previous.Start), formatStart(current.Start))
	}
	if previous.Title != current.Title {
		add("title", previous.Title, current.Title)
	}
	if previous.Info != current.Info {
		add("info", previous.Info, current.Info)
	}

	return changes
}

// CompareSnapshots compares two snapshots card by card via their stable index
func CompareSnapshots(previous, current *Snapshot, now time.Time) []*EventChange {
	var all []*EventChange

	if previous == nil {
		previous = NewSnapshot()
	}

	keys := make([]string, 0, len(current.StableIndex))
	for key := range current.StableIndex {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cur := current.Events[current.StableIndex[key]]
		var prev *Event
		if uid, ok := previous.StableIndex[key]; ok {
			prev = previous.Events[uid]
		}
		all = append(all, DetectChanges(prev, cur, now)...)
	}

	return all
}

func formatStart(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// sortEvents orders cards by start time, then UID, for consistent output
func sortEvents(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].UID < events[j].UID
	})
}
