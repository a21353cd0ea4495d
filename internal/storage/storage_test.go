package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/fightcal/internal/event"
)

func testEvents() (*event.Event, *event.Event) {
	start := time.Date(2026, time.February, 5, 19, 0, 0, 0, time.UTC)
	event1 := &event.Event{
		UID:       "20260205-montreal-quebec-canada@boxing247-calendar",
		StableKey: "key-1",
		Title:     "Albert Ramirez versus Lerrone Richards",
		Start:     start,
		End:       start.Add(3 * time.Hour),
		Location:  "Montreal, Quebec, Canada",
		SourceURL: "https://www.boxing247.com/fight-schedule",
		FirstSeen: time.Now(),
	}
	event2 := &event.Event{
		UID:       "20260206-guadalajara-mexico@boxing247-calendar",
		StableKey: "key-2",
		Title:     "Boxing card – Guadalajara, Mexico",
		Start:     start.Add(24 * time.Hour),
		End:       start.Add(27 * time.Hour),
		Location:  "Guadalajara, Mexico",
		SourceURL: "https://www.boxing247.com/fight-schedule",
		FirstSeen: time.Now(),
	}
	return event1, event2
}

func TestGetEventByUID(t *testing.T) {
	tmpDir := t.TempDir()

	// Create storage instance
	storage, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	event1, event2 := testEvents()

	tests := []struct {
		name          string
		setup         func() // Setup function to create snapshots
		uid           string
		wantEvent     *event.Event
		wantErr       bool
		wantErrString string
	}{
		{
			name: "Successfully retrieve event from snapshot",
			setup: func() {
				snapshot := event.CreateSnapshot([]*event.Event{event1, event2}, time.Now().Format(time.RFC3339))
				if err := storage.SaveSnapshot(snapshot); err != nil {
					t.Fatalf("Failed to save snapshot: %v", err)
				}
			},
			uid:       event1.UID,
			wantEvent: event1,
		},
		{
			name:      "Retrieve different event from same snapshot",
			uid:       event2.UID,
			wantEvent: event2,
		},
		{
			name:          "Event not found in snapshot",
			uid:           "20260301-nowhere@boxing247-calendar",
			wantErr:       true,
			wantErrString: "event not found: 20260301-nowhere@boxing247-calendar",
		},
		{
			name: "Empty snapshot",
			setup: func() {
				snapshot := event.CreateSnapshot([]*event.Event{}, time.Now().Format(time.RFC3339))
				if err := storage.SaveSnapshot(snapshot); err != nil {
					t.Fatalf("Failed to save empty snapshot: %v", err)
				}
			},
			uid:           event1.UID,
			wantErr:       true,
			wantErrString: "event not found: " + event1.UID,
		},
		{
			name: "No snapshot file exists",
			setup: func() {
				os.RemoveAll(filepath.Join(tmpDir, "snapshot.json"))
			},
			uid:           event1.UID,
			wantErr:       true,
			wantErrString: "event not found: " + event1.UID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			got, err := storage.GetEventByUID(tt.uid)

			// Check error
			if (err != nil) != tt.wantErr {
				t.Errorf("GetEventByUID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr && err != nil {
				if tt.wantErrString != "" && err.Error() != tt.wantErrString {
					t.Errorf("GetEventByUID() error = %q, want %q", err.Error(), tt.wantErrString)
				}
				return
			}

			if !eventsEqual(got, tt.wantEvent) {
				t.Errorf("GetEventByUID() = %+v, want %+v", got, tt.wantEvent)
			}
		})
	}
}

// eventsEqual compares two events for equality (ignoring time precision)
func eventsEqual(a, b *event.Event) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.UID == b.UID &&
		a.StableKey == b.StableKey &&
		a.Title == b.Title &&
		a.Start.Equal(b.Start) &&
		a.Location == b.Location &&
		a.SourceURL == b.SourceURL
}

func TestLoadSnapshot_RoundTripKeepsStableIndex(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	event1, event2 := testEvents()
	previous := event.NewSnapshot()
	previous.AppendChanges([]*event.EventChange{{UID: event1.UID, ChangeType: "new"}})

	if _, err := storage.CreateSnapshotFromEvents([]*event.Event{event1, event2}, previous, nil); err != nil {
		t.Fatalf("CreateSnapshotFromEvents() error = %v", err)
	}

	loaded, err := storage.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if len(loaded.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(loaded.Events))
	}
	if loaded.StableIndex["key-2"] != event2.UID {
		t.Errorf("stable index not restored: %v", loaded.StableIndex)
	}
	if len(loaded.ChangeLog) != 1 {
		t.Errorf("expected change log to be carried over, got %d entries", len(loaded.ChangeLog))
	}
	if loaded.UpdatedAt == "" {
		t.Error("UpdatedAt should be set on save")
	}
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	dir := t.TempDir()
	storage, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := storage.LoadSnapshot(); err == nil {
		t.Error("expected an error for a corrupt snapshot")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "boxing_schedule.ics")

	if err := WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/.local/share/fightcal")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".local/share/fightcal"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}

	if got, _ := ExpandHome("/tmp/data"); got != "/tmp/data" {
		t.Errorf("absolute path should be unchanged, got %q", got)
	}
}
