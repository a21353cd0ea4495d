package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// DefaultDataDir is used when no data directory is configured.
const DefaultDataDir = "~/.local/share/fightcal"

const snapshotFile = "snapshot.json"

// Storage handles persistence of card snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}

	dir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dir,
	}, nil
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the snapshot from disk. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*event.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	// Ensure maps are initialized
	if snapshot.Events == nil {
		snapshot.Events = make(map[string]*event.Event)
	}
	if snapshot.StableIndex == nil {
		snapshot.StableIndex = make(map[string]string)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot) error {
	// Set updated timestamp
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := WriteFile(s.snapshotPath(), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromEvents creates and saves a snapshot from a list of events,
// carrying over the change log of previous when it is not nil and appending changes.
func (s *Storage) CreateSnapshotFromEvents(events []*event.Event, previous *event.Snapshot, changes []*event.EventChange) (*event.Snapshot, error) {
	snapshot := event.CreateSnapshot(events, time.Now().UTC().Format(time.RFC3339))
	if previous != nil {
		snapshot.AppendChanges(previous.ChangeLog)
	}
	snapshot.AppendChanges(changes)
	if err := s.SaveSnapshot(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetEventByUID retrieves a card by UID from the stored snapshot
func (s *Storage) GetEventByUID(uid string) (*event.Event, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if evt, exists := snapshot.Events[uid]; exists {
		return evt, nil
	}

	return nil, fmt.Errorf("event not found: %s", uid)
}

// WriteFile writes data to path through a temporary file in the same directory and a
// rename, so readers never observe a partially written file.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
