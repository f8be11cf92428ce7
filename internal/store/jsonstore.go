// Package store persists observation snapshots. The capture pipeline drops
// JSON snapshot files into a data directory; this package reads and merges
// them, lists the captured images alongside, and keeps an ingest history in
// SQLite for the admin surface.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roadwatch/trafficdash/internal/fsutil"
	"github.com/roadwatch/trafficdash/internal/records"
)

// Dataset names one of the snapshot files in the data directory.
type Dataset string

const (
	SpeedData   Dataset = "speed_data.json"
	LicenseData Dataset = "new_license_data.json"
	HelmetData  Dataset = "helmet_data.json"
)

// Datasets lists every snapshot file the store manages.
var Datasets = []Dataset{SpeedData, LicenseData, HelmetData}

// ParseDataset resolves a request token ("speed", "license", "helmet") to a
// Dataset.
func ParseDataset(token string) (Dataset, error) {
	switch token {
	case "speed":
		return SpeedData, nil
	case "license":
		return LicenseData, nil
	case "helmet":
		return HelmetData, nil
	default:
		return "", fmt.Errorf("unknown dataset %q", token)
	}
}

// Store reads and writes snapshot files under a single data directory.
// All file access goes through the injected FileSystem so tests can run
// against an in-memory tree.
type Store struct {
	fs  fsutil.FileSystem
	dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(fs fsutil.FileSystem, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string { return s.dir }

// ReadRaw loads a snapshot file as raw JSON keyed by record id. A missing
// file is an empty snapshot, not an error.
func (s *Store) ReadRaw(ds Dataset) (map[string]json.RawMessage, error) {
	data, err := s.fs.ReadFile(s.path(ds))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ds, err)
	}

	raw := map[string]json.RawMessage{}
	if len(data) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ds, err)
	}
	return raw, nil
}

// ReadSet loads a snapshot file as a decoded record set.
func (s *Store) ReadSet(ds Dataset) (records.Set, error) {
	raw, err := s.ReadRaw(ds)
	if err != nil {
		return nil, err
	}
	set, err := records.DecodeRawSet(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ds, err)
	}
	return set, nil
}

// WriteRaw replaces a snapshot file wholesale.
func (s *Store) WriteRaw(ds Dataset, raw map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ds, err)
	}
	if err := s.fs.WriteFile(s.path(ds), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ds, err)
	}
	return nil
}

// Merge folds incoming records into a snapshot file. A record whose id
// already exists is overwritten; the incoming value wins. Returns how many
// records were newly added and how many replaced.
func (s *Store) Merge(ds Dataset, incoming map[string]json.RawMessage) (added, updated int, err error) {
	existing, err := s.ReadRaw(ds)
	if err != nil {
		return 0, 0, err
	}

	for id, value := range incoming {
		if _, ok := existing[id]; ok {
			updated++
		} else {
			added++
		}
		existing[id] = value
	}

	if err := s.WriteRaw(ds, existing); err != nil {
		return 0, 0, err
	}
	return added, updated, nil
}

func (s *Store) path(ds Dataset) string {
	return filepath.Join(s.dir, string(ds))
}
