package store

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roadwatch/trafficdash/internal/fsutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(fsutil.NewMemoryFileSystem(), "data")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestParseDataset(t *testing.T) {
	tests := []struct {
		token   string
		want    Dataset
		wantErr bool
	}{
		{"speed", SpeedData, false},
		{"license", LicenseData, false},
		{"helmet", HelmetData, false},
		{"speed_data.json", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDataset(tt.token)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDataset(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDataset(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestReadRawMissingFile(t *testing.T) {
	s := newTestStore(t)

	raw, err := s.ReadRaw(SpeedData)
	if err != nil {
		t.Fatalf("ReadRaw() error: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("ReadRaw() on missing file = %v, want empty", raw)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := map[string]json.RawMessage{
		"v1": json.RawMessage(`45`),
		"v2": json.RawMessage(`{"speed":72,"type":"truck"}`),
	}
	if err := s.WriteRaw(SpeedData, in); err != nil {
		t.Fatalf("WriteRaw() error: %v", err)
	}

	got, err := s.ReadRaw(SpeedData)
	if err != nil {
		t.Fatalf("ReadRaw() error: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSetDecodes(t *testing.T) {
	s := newTestStore(t)

	in := map[string]json.RawMessage{
		"v1": json.RawMessage(`60`),
		"v2": json.RawMessage(`"72"`),
	}
	if err := s.WriteRaw(SpeedData, in); err != nil {
		t.Fatalf("WriteRaw() error: %v", err)
	}

	set, err := s.ReadSet(SpeedData)
	if err != nil {
		t.Fatalf("ReadSet() error: %v", err)
	}
	if len(set) != 2 {
		t.Errorf("len(set) = %d, want 2", len(set))
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteRaw(HelmetData, map[string]json.RawMessage{
		"v1": json.RawMessage(`true`),
		"v2": json.RawMessage(`false`),
	}); err != nil {
		t.Fatalf("WriteRaw() error: %v", err)
	}

	added, updated, err := s.Merge(HelmetData, map[string]json.RawMessage{
		"v2": json.RawMessage(`true`),
		"v3": json.RawMessage(`{"wearing":true}`),
	})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if added != 1 || updated != 1 {
		t.Errorf("Merge() = %d added %d updated, want 1/1", added, updated)
	}

	got, err := s.ReadRaw(HelmetData)
	if err != nil {
		t.Fatalf("ReadRaw() error: %v", err)
	}
	want := map[string]json.RawMessage{
		"v1": json.RawMessage(`true`),
		"v2": json.RawMessage(`true`),
		"v3": json.RawMessage(`{"wearing":true}`),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIntoMissingFile(t *testing.T) {
	s := newTestStore(t)

	added, updated, err := s.Merge(LicenseData, map[string]json.RawMessage{
		"MH12AB3456": json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if added != 1 || updated != 0 {
		t.Errorf("Merge() = %d added %d updated, want 1/0", added, updated)
	}
}
