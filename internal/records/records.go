package records

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// LicensePrefix is the optional prefix the capture pipeline puts on license
// identifiers. It must be stripped before cross-referencing a plate with the
// speed or helmet record of the same vehicle.
const LicensePrefix = "license_plate_"

// Set is one category's snapshot: raw values keyed by vehicle or plate
// identifier. Identifier uniqueness is assumed but not enforced; a duplicate
// key in the upstream JSON silently overwrites.
type Set map[string]Value

// DecodeSet decodes an identifier-keyed JSON object into a Set. An empty or
// missing payload decodes to an empty set.
func DecodeSet(data []byte) (Set, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Set{}, nil
	}
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode record set: %w", err)
	}
	if s == nil {
		s = Set{}
	}
	return s, nil
}

// DecodeRawSet converts a raw identifier-to-JSON mapping, as held by the
// snapshot store, into a typed Set.
func DecodeRawSet(raw map[string]json.RawMessage) (Set, error) {
	s := make(Set, len(raw))
	for id, msg := range raw {
		var v Value
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, fmt.Errorf("failed to decode record %q: %w", id, err)
		}
		s[id] = v
	}
	return s, nil
}

// CanonicalID strips the license-plate prefix from an identifier so records
// from different categories can be matched up.
func CanonicalID(id string) string {
	return strings.TrimPrefix(id, LicensePrefix)
}

// IDs returns the set's identifiers in sorted order. Aggregations iterate in
// this order so runs over identical snapshots produce identical results.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
