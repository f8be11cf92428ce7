// Package analytics derives the dashboard's renderable views from raw
// observation snapshots: the vehicle-type histogram, speed statistics and
// distribution, helmet compliance, plate-region breakdown, and the
// four-field summary. Everything here is a pure fold over an in-memory
// snapshot; randomness (fallback classification, placeholder timestamps,
// series smoothing) comes in only through an injected *rand.Rand, and time
// only through an injected timeutil.Clock.
package analytics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/roadwatch/trafficdash/internal/records"
	"github.com/roadwatch/trafficdash/internal/timeutil"
)

// TimeFrame names a lookback window used to restrict records before
// aggregation.
type TimeFrame string

const (
	Hourly  TimeFrame = "hourly"
	Daily   TimeFrame = "daily"
	Weekly  TimeFrame = "weekly"
	Monthly TimeFrame = "monthly"
	Full    TimeFrame = "full"
)

// MinFilteredRecords is the point below which a time-window filter is
// considered too aggressive: rather than render a near-empty chart, the
// filter is discarded and the full set used instead.
const MinFilteredRecords = 10

// ParseTimeFrame resolves a request token to a TimeFrame. "yearly" is an
// alias for "full" (one chart historically used it for the widest window),
// and the empty string defaults to hourly.
func ParseTimeFrame(token string) (TimeFrame, error) {
	switch token {
	case "":
		return Hourly, nil
	case "hourly", "daily", "weekly", "monthly", "full":
		return TimeFrame(token), nil
	case "yearly":
		return Full, nil
	default:
		return "", fmt.Errorf("invalid timeframe %q", token)
	}
}

// Lookback returns the window duration for the frame. ok is false for Full,
// which applies no filtering.
func (f TimeFrame) Lookback() (d time.Duration, ok bool) {
	switch f {
	case Hourly:
		return time.Hour, true
	case Daily:
		return 24 * time.Hour, true
	case Weekly:
		return 7 * 24 * time.Hour, true
	case Monthly:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// Label returns the human-readable window description shown on charts.
func (f TimeFrame) Label() string {
	switch f {
	case Hourly:
		return "Last Hour"
	case Daily:
		return "Last 24 Hours"
	case Weekly:
		return "Last 7 Days"
	case Monthly:
		return "Last 30 Days"
	case Full:
		return "All Time"
	default:
		return "Last Hour"
	}
}

// timestampFieldOrder is checked before scanning a record's remaining
// properties for something date-like.
var timestampFieldOrder = []string{"timestamp", "time", "date", "created_at", "created", "detected_at"}

// timestampLayouts are tried in order when parsing a text timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FilterByTimeFrame restricts a record set to entries whose resolved
// timestamp falls within the frame's lookback window from clock.Now().
//
// Records without any usable timestamp are assigned a uniformly random one
// within the last 24 hours; the capture pipeline did not historically stamp
// every record, and dropping unstamped records would empty most charts.
// If fewer than MinFilteredRecords survive, the original set is returned
// unfiltered. Full applies no filtering at all.
func FilterByTimeFrame(set records.Set, frame TimeFrame, clock timeutil.Clock, rng *rand.Rand) records.Set {
	lookback, ok := frame.Lookback()
	if !ok || len(set) == 0 {
		return set
	}

	now := clock.Now()
	cutoff := now.Add(-lookback)

	filtered := make(records.Set)
	for _, id := range set.IDs() {
		v := set[id]
		ts := resolveTimestamp(v, now, rng)
		if !ts.Before(cutoff) {
			filtered[id] = v
		}
	}

	if len(filtered) < MinFilteredRecords {
		return set
	}
	return filtered
}

// resolveTimestamp extracts the effective observation time of a record.
// Order: an explicit "timestamp" property, then the ordered candidate names,
// then any property whose key mentions time/date/created, and finally a
// random instant within the last 24 hours.
func resolveTimestamp(v records.Value, now time.Time, rng *rand.Rand) time.Time {
	if v.Kind() == records.Structured {
		for _, name := range timestampFieldOrder {
			if f, ok := v.Field(name); ok {
				if ts, ok := parseTimestamp(f); ok {
					return ts
				}
			}
		}
		for _, name := range v.FieldNames() {
			if !timestampLikeKey(name) {
				continue
			}
			f, _ := v.Field(name)
			if ts, ok := parseTimestamp(f); ok {
				return ts
			}
		}
	}

	offset := time.Duration(rng.Float64() * float64(24*time.Hour))
	return now.Add(-offset)
}

func timestampLikeKey(key string) bool {
	for _, fragment := range []string{"time", "date", "created"} {
		if containsFold(key, fragment) {
			return true
		}
	}
	return false
}

func parseTimestamp(v records.Value) (time.Time, bool) {
	switch v.Kind() {
	case records.Number:
		// The capture pipeline stamps numeric timestamps in Unix
		// milliseconds.
		ms := int64(v.Num())
		if ms <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(ms), true
	case records.Text:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v.Text()); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
