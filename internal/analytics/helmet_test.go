package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/roadwatch/trafficdash/internal/records"
	"github.com/roadwatch/trafficdash/internal/timeutil"
)

func TestComplianceRate(t *testing.T) {
	set := records.Set{
		"v1": records.FlagValue(true),
		"v2": records.FlagValue(false),
		"v3": records.StructuredValue(map[string]records.Value{
			"wearing": records.FlagValue(true),
		}),
	}

	percent, withHelmet, total := ComplianceRate(set)
	if percent != 67 {
		t.Errorf("percent = %d, want 67", percent)
	}
	if withHelmet != 2 || total != 3 {
		t.Errorf("withHelmet/total = %d/%d, want 2/3", withHelmet, total)
	}
}

func TestComplianceRateIgnoresNonObservations(t *testing.T) {
	set := records.Set{
		"v1": records.FlagValue(true),
		"v2": records.NumberValue(1),
		"v3": records.TextValue("yes"),
	}

	percent, withHelmet, total := ComplianceRate(set)
	if total != 1 || withHelmet != 1 || percent != 100 {
		t.Errorf("got %d%% %d/%d, want 100%% 1/1", percent, withHelmet, total)
	}
}

func TestComplianceRateStructuredVariants(t *testing.T) {
	set := records.Set{
		"helmet_key": records.StructuredValue(map[string]records.Value{
			"helmet": records.FlagValue(true),
		}),
		"no_flag": records.StructuredValue(map[string]records.Value{
			"confidence": records.NumberValue(0.9),
		}),
		"wearing_false": records.StructuredValue(map[string]records.Value{
			"wearing": records.FlagValue(false),
		}),
	}

	percent, withHelmet, total := ComplianceRate(set)
	if total != 3 || withHelmet != 1 || percent != 33 {
		t.Errorf("got %d%% %d/%d, want 33%% 1/3", percent, withHelmet, total)
	}
}

func TestComplianceRateEmpty(t *testing.T) {
	percent, withHelmet, total := ComplianceRate(records.Set{})
	if percent != 0 || withHelmet != 0 || total != 0 {
		t.Errorf("got %d%% %d/%d, want all zero", percent, withHelmet, total)
	}
}

func TestAggregateHelmetSnapshot(t *testing.T) {
	set := records.Set{
		"v1": records.FlagValue(true),
		"v2": records.FlagValue(false),
		"v3": records.StructuredValue(map[string]records.Value{
			"wearing": records.FlagValue(true),
		}),
	}
	clock := timeutil.NewMockClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	snap := AggregateHelmet(set, Hourly, clock, rand.New(rand.NewSource(7)))

	if snap.Display != "67%" {
		t.Errorf("Display = %q, want \"67%%\"", snap.Display)
	}
	if len(snap.SeriesLabels) != 24 {
		t.Errorf("len(SeriesLabels) = %d, want 24", len(snap.SeriesLabels))
	}
	if len(snap.Series) != len(snap.SeriesLabels) {
		t.Fatalf("series/labels length mismatch: %d vs %d", len(snap.Series), len(snap.SeriesLabels))
	}
	for i, p := range snap.Series {
		if p < 50 || p > 100 {
			t.Errorf("Series[%d] = %d, outside [50,100]", i, p)
		}
	}
	if snap.Trend != "up" && snap.Trend != "down" {
		t.Errorf("Trend = %q, want up or down", snap.Trend)
	}
	if snap.SeriesAverage < 50 || snap.SeriesAverage > 100 {
		t.Errorf("SeriesAverage = %d, outside [50,100]", snap.SeriesAverage)
	}
}

func TestAggregateHelmetFrameLabelCounts(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	tests := []struct {
		frame TimeFrame
		want  int
	}{
		{Hourly, 24},
		{Daily, 24},
		{Weekly, 7},
		{Monthly, 30},
		{Full, 12},
	}
	for _, tt := range tests {
		snap := AggregateHelmet(records.Set{}, tt.frame, clock, rand.New(rand.NewSource(1)))
		if len(snap.SeriesLabels) != tt.want {
			t.Errorf("%s: len(SeriesLabels) = %d, want %d", tt.frame, len(snap.SeriesLabels), tt.want)
		}
	}
}

func TestAggregateHelmetEmptyUsesDefaultBase(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	snap := AggregateHelmet(records.Set{}, Hourly, clock, rand.New(rand.NewSource(3)))

	// Base 75 with variance in [-10, 9] keeps every point in [65, 84].
	for i, p := range snap.Series {
		if p < 65 || p > 84 {
			t.Errorf("Series[%d] = %d, outside [65,84]", i, p)
		}
	}
	if snap.Total != 0 || snap.Display != "0%" {
		t.Errorf("scalar fields = %d %q, want 0 \"0%%\"", snap.Total, snap.Display)
	}
}

func TestAggregateHelmetDeterministicWithSeed(t *testing.T) {
	set := records.Set{"v1": records.FlagValue(true)}
	clock := timeutil.NewMockClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	a := AggregateHelmet(set, Weekly, clock, rand.New(rand.NewSource(99)))
	b := AggregateHelmet(set, Weekly, clock, rand.New(rand.NewSource(99)))

	for i := range a.Series {
		if a.Series[i] != b.Series[i] {
			t.Fatalf("Series[%d] differs: %d vs %d", i, a.Series[i], b.Series[i])
		}
	}
}
