package analytics

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/roadwatch/trafficdash/internal/records"
	"github.com/roadwatch/trafficdash/internal/timeutil"
)

// ComplianceSnapshot carries the helmet-compliance figures for one snapshot.
//
// Percentage is the exact scalar used by the dashboard summary. The series
// fields exist for chart display only: they are a synthesized trend around
// the measured base rate, smoothed with bounded random variance, and must
// not be read as measurements.
type ComplianceSnapshot struct {
	Percentage    int      `json:"percentage"`
	Display       string   `json:"display"` // e.g. "67%"
	WithHelmet    int      `json:"withHelmet"`
	Total         int      `json:"total"`
	SeriesLabels  []string `json:"seriesLabels"`
	Series        []int    `json:"series"`
	SeriesAverage int      `json:"seriesAverage"`
	Trend         string   `json:"trend"` // "up" or "down"
}

// ComplianceRate computes the exact scalar compliance of a helmet snapshot.
// A record is compliant when its value is boolean true or a structured value
// with wearing or helmet set true. Boolean false and structured values
// without a recognized flag count toward the total only; numbers and bare
// strings are not helmet observations and are ignored entirely.
func ComplianceRate(set records.Set) (percent, withHelmet, total int) {
	for _, v := range set {
		switch v.Kind() {
		case records.Flag:
			total++
			if v.Flag() {
				withHelmet++
			}
		case records.Structured:
			total++
			if w, ok := v.Field("wearing"); ok && w.Kind() == records.Flag && w.Flag() {
				withHelmet++
			} else if h, ok := v.Field("helmet"); ok && h.Kind() == records.Flag && h.Flag() {
				withHelmet++
			}
		}
	}
	if total > 0 {
		percent = int(math.Round(float64(withHelmet) / float64(total) * 100))
	}
	return percent, withHelmet, total
}

// AggregateHelmet computes the compliance snapshot for a helmet record set,
// including the synthesized chart series for the given time frame.
//
// The series base rate deliberately counts only bare boolean true values,
// matching how the capture pipeline historically reported trend data; the
// scalar Percentage is the authoritative figure.
func AggregateHelmet(set records.Set, frame TimeFrame, clock timeutil.Clock, rng *rand.Rand) ComplianceSnapshot {
	percent, withHelmet, total := ComplianceRate(set)

	snap := ComplianceSnapshot{
		Percentage: percent,
		Display:    formatPercent(percent),
		WithHelmet: withHelmet,
		Total:      total,
	}

	snap.SeriesLabels = seriesLabels(frame, clock.Now())

	base := 75
	if len(set) > 0 {
		flagged := 0
		for _, v := range set {
			if v.Kind() == records.Flag && v.Flag() {
				flagged++
			}
		}
		base = int(math.Round(float64(flagged) / float64(len(set)) * 100))
	}

	snap.Series = make([]int, len(snap.SeriesLabels))
	series := make([]float64, len(snap.SeriesLabels))
	for i := range snap.Series {
		variance := rng.Intn(20) - 10 // -10..+9
		point := base + variance
		if point < 50 {
			point = 50
		}
		if point > 100 {
			point = 100
		}
		snap.Series[i] = point
		series[i] = float64(point)
	}

	if len(series) > 0 {
		snap.SeriesAverage = int(math.Round(stat.Mean(series, nil)))
		if snap.Series[len(snap.Series)-1] > snap.Series[0] {
			snap.Trend = "up"
		} else {
			snap.Trend = "down"
		}
	}

	return snap
}

// seriesLabels generates the time-bucket labels for a frame, ending at now.
func seriesLabels(frame TimeFrame, now time.Time) []string {
	var count int
	var step time.Duration
	var layout string

	switch frame {
	case Weekly:
		count, step, layout = 7, 24*time.Hour, "Mon"
	case Monthly:
		count, step, layout = 30, 24*time.Hour, "Jan 2"
	case Full:
		count, step, layout = 12, 30*24*time.Hour, "Jan"
	default: // hourly and daily both render 24 hour steps
		count, step, layout = 24, time.Hour, "15:04"
	}

	labels := make([]string, 0, count)
	for i := count - 1; i >= 0; i-- {
		labels = append(labels, now.Add(-time.Duration(i)*step).Format(layout))
	}
	return labels
}

func formatPercent(p int) string {
	return strconv.Itoa(p) + "%"
}
