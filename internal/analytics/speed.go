package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/roadwatch/trafficdash/internal/monitoring"
	"github.com/roadwatch/trafficdash/internal/records"
)

// SpeedLimit is the fixed speeding threshold in km/h.
const SpeedLimit = 80

// speedBucketLabels are the fixed distribution ranges, in display order.
var speedBucketLabels = []string{"0-20", "21-40", "41-60", "61-80", "81-100", "100+"}

// SpeedStatistics summarizes one category snapshot's normalized speeds.
// Every field is guaranteed finite and within the plausible range; invalid
// computations collapse to zero rather than surfacing NaN or Inf.
type SpeedStatistics struct {
	AverageSpeed       float64 `json:"averageSpeed"`
	MaxSpeed           float64 `json:"maxSpeed"`
	SpeedingCount      int     `json:"speedingCount"`
	SpeedingPercentage int     `json:"speedingPercentage"`
}

// SpeedBucket is one bar of the speed distribution.
type SpeedBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AggregateSpeeds normalizes every record, discards the invalid ones, and
// returns summary statistics plus the bucketed distribution. Records that do
// not normalize (unparseable, negative, above the 300 km/h ceiling) are
// excluded from every figure, including the average's denominator.
func AggregateSpeeds(set records.Set) (SpeedStatistics, []SpeedBucket) {
	buckets := make([]SpeedBucket, len(speedBucketLabels))
	for i, label := range speedBucketLabels {
		buckets[i] = SpeedBucket{Label: label}
	}

	var speeds []float64
	maxSpeed := 0.0
	speeding := 0
	discarded := 0

	for _, id := range set.IDs() {
		speed, ok := records.NormalizeSpeed(set[id])
		if !ok {
			discarded++
			continue
		}
		speeds = append(speeds, speed)
		if speed > maxSpeed {
			maxSpeed = speed
		}
		if speed > SpeedLimit {
			speeding++
		}
		buckets[bucketIndex(speed)].Count++
	}

	if discarded > 0 {
		monitoring.Logf("speed aggregation discarded %d invalid record(s)", discarded)
	}

	stats := SpeedStatistics{}
	if len(speeds) > 0 {
		stats.AverageSpeed = math.Round(stat.Mean(speeds, nil))
		stats.MaxSpeed = maxSpeed
		stats.SpeedingCount = speeding
		stats.SpeedingPercentage = int(math.Round(float64(speeding) / float64(len(speeds)) * 100))
	}

	// Downstream must never see a non-finite number, so re-check the
	// outputs even though the per-record ceiling already bounds them.
	stats.AverageSpeed = records.ClampSpeed(stats.AverageSpeed)
	stats.MaxSpeed = records.ClampSpeed(stats.MaxSpeed)
	if stats.SpeedingPercentage < 0 || stats.SpeedingPercentage > 100 {
		stats.SpeedingPercentage = 0
	}

	return stats, buckets
}

func bucketIndex(speed float64) int {
	switch {
	case speed <= 20:
		return 0
	case speed <= 40:
		return 1
	case speed <= 60:
		return 2
	case speed <= 80:
		return 3
	case speed <= 100:
		return 4
	default:
		return 5
	}
}
