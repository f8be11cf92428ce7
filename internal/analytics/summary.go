package analytics

import (
	"math/rand"

	"github.com/roadwatch/trafficdash/internal/records"
)

// Summary is the dashboard headline card.
type Summary struct {
	TotalVehicles    int    `json:"totalVehicles"`
	AverageSpeed     int    `json:"averageSpeed"`
	HelmetCompliance string `json:"helmetCompliance"`
	VehicleTypeCount int    `json:"vehicleTypeCount"`
}

// Summarize combines the three snapshot sets into the headline numbers.
// Total vehicles comes from the speed set, compliance from the helmet set,
// and the type count from classifying the license set.
func Summarize(speeds, licenses, helmets records.Set, rng *rand.Rand) Summary {
	stats, _ := AggregateSpeeds(speeds)

	pct, _, _ := ComplianceRate(helmets)

	hist := ClassifyVehicles(licenses, rng)

	return Summary{
		TotalVehicles:    len(speeds),
		AverageSpeed:     int(stats.AverageSpeed),
		HelmetCompliance: formatPercent(pct),
		VehicleTypeCount: hist.CategoriesWithData(),
	}
}
