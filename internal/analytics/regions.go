package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/roadwatch/trafficdash/internal/records"
)

// OtherRegion is the bucket for plates whose prefix matches no known region.
const OtherRegion = "OTH"

// regionNames maps the two-letter registration prefixes the cameras see to
// region names.
var regionNames = map[string]string{
	"MH":        "Maharashtra",
	"KA":        "Karnataka",
	"TN":        "Tamil Nadu",
	"AP":        "Andhra Pradesh",
	"DL":        "Delhi",
	"GJ":        "Gujarat",
	"UP":        "Uttar Pradesh",
	OtherRegion: "Other",
}

// regionOrder fixes the tie-break order of the breakdown.
var regionOrder = []string{"MH", "KA", "TN", "AP", "DL", "GJ", "UP", OtherRegion}

// RegionCount is one row of the license-plate region breakdown.
type RegionCount struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// AggregateRegions buckets license records by the registration prefix of
// their identifier (the first two characters after stripping the
// license_plate_ prefix). Every known region appears in the result even at
// zero, sorted by count descending, then by the fixed region order.
func AggregateRegions(set records.Set) (regions []RegionCount, total int) {
	counts := make(map[string]int, len(regionOrder))
	for _, code := range regionOrder {
		counts[code] = 0
	}

	for id := range set {
		plate := strings.ToUpper(records.CanonicalID(id))
		code := OtherRegion
		if len(plate) >= 2 {
			if _, ok := regionNames[plate[:2]]; ok {
				code = plate[:2]
			}
		}
		counts[code]++
		total++
	}

	rank := make(map[string]int, len(regionOrder))
	for i, code := range regionOrder {
		rank[code] = i
	}

	regions = make([]RegionCount, 0, len(regionOrder))
	for _, code := range regionOrder {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(counts[code]) / float64(total) * 100))
		}
		regions = append(regions, RegionCount{
			Code:       code,
			Name:       regionNames[code],
			Count:      counts[code],
			Percentage: pct,
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Count != regions[j].Count {
			return regions[i].Count > regions[j].Count
		}
		return rank[regions[i].Code] < rank[regions[j].Code]
	})

	return regions, total
}
