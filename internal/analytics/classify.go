package analytics

import (
	"math/rand"
	"strings"

	"github.com/roadwatch/trafficdash/internal/records"
)

// Category is the canonical vehicle classification.
type Category string

const (
	Car        Category = "Car"
	Motorcycle Category = "Motorcycle"
	Truck      Category = "Truck"
	Bus        Category = "Bus"
)

// Categories lists the canonical categories in display order.
var Categories = []Category{Car, Motorcycle, Truck, Bus}

// CategoryHistogram counts classified vehicles per category. After
// ClassifyVehicles runs, every category holds at least 1 so the distribution
// charts never render an empty slice; callers needing true zero counts must
// classify record-by-record themselves.
type CategoryHistogram map[Category]int

// ClassifyVehicles infers a category for every record and folds the results
// into a fresh histogram. Classification of a record is deterministic
// whenever the record carries any structural signal (a type property, a
// license plate, a non-empty identifier, or a text value); only signal-free
// records fall back to the weighted-random rule, drawn from rng.
//
// An empty input seeds the histogram at 1 per category and skips
// classification entirely.
func ClassifyVehicles(set records.Set, rng *rand.Rand) CategoryHistogram {
	hist := make(CategoryHistogram, len(Categories))

	if len(set) == 0 {
		for _, c := range Categories {
			hist[c] = 1
		}
		return hist
	}

	for _, id := range set.IDs() {
		raw := classifyOne(records.CanonicalID(id), set[id], rng)
		hist[canonicalCategory(raw)]++
	}

	// Floor every count at 1 so each category still shows on the charts.
	for _, c := range Categories {
		if hist[c] < 1 {
			hist[c] = 1
		}
	}
	return hist
}

// classifyOne applies the classification rules in strict priority order and
// returns the raw (pre-normalization) category string.
func classifyOne(id string, v records.Value, rng *rand.Rand) string {
	// 1. An explicit type property wins.
	if t, ok := v.Field("type"); ok && t.Kind() == records.Text && t.Text() != "" {
		return t.Text()
	}

	// 2. Pattern-match the license plate.
	if lp, ok := v.Field("licensePlate"); ok && lp.Kind() == records.Text && lp.Text() != "" {
		plate := strings.ToUpper(lp.Text())
		switch {
		case strings.Contains(plate, "TRK") || strings.Contains(plate, "LOR"):
			return "Truck"
		case strings.Contains(plate, "BUS"):
			return "Bus"
		case strings.Contains(plate, "MC") || strings.Contains(plate, "BIKE"):
			return "Motorcycle"
		default:
			return "Car"
		}
	}

	// 3. Pattern-match the identifier.
	if id != "" {
		key := strings.ToLower(id)
		switch {
		case strings.Contains(key, "truck") || strings.Contains(key, "trk"):
			return "Truck"
		case strings.Contains(key, "bus"):
			return "Bus"
		case strings.Contains(key, "bike") || strings.Contains(key, "motorcycle") || strings.Contains(key, "mc"):
			return "Motorcycle"
		default:
			return "Car"
		}
	}

	// 4. Pattern-match a bare text value.
	if v.Kind() == records.Text {
		value := strings.ToLower(v.Text())
		switch {
		case strings.Contains(value, "truck") || strings.Contains(value, "lorry"):
			return "Truck"
		case strings.Contains(value, "bus"):
			return "Bus"
		case strings.Contains(value, "bike") || strings.Contains(value, "motorcycle"):
			return "Motorcycle"
		default:
			return "Car"
		}
	}

	// 5. No signal at all: weighted-random assignment with a realistic
	// road mix. Non-deterministic; tests assert only that the result is a
	// valid category.
	r := rng.Float64()
	switch {
	case r < 0.6:
		return "Car"
	case r < 0.8:
		return "Motorcycle"
	case r < 0.95:
		return "Truck"
	default:
		return "Bus"
	}
}

// canonicalCategory title-cases a raw category string and maps synonyms onto
// the four canonical categories. Anything unrecognized counts as Car.
func canonicalCategory(raw string) Category {
	if raw == "" {
		return Car
	}
	title := strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
	switch title {
	case "Truck", "Lorry":
		return Truck
	case "Bus", "Coach":
		return Bus
	case "Motorcycle", "Bike", "Scooter":
		return Motorcycle
	case "Car", "Sedan", "Suv", "Hatchback":
		return Car
	default:
		return Car
	}
}

// CategoriesWithData reports how many categories hold a non-zero count.
func (h CategoryHistogram) CategoriesWithData() int {
	n := 0
	for _, c := range Categories {
		if h[c] > 0 {
			n++
		}
	}
	return n
}

// Total returns the summed counts across all categories.
func (h CategoryHistogram) Total() int {
	total := 0
	for _, c := range Categories {
		total += h[c]
	}
	return total
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
