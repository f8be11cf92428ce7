// Command simulate generates synthetic snapshot files in the layout the
// capture pipeline produces, for exercising the dashboard without cameras.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roadwatch/trafficdash/internal/records"
	"github.com/roadwatch/trafficdash/internal/store"
)

var (
	count   = flag.Int("count", 50, "Number of vehicles to generate")
	out     = flag.String("out", "vehicle_data_with_helmet", "Output data directory")
	seed    = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	stamped = flag.Float64("stamped", 0.8, "Fraction of records carrying a timestamp")
)

var plateSeries = []string{"MH12", "MH04", "KA05", "TN09", "AP31", "DL8C", "GJ01", "UP32", "XX00"}

func main() {
	flag.Parse()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	speeds := map[string]json.RawMessage{}
	licenses := map[string]json.RawMessage{}
	helmets := map[string]json.RawMessage{}

	now := time.Now()
	for i := 0; i < *count; i++ {
		id := vehicleID(rng)

		speeds[id] = speedRecord(rng, now)
		licenses[records.LicensePrefix+id] = licenseRecord(rng, id)
		helmets[id] = helmetRecord(rng)
	}

	for name, data := range map[store.Dataset]map[string]json.RawMessage{
		store.SpeedData:   speeds,
		store.LicenseData: licenses,
		store.HelmetData:  helmets,
	} {
		path := filepath.Join(*out, string(name))
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode %s: %v", name, err)
		}
		if err := os.WriteFile(path, encoded, 0o644); err != nil {
			log.Fatalf("failed to write %s: %v", path, err)
		}
		log.Printf("wrote %d records to %s", len(data), path)
	}

	log.Printf("done (seed %d)", s)
}

// vehicleID builds a plausible registration, occasionally salted with a
// fleet marker so the classifier has something to match on.
func vehicleID(rng *rand.Rand) string {
	series := plateSeries[rng.Intn(len(plateSeries))]
	switch rng.Intn(10) {
	case 0:
		return fmt.Sprintf("%sTRK%04d", series, rng.Intn(10000))
	case 1:
		return fmt.Sprintf("%sBUS%04d", series, rng.Intn(10000))
	default:
		return fmt.Sprintf("%s%c%c%04d", series, 'A'+rng.Intn(26), 'A'+rng.Intn(26), rng.Intn(10000))
	}
}

func speedRecord(rng *rand.Rand, now time.Time) json.RawMessage {
	speed := 20 + rng.Float64()*90

	switch rng.Intn(4) {
	case 0:
		// Bare number.
		return mustMarshal(int(speed))
	case 1:
		// Numeric string, as the older pipeline emitted.
		return mustMarshal(fmt.Sprintf("%.0f", speed))
	default:
		record := map[string]interface{}{"speed": int(speed)}
		if rng.Float64() < *stamped {
			offset := time.Duration(rng.Float64() * float64(24*time.Hour))
			record["timestamp"] = now.Add(-offset).Format(time.RFC3339)
		}
		return mustMarshal(record)
	}
}

func licenseRecord(rng *rand.Rand, id string) json.RawMessage {
	record := map[string]interface{}{
		"licensePlate": id,
		"confidence":   0.5 + rng.Float64()*0.5,
		"captureId":    uuid.NewString(),
	}
	return mustMarshal(record)
}

func helmetRecord(rng *rand.Rand) json.RawMessage {
	switch rng.Intn(3) {
	case 0:
		return mustMarshal(rng.Float64() < 0.7)
	case 1:
		return mustMarshal(map[string]interface{}{"wearing": rng.Float64() < 0.7})
	default:
		return mustMarshal(map[string]interface{}{
			"helmet":     rng.Float64() < 0.7,
			"confidence": 0.5 + rng.Float64()*0.5,
		})
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("failed to marshal record: %v", err)
	}
	return data
}
