package records

import (
	"math"
	"strconv"
)

// MaxPlausibleSpeed is the hard domain ceiling in km/h. Anything above it is
// treated as corrupted capture data and discarded rather than aggregated.
const MaxPlausibleSpeed = 300

// speedFieldOrder is checked before falling back to an unordered scan of a
// structured value's properties. The explicit order keeps normalization
// reproducible when a record carries more than one numeric-looking field.
var speedFieldOrder = []string{"speed", "velocity", "value", "kmph"}

// NormalizeSpeed extracts a speed in km/h from a raw record value.
//
// A Number is used directly; a Text value is parsed as a float; a Structured
// value yields its "speed" property if present, otherwise the first property
// that is a number or a numeric string. Flags and empty shapes normalize to
// nothing. The second return is false for any value that is unparseable,
// non-finite, negative, or above MaxPlausibleSpeed; callers exclude such
// records from aggregates rather than imputing a substitute.
func NormalizeSpeed(v Value) (float64, bool) {
	switch v.Kind() {
	case Number:
		return checkSpeed(v.Num())
	case Text:
		f, err := strconv.ParseFloat(v.Text(), 64)
		if err != nil {
			return 0, false
		}
		return checkSpeed(f)
	case Structured:
		for _, name := range speedFieldOrder {
			if f, ok := v.Field(name); ok {
				if speed, ok := numericPayload(f); ok {
					return checkSpeed(speed)
				}
			}
		}
		// Last resort: unordered scan for the first numeric-looking
		// property, in sorted field order.
		for _, name := range v.FieldNames() {
			f, _ := v.Field(name)
			if speed, ok := numericPayload(f); ok {
				return checkSpeed(speed)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

func numericPayload(v Value) (float64, bool) {
	switch v.Kind() {
	case Number:
		return v.Num(), true
	case Text:
		f, err := strconv.ParseFloat(v.Text(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func checkSpeed(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > MaxPlausibleSpeed {
		return 0, false
	}
	return f, true
}

// ClampSpeed forces a derived speed statistic back into the valid range.
// Aggregators re-check their outputs with this so the presentation layer can
// never receive NaN, an infinity, or a physically implausible number.
func ClampSpeed(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > MaxPlausibleSpeed {
		return 0
	}
	return f
}
