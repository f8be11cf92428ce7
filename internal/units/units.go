// Package units provides shared constants and validation for speed units
package units

// Unit constants
const (
	KMPH = "kmph"
	KPH  = "kph"
	MPH  = "mph"
	MPS  = "mps"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{KMPH, KPH, MPH, MPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "kmph, kph, mph, mps"
}

// ConvertSpeed converts a speed from km/h to the target units.
// The capture pipeline reports speeds in km/h; the speed limit and the
// 300 km/h plausibility ceiling are defined against that base.
func ConvertSpeed(speedKMPH float64, targetUnits string) float64 {
	switch targetUnits {
	case KMPH, KPH:
		return speedKMPH
	case MPH:
		return speedKMPH * 0.6213711922
	case MPS:
		return speedKMPH / 3.6
	default:
		return speedKMPH
	}
}
