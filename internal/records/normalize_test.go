package records

import (
	"math"
	"testing"
)

func TestNormalizeSpeedShapes(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  float64
		ok    bool
	}{
		{"plain number", NumberValue(45), 45, true},
		{"numeric string", TextValue("72"), 72, true},
		{"numeric string with decimals", TextValue("71.5"), 71.5, true},
		{"unparseable string", TextValue("fast"), 0, false},
		{"object with speed", StructuredValue(map[string]Value{"speed": NumberValue(88)}), 88, true},
		{"object with string speed", StructuredValue(map[string]Value{"speed": TextValue("64")}), 64, true},
		{"object without speed falls back to numeric property", StructuredValue(map[string]Value{
			"plate": TextValue("KA01AB1234"),
			"kmph":  NumberValue(52),
		}), 52, true},
		{"object with only non-numeric properties", StructuredValue(map[string]Value{
			"plate": TextValue("KA01AB1234"),
		}), 0, false},
		{"empty object", StructuredValue(map[string]Value{}), 0, false},
		{"boolean", FlagValue(true), 0, false},
		{"invalid", Value{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeSpeed(tt.value)
			if ok != tt.ok {
				t.Fatalf("NormalizeSpeed ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizeSpeed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeSpeedRejectsOutOfRange(t *testing.T) {
	for _, v := range []Value{
		NumberValue(-1),
		NumberValue(301),
		NumberValue(math.NaN()),
		NumberValue(math.Inf(1)),
		TextValue("-20"),
		TextValue("9999"),
	} {
		if _, ok := NormalizeSpeed(v); ok {
			t.Errorf("expected %v to be rejected", v)
		}
	}

	// The ceiling itself is still a legal reading.
	if got, ok := NormalizeSpeed(NumberValue(MaxPlausibleSpeed)); !ok || got != MaxPlausibleSpeed {
		t.Errorf("NormalizeSpeed(%d) = %v, %v; want %d, true", MaxPlausibleSpeed, got, ok, MaxPlausibleSpeed)
	}
	if got, ok := NormalizeSpeed(NumberValue(0)); !ok || got != 0 {
		t.Errorf("NormalizeSpeed(0) = %v, %v; want 0, true", got, ok)
	}
}

func TestNormalizeSpeedPrefersSpeedField(t *testing.T) {
	v := StructuredValue(map[string]Value{
		"altitude": NumberValue(900),
		"speed":    NumberValue(42),
	})
	got, ok := NormalizeSpeed(v)
	if !ok || got != 42 {
		t.Fatalf("NormalizeSpeed = %v, %v; want 42, true", got, ok)
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{71, 71},
		{0, 0},
		{-3, 0},
		{301, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := ClampSpeed(tt.in); got != tt.want {
			t.Errorf("ClampSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
