// Package records models the raw, loosely-typed observation records the
// surveillance pipeline emits: JSON objects keyed by a vehicle or plate
// identifier whose values may be numbers, strings, booleans, or property
// bags. Values are decoded into an explicit variant type so downstream
// aggregation can switch over shapes instead of sniffing types at runtime.
package records

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the shapes a raw record value can take.
type Kind int

const (
	// Invalid marks a value that carried no decodable payload (JSON null,
	// or a shape outside the supported variants).
	Invalid Kind = iota
	Number
	Text
	Flag
	Structured
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Flag:
		return "flag"
	case Structured:
		return "structured"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the raw shapes. The zero Value is Invalid.
type Value struct {
	kind   Kind
	num    float64
	text   string
	flag   bool
	fields map[string]Value
}

// NumberValue returns a Number variant.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// TextValue returns a Text variant.
func TextValue(s string) Value { return Value{kind: Text, text: s} }

// FlagValue returns a Flag variant.
func FlagValue(b bool) Value { return Value{kind: Flag, flag: b} }

// StructuredValue returns a Structured variant over the given fields.
// The map is used directly, not copied.
func StructuredValue(fields map[string]Value) Value {
	return Value{kind: Structured, fields: fields}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric payload. Only meaningful for Number values.
func (v Value) Num() float64 { return v.num }

// Text returns the string payload. Only meaningful for Text values.
func (v Value) Text() string { return v.text }

// Flag returns the boolean payload. Only meaningful for Flag values.
func (v Value) Flag() bool { return v.flag }

// Field looks up a property of a Structured value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Structured {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// FieldNames returns the property names of a Structured value in sorted
// order. Sorting makes property scans reproducible across runs; JSON object
// order is not preserved by decoding.
func (v Value) FieldNames() []string {
	if v.kind != Structured {
		return nil
	}
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnmarshalJSON decodes any JSON value into the matching variant. Arrays and
// null decode as Invalid; they carry no usable observation payload.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '{':
		var fields map[string]Value
		if err := json.Unmarshal(data, &fields); err != nil {
			return fmt.Errorf("failed to decode structured value: %w", err)
		}
		*v = StructuredValue(fields)
	case '[':
		*v = Value{}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode text value: %w", err)
		}
		*v = TextValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("failed to decode flag value: %w", err)
		}
		*v = FlagValue(b)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("failed to decode numeric value: %w", err)
		}
		*v = NumberValue(f)
	}
	return nil
}

// MarshalJSON re-encodes the variant in its original JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Number:
		return json.Marshal(v.num)
	case Text:
		return json.Marshal(v.text)
	case Flag:
		return json.Marshal(v.flag)
	case Structured:
		return json.Marshal(v.fields)
	default:
		return []byte("null"), nil
	}
}
