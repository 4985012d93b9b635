package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FieldKind enumerates the closed set of value kinds an activity field can declare.
type FieldKind string

const (
	FieldKindBoolean FieldKind = "boolean"
	FieldKindNumber  FieldKind = "number"
	FieldKindText    FieldKind = "text"
	FieldKindDate    FieldKind = "date"
	FieldKindTime    FieldKind = "time"
	FieldKindOptions FieldKind = "options"
	FieldKindFoods   FieldKind = "foods"
)

// FieldKinds lists every supported kind in declaration order.
func FieldKinds() []FieldKind {
	return []FieldKind{
		FieldKindBoolean,
		FieldKindNumber,
		FieldKindText,
		FieldKindDate,
		FieldKindTime,
		FieldKindOptions,
		FieldKindFoods,
	}
}

// Valid reports whether the kind belongs to the supported set.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindBoolean, FieldKindNumber, FieldKindText, FieldKindDate,
		FieldKindTime, FieldKindOptions, FieldKindFoods:
		return true
	default:
		return false
	}
}

// ParseFieldKind resolves a kind name case-insensitively.
func ParseFieldKind(raw string) (FieldKind, error) {
	kind := FieldKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("go-tracking: unknown field kind %q", raw)
	}
	return kind, nil
}

// FieldSchema describes one named, typed slot exposed by an activity type.
type FieldSchema struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Clone returns a copy with the options slice detached.
func (f FieldSchema) Clone() FieldSchema {
	clone := f
	if len(f.Options) > 0 {
		clone.Options = append([]string(nil), f.Options...)
	}
	return clone
}

// HasOption reports whether the value is one of the declared options (case sensitive).
func (f FieldSchema) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// CloneSchema copies an ordered field list.
func CloneSchema(fields []FieldSchema) []FieldSchema {
	if fields == nil {
		return nil
	}
	out := make([]FieldSchema, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// RawValue pairs a submitted field name with its untyped payload.
type RawValue struct {
	Field string
	Value any
}

// RawValuesFromMap flattens a field -> value map into raw values ordered by
// field name.
func RawValuesFromMap(values map[string]any) []RawValue {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]RawValue, 0, len(names))
	for _, name := range names {
		out = append(out, RawValue{Field: name, Value: values[name]})
	}
	return out
}

// Value is the normalized, typed representation of a field value. The set of
// implementations is closed: BoolValue, NumberValue, TextValue, DateValue,
// TimeValue, OptionValue and FoodsValue.
type Value interface {
	Kind() FieldKind
	// Raw returns the JSON friendly representation used for persistence.
	Raw() any
	// Empty reports whether the value counts as "not supplied".
	Empty() bool
	sealed()
}

// BoolValue holds a boolean answer. False is a legitimate answer, never empty.
type BoolValue bool

func (BoolValue) Kind() FieldKind { return FieldKindBoolean }
func (v BoolValue) Raw() any      { return bool(v) }
func (BoolValue) Empty() bool     { return false }
func (BoolValue) sealed()         {}

// NumberValue holds a finite number.
type NumberValue float64

func (NumberValue) Kind() FieldKind { return FieldKindNumber }
func (v NumberValue) Raw() any      { return float64(v) }
func (NumberValue) Empty() bool     { return false }
func (NumberValue) sealed()         {}

// TextValue holds free text.
type TextValue string

func (TextValue) Kind() FieldKind { return FieldKindText }
func (v TextValue) Raw() any      { return string(v) }
func (v TextValue) Empty() bool   { return strings.TrimSpace(string(v)) == "" }
func (TextValue) sealed()         {}

// DateValue holds an ISO date (or date-time) string as submitted.
type DateValue string

func (DateValue) Kind() FieldKind { return FieldKindDate }
func (v DateValue) Raw() any      { return string(v) }
func (v DateValue) Empty() bool   { return strings.TrimSpace(string(v)) == "" }
func (DateValue) sealed()         {}

// TimeValue holds a time-of-day (or date-time) string as submitted.
type TimeValue string

func (TimeValue) Kind() FieldKind { return FieldKindTime }
func (v TimeValue) Raw() any      { return string(v) }
func (v TimeValue) Empty() bool   { return strings.TrimSpace(string(v)) == "" }
func (TimeValue) sealed()         {}

// OptionValue holds the selected option label.
type OptionValue string

func (OptionValue) Kind() FieldKind { return FieldKindOptions }
func (v OptionValue) Raw() any      { return string(v) }
func (v OptionValue) Empty() bool   { return string(v) == "" }
func (OptionValue) sealed()         {}

// FoodsValue holds the canonical food portion list.
type FoodsValue []FoodPortion

func (FoodsValue) Kind() FieldKind { return FieldKindFoods }
func (v FoodsValue) Empty() bool   { return len(v) == 0 }
func (FoodsValue) sealed()         {}

// Raw encodes portions as plain maps so JSON columns round-trip through the normalizer.
func (v FoodsValue) Raw() any {
	out := make([]any, 0, len(v))
	for _, p := range v {
		out = append(out, p.Map())
	}
	return out
}

// Portions returns a detached copy of the portion list.
func (v FoodsValue) Portions() []FoodPortion {
	return append([]FoodPortion(nil), v...)
}

// TrackedValue is a validated (field, value) pair.
type TrackedValue struct {
	Field string
	Value Value
}

// Kind proxies the kind of the held value.
func (t TrackedValue) Kind() FieldKind {
	if t.Value == nil {
		return ""
	}
	return t.Value.Kind()
}

// TrackedValues is an ordered validated value set.
type TrackedValues []TrackedValue

// Get returns the value stored for the field name.
func (vs TrackedValues) Get(field string) (Value, bool) {
	for _, v := range vs {
		if v.Field == field {
			return v.Value, true
		}
	}
	return nil, false
}

// Map renders the value set as field -> raw payload.
func (vs TrackedValues) Map() map[string]any {
	out := make(map[string]any, len(vs))
	for _, v := range vs {
		if v.Value == nil {
			continue
		}
		out[v.Field] = v.Value.Raw()
	}
	return out
}

// ErrorReason classifies a field level failure.
type ErrorReason string

const (
	ReasonMissingRequired ErrorReason = "missing-required"
	ReasonWrongType       ErrorReason = "wrong-type"
	ReasonInvalidOption   ErrorReason = "invalid-option"
	ReasonInvalidPortion  ErrorReason = "invalid-portion"
	// ReasonUnknownField is informational: the value was dropped, not rejected.
	ReasonUnknownField ErrorReason = "unknown-field"
)

// FieldError names the offending field and why it failed. Index points at the
// failing Foods element, or is -1 when the failure concerns the whole field.
type FieldError struct {
	Field   string
	Reason  ErrorReason
	Message string
	Index   int
}

func (e FieldError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s: %s", e.Field, e.Index, e.Reason, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Reason, e.Message)
}

// Map renders the error for metadata payloads.
func (e FieldError) Map() map[string]any {
	out := map[string]any{
		"field":  e.Field,
		"reason": string(e.Reason),
	}
	if e.Message != "" {
		out["message"] = e.Message
	}
	if e.Index >= 0 {
		out["index"] = e.Index
	}
	return out
}

// ParseTimestamp accepts time.Time values or RFC3339, minute precision and
// date-only strings.
func ParseTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}
