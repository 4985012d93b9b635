package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-tracking/pkg/types"
)

// ValueError is a data problem found while normalizing a single value. Index
// points at the failing Foods element, or is -1 when it concerns the whole value.
type ValueError struct {
	Reason  types.ErrorReason
	Message string
	Index   int
}

func (e ValueError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("[%d] %s: %s", e.Index, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// ValueErrors collects every problem found in one value.
type ValueErrors []ValueError

func (e ValueErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// FieldErrors binds the value errors to a field name.
func (e ValueErrors) FieldErrors(field string) []types.FieldError {
	out := make([]types.FieldError, 0, len(e))
	for _, v := range e {
		out = append(out, types.FieldError{
			Field:   field,
			Reason:  v.Reason,
			Message: v.Message,
			Index:   v.Index,
		})
	}
	return out
}

func wrongType(format string, args ...any) ValueErrors {
	return ValueErrors{{Reason: types.ReasonWrongType, Message: fmt.Sprintf(format, args...), Index: -1}}
}

// Normalize collapses the representation variance of a raw value into the
// canonical Value for kind. A nil Value with a nil error means "absent".
// Data problems are returned as ValueErrors; an unsupported kind returns an
// error wrapping ErrInvalidSchema.
func Normalize(kind types.FieldKind, raw any) (types.Value, error) {
	switch kind {
	case types.FieldKindBoolean:
		return normalizeBoolean(raw)
	case types.FieldKindNumber:
		return normalizeNumber(raw)
	case types.FieldKindText:
		return normalizeString(raw, kind, func(s string) types.Value { return types.TextValue(s) })
	case types.FieldKindDate:
		return normalizeString(raw, kind, func(s string) types.Value { return types.DateValue(s) })
	case types.FieldKindTime:
		return normalizeString(raw, kind, func(s string) types.Value { return types.TimeValue(s) })
	case types.FieldKindOptions:
		return normalizeString(raw, kind, func(s string) types.Value { return types.OptionValue(s) })
	case types.FieldKindFoods:
		return normalizeFoods(raw)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchema, kind)
	}
}

func normalizeBoolean(raw any) (types.Value, error) {
	switch v := raw.(type) {
	case nil:
		return types.BoolValue(false), nil
	case types.BoolValue:
		return v, nil
	case bool:
		return types.BoolValue(v), nil
	case *bool:
		if v == nil {
			return types.BoolValue(false), nil
		}
		return types.BoolValue(*v), nil
	case string:
		if v == "" {
			return types.BoolValue(false), nil
		}
		return nil, wrongType("expected a boolean, got %q", v)
	default:
		return nil, wrongType("expected a boolean, got %T", raw)
	}
}

func normalizeNumber(raw any) (types.Value, error) {
	var n float64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case types.NumberValue:
		n = float64(v)
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, wrongType("expected a number, got %q", v.String())
		}
		n = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, wrongType("expected a number, got %q", v)
		}
		n = parsed
	default:
		return nil, wrongType("expected a number, got %T", raw)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, wrongType("expected a finite number")
	}
	return types.NumberValue(n), nil
}

func normalizeString(raw any, kind types.FieldKind, wrap func(string) types.Value) (types.Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case types.Value:
		if v.Kind() != kind {
			return nil, wrongType("expected a %s value, got %s", kind, v.Kind())
		}
		return v, nil
	case string:
		return wrap(v), nil
	case time.Time:
		switch kind {
		case types.FieldKindDate:
			return wrap(v.Format(time.DateOnly)), nil
		case types.FieldKindTime:
			return wrap(v.Format("15:04")), nil
		}
		return nil, wrongType("expected text, got a timestamp")
	default:
		return nil, wrongType("expected text, got %T", raw)
	}
}

// normalizeFoods detects the legacy shape (bare identifiers) per element and
// converts it into 100 g portions. Portion shaped elements, recognised by a
// foodId property, pass through unchanged.
func normalizeFoods(raw any) (types.Value, error) {
	switch v := raw.(type) {
	case nil:
		return types.FoodsValue{}, nil
	case types.FoodsValue:
		return v, nil
	case []types.FoodPortion:
		return types.FoodsValue(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return types.FoodsValue{}, nil
		}
		return nil, wrongType("expected a list of foods, got a string")
	case []string:
		out := make(types.FoodsValue, 0, len(v))
		for _, id := range v {
			out = append(out, types.LegacyPortion(id))
		}
		return out, nil
	case []map[string]any:
		items := make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
		return normalizeFoodItems(items)
	case []any:
		return normalizeFoodItems(v)
	default:
		return nil, wrongType("expected a list of foods, got %T", raw)
	}
}

// PartialFoods is returned when some Foods elements are malformed. Portions
// keeps the well formed elements so they can still be resolved; Indexes maps
// each of them back to its position in the submitted list.
type PartialFoods struct {
	Errors   ValueErrors
	Portions types.FoodsValue
	Indexes  []int
}

func (e *PartialFoods) Error() string {
	return e.Errors.Error()
}

func (e *PartialFoods) Unwrap() error {
	return e.Errors
}

func normalizeFoodItems(items []any) (types.Value, error) {
	out := make(types.FoodsValue, 0, len(items))
	indexes := make([]int, 0, len(items))
	var errs ValueErrors
	for i, item := range items {
		portion, err := normalizeFoodItem(item)
		if err != nil {
			errs = append(errs, ValueError{Reason: types.ReasonWrongType, Message: err.Error(), Index: i})
			continue
		}
		out = append(out, portion)
		indexes = append(indexes, i)
	}
	if len(errs) > 0 {
		return nil, &PartialFoods{Errors: errs, Portions: out, Indexes: indexes}
	}
	return out, nil
}

func normalizeFoodItem(item any) (types.FoodPortion, error) {
	switch v := item.(type) {
	case string:
		return types.LegacyPortion(v), nil
	case types.FoodPortion:
		return v, nil
	case *types.FoodPortion:
		if v == nil {
			return types.FoodPortion{}, fmt.Errorf("empty food entry")
		}
		return *v, nil
	case map[string]any:
		return portionFromMap(v)
	default:
		return types.FoodPortion{}, fmt.Errorf("expected a food id or portion, got %T", item)
	}
}

func portionFromMap(m map[string]any) (types.FoodPortion, error) {
	rawID, ok := m["foodId"]
	if !ok {
		return types.FoodPortion{}, fmt.Errorf("portion is missing foodId")
	}
	foodID, ok := rawID.(string)
	if !ok {
		return types.FoodPortion{}, fmt.Errorf("foodId must be a string, got %T", rawID)
	}
	portion := types.FoodPortion{FoodID: foodID}

	var err error
	if portion.Amount, err = floatProperty(m, "amount"); err != nil {
		return types.FoodPortion{}, err
	}
	if portion.GramsEquivalent, err = floatProperty(m, "gramsEquivalent"); err != nil {
		return types.FoodPortion{}, err
	}
	if portion.ServingType, err = stringProperty(m, "servingType"); err != nil {
		return types.FoodPortion{}, err
	}
	if portion.ServingName, err = stringProperty(m, "servingName"); err != nil {
		return types.FoodPortion{}, err
	}
	return portion, nil
}

func floatProperty(m map[string]any, key string) (float64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, nil
	}
	value, err := normalizeNumber(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", key)
	}
	if value == nil {
		return 0, nil
	}
	return float64(value.(types.NumberValue)), nil
}

func stringProperty(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, raw)
	}
	return s, nil
}
