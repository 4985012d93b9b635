package fields

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goliatone/go-tracking/pkg/types"
)

// PortionFailure reports why one Foods element could not be resolved.
type PortionFailure struct {
	Index   int
	Message string
}

// PortionResolver resolves Foods elements into authoritative gram weights. The
// returned slice has the same length and order as the input; failures name
// the offending indexes.
type PortionResolver interface {
	ResolvePortions(ctx context.Context, portions []types.FoodPortion) ([]types.FoodPortion, []PortionFailure)
}

// Outcome is the atomic verdict for one field. Present is false when an
// optional field was left empty; such fields produce no tracked value.
type Outcome struct {
	Tracked types.TrackedValue
	Present bool
	Errors  []types.FieldError
}

// Valid reports whether the field passed.
func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

// Validator decides per-field legality.
type Validator struct {
	portions PortionResolver
}

// NewValidator constructs a validator. Foods fields need a resolver; without
// one every portion is rejected.
func NewValidator(portions PortionResolver) *Validator {
	return &Validator{portions: portions}
}

// Validate checks one normalized value (nil meaning absent) against its
// declaration.
func (v *Validator) Validate(ctx context.Context, field types.FieldSchema, value types.Value) Outcome {
	if value == nil || value.Empty() {
		if field.Required {
			return failed(field.Name, types.ReasonMissingRequired, "value required")
		}
		return Outcome{}
	}
	if value.Kind() != field.Kind {
		return failed(field.Name, types.ReasonWrongType, fmt.Sprintf("expected %s, got %s", field.Kind, value.Kind()))
	}

	switch val := value.(type) {
	case types.BoolValue:
		return accepted(field.Name, val)
	case types.NumberValue:
		n := float64(val)
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return failed(field.Name, types.ReasonWrongType, "expected a finite number")
		}
		return accepted(field.Name, val)
	case types.TextValue:
		return accepted(field.Name, val)
	case types.DateValue:
		if !parseableDate(string(val)) {
			return failed(field.Name, types.ReasonWrongType, fmt.Sprintf("unparseable date %q", string(val)))
		}
		return accepted(field.Name, val)
	case types.TimeValue:
		if !parseableTime(string(val)) {
			return failed(field.Name, types.ReasonWrongType, fmt.Sprintf("unparseable time %q", string(val)))
		}
		return accepted(field.Name, val)
	case types.OptionValue:
		if !field.HasOption(string(val)) {
			return failed(field.Name, types.ReasonInvalidOption,
				fmt.Sprintf("%q is not one of [%s]", string(val), strings.Join(field.Options, ", ")))
		}
		return accepted(field.Name, val)
	case types.FoodsValue:
		return v.validateFoods(ctx, field, val)
	default:
		return failed(field.Name, types.ReasonWrongType, fmt.Sprintf("unsupported value %T", value))
	}
}

func (v *Validator) validateFoods(ctx context.Context, field types.FieldSchema, value types.FoodsValue) Outcome {
	if v.portions == nil {
		errs := make([]types.FieldError, 0, len(value))
		for i := range value {
			errs = append(errs, types.FieldError{
				Field:   field.Name,
				Reason:  types.ReasonInvalidPortion,
				Message: "food catalog unavailable",
				Index:   i,
			})
		}
		return Outcome{Errors: errs}
	}
	resolved, failures := v.portions.ResolvePortions(ctx, value.Portions())
	if len(failures) > 0 {
		errs := make([]types.FieldError, 0, len(failures))
		for _, f := range failures {
			errs = append(errs, types.FieldError{
				Field:   field.Name,
				Reason:  types.ReasonInvalidPortion,
				Message: f.Message,
				Index:   f.Index,
			})
		}
		return Outcome{Errors: errs}
	}
	return accepted(field.Name, types.FoodsValue(resolved))
}

// PartialErrors resolves the well formed elements of a partially malformed
// Foods value and reports their failures at their submitted positions.
func (v *Validator) PartialErrors(ctx context.Context, field types.FieldSchema, partial *PartialFoods) []types.FieldError {
	if partial == nil || len(partial.Portions) == 0 {
		return nil
	}
	outcome := v.validateFoods(ctx, field, partial.Portions)
	errs := make([]types.FieldError, 0, len(outcome.Errors))
	for _, fe := range outcome.Errors {
		if fe.Index >= 0 && fe.Index < len(partial.Indexes) {
			fe.Index = partial.Indexes[fe.Index]
		}
		errs = append(errs, fe)
	}
	return errs
}

func accepted(name string, value types.Value) Outcome {
	return Outcome{
		Tracked: types.TrackedValue{Field: name, Value: value},
		Present: true,
	}
}

func failed(name string, reason types.ErrorReason, message string) Outcome {
	return Outcome{
		Errors: []types.FieldError{{
			Field:   name,
			Reason:  reason,
			Message: message,
			Index:   -1,
		}},
	}
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	time.RFC3339Nano,
	"2006-01-02T15:04",
}

func parseableDate(s string) bool {
	return parseable(strings.TrimSpace(s), dateLayouts)
}

func parseableTime(s string) bool {
	return parseable(strings.TrimSpace(s), timeLayouts)
}

func parseable(s string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
