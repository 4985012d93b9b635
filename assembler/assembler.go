package assembler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
)

// TimestampField names the pseudo field used to report an unparseable timestamp.
const TimestampField = "timestamp"

// State is the per submission lifecycle position.
type State string

const (
	StateCollecting  State = "collecting"
	StateNormalizing State = "normalizing"
	StateValidating  State = "validating"
	StateAccepted    State = "accepted"
	StateRejected    State = "rejected"
)

// Input is one submission against a schema.
type Input struct {
	Schema    []types.FieldSchema
	Values    []types.RawValue
	Timestamp any
	Notes     string
}

// Result is the verdict of a submission. Values is only populated when the
// submission was accepted.
type Result struct {
	State     State
	Values    types.TrackedValues
	Timestamp time.Time
	Notes     string
	Errors    fields.FieldErrors
	// Dropped lists submitted names the schema does not declare.
	Dropped []string
}

// Accepted reports whether every field passed.
func (r Result) Accepted() bool {
	return r.State == StateAccepted
}

// Err converts a rejected result into a go-errors validation error.
func (r Result) Err() error {
	if r.Accepted() {
		return nil
	}
	return fields.RejectionError(r.Errors)
}

// Assembler turns schema plus raw values into tracked values or a rejection.
type Assembler struct {
	validator *fields.Validator
	clock     types.Clock
}

// New constructs an assembler. A nil clock falls back to the system clock.
func New(validator *fields.Validator, clock types.Clock) *Assembler {
	if validator == nil {
		validator = fields.NewValidator(nil)
	}
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &Assembler{validator: validator, clock: clock}
}

type pair struct {
	field types.FieldSchema
	raw   any
	value types.Value
}

// Assemble runs a submission through collection, normalization and
// validation. Every field failure is accumulated in schema order; the only
// error returned is for a schema that can never be evaluated.
func (a *Assembler) Assemble(ctx context.Context, input Input) (Result, error) {
	if err := fields.CheckSchema(input.Schema); err != nil {
		return Result{}, err
	}

	pairs, dropped := collect(input.Schema, input.Values)
	var errs fields.FieldErrors

	// normalizing
	for i := range pairs {
		p := &pairs[i]
		value, err := fields.Normalize(p.field.Kind, p.raw)
		if err != nil {
			var partial *fields.PartialFoods
			if errors.As(err, &partial) {
				errs = append(errs, partial.Errors.FieldErrors(p.field.Name)...)
				errs = append(errs, a.validator.PartialErrors(ctx, p.field, partial)...)
				continue
			}
			var verrs fields.ValueErrors
			if errors.As(err, &verrs) {
				errs = append(errs, verrs.FieldErrors(p.field.Name)...)
				continue
			}
			return Result{}, err
		}
		p.value = value
	}

	// validating
	failed := make(map[string]struct{}, len(errs))
	for _, fe := range errs {
		failed[fe.Field] = struct{}{}
	}
	tracked := make(types.TrackedValues, 0, len(pairs))
	for _, p := range pairs {
		if _, skip := failed[p.field.Name]; skip {
			continue
		}
		outcome := a.validator.Validate(ctx, p.field, p.value)
		if !outcome.Valid() {
			errs = append(errs, outcome.Errors...)
			continue
		}
		if outcome.Present {
			tracked = append(tracked, outcome.Tracked)
		}
	}
	errs = orderBySchema(errs, input.Schema)

	ts, ok := a.timestamp(input.Timestamp)
	if !ok {
		errs = append(errs, types.FieldError{
			Field:   TimestampField,
			Reason:  types.ReasonWrongType,
			Message: fmt.Sprintf("unparseable timestamp %v", input.Timestamp),
			Index:   -1,
		})
	}

	result := Result{
		Timestamp: ts,
		Notes:     input.Notes,
		Dropped:   dropped,
	}
	if len(errs) > 0 {
		result.State = StateRejected
		result.Errors = errs
		return result, nil
	}
	result.State = StateAccepted
	result.Values = tracked
	return result, nil
}

// collect pairs each declared field with its submitted value. A repeated name
// keeps the last value; undeclared names are dropped.
func collect(schema []types.FieldSchema, values []types.RawValue) ([]pair, []string) {
	index := make(map[string]int, len(schema))
	pairs := make([]pair, len(schema))
	for i, field := range schema {
		index[field.Name] = i
		pairs[i] = pair{field: field}
	}
	var dropped []string
	seenDropped := make(map[string]struct{})
	for _, v := range values {
		i, ok := index[v.Field]
		if !ok {
			if _, dup := seenDropped[v.Field]; !dup {
				seenDropped[v.Field] = struct{}{}
				dropped = append(dropped, v.Field)
			}
			continue
		}
		pairs[i].raw = v.Value
	}
	return pairs, dropped
}

func orderBySchema(errs fields.FieldErrors, schema []types.FieldSchema) fields.FieldErrors {
	if len(errs) < 2 {
		return errs
	}
	out := make(fields.FieldErrors, 0, len(errs))
	for _, field := range schema {
		perField := errs.ForField(field.Name)
		sort.SliceStable(perField, func(i, j int) bool {
			return perField[i].Index < perField[j].Index
		})
		out = append(out, perField...)
	}
	return out
}

func (a *Assembler) timestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return a.clock.Now(), true
	case string:
		if v == "" {
			return a.clock.Now(), true
		}
	case time.Time:
		if v.IsZero() {
			return a.clock.Now(), true
		}
	case *time.Time:
		if v == nil || v.IsZero() {
			return a.clock.Now(), true
		}
	}
	return types.ParseTimestamp(raw)
}
