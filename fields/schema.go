package fields

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-tracking/pkg/types"
)

// ErrInvalidSchema marks a field declaration that can never be evaluated
// against. It signals a programmer error, not a data problem.
var ErrInvalidSchema = errors.New("go-tracking: invalid field schema")

// CheckField verifies a single declaration: non-empty name, supported kind
// and options present if and only if the kind is Options.
func CheckField(field types.FieldSchema) error {
	name := field.Name
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: field name required", ErrInvalidSchema)
	}
	if !field.Kind.Valid() {
		return fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidSchema, name, field.Kind)
	}
	if field.Kind == types.FieldKindOptions {
		if len(field.Options) == 0 {
			return fmt.Errorf("%w: options field %q declares no options", ErrInvalidSchema, name)
		}
		seen := make(map[string]struct{}, len(field.Options))
		for _, opt := range field.Options {
			if opt == "" {
				return fmt.Errorf("%w: options field %q declares an empty option", ErrInvalidSchema, name)
			}
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("%w: options field %q repeats option %q", ErrInvalidSchema, name, opt)
			}
			seen[opt] = struct{}{}
		}
		return nil
	}
	if len(field.Options) > 0 {
		return fmt.Errorf("%w: field %q of kind %s must not declare options", ErrInvalidSchema, name, field.Kind)
	}
	return nil
}

// CheckSchema verifies every declaration plus name uniqueness (exact,
// case-sensitive match). All problems are reported together.
func CheckSchema(schema []types.FieldSchema) error {
	var errs []error
	seen := make(map[string]struct{}, len(schema))
	for _, field := range schema {
		if err := CheckField(field); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[field.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate field name %q", ErrInvalidSchema, field.Name))
			continue
		}
		seen[field.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

// EmptyDefault returns the type-appropriate starting value for a kind: false
// for Boolean, an empty list for Foods and the empty string otherwise.
func EmptyDefault(kind types.FieldKind) any {
	switch kind {
	case types.FieldKindBoolean:
		return false
	case types.FieldKindFoods:
		return []any{}
	case types.FieldKindNumber, types.FieldKindText, types.FieldKindDate,
		types.FieldKindTime, types.FieldKindOptions:
		return ""
	default:
		return ""
	}
}
