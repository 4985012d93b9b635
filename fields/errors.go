package fields

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/pkg/types"
)

const (
	// TextCodeSubmissionRejected tags rejected submissions.
	TextCodeSubmissionRejected = "SUBMISSION_REJECTED"
	// TextCodeInvalidSchema tags schemas that cannot be evaluated.
	TextCodeInvalidSchema = "INVALID_SCHEMA"
)

// FieldErrors is the ordered list of field failures of one submission.
type FieldErrors []types.FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "go-tracking: submission rejected: " + strings.Join(parts, "; ")
}

// ForField returns the failures attached to a field name.
func (e FieldErrors) ForField(name string) FieldErrors {
	var out FieldErrors
	for _, fe := range e {
		if fe.Field == name {
			out = append(out, fe)
		}
	}
	return out
}

// HasReason reports whether any failure carries the reason.
func (e FieldErrors) HasReason(reason types.ErrorReason) bool {
	for _, fe := range e {
		if fe.Reason == reason {
			return true
		}
	}
	return false
}

// Metadata renders the failures for error metadata payloads.
func (e FieldErrors) Metadata() []map[string]any {
	out := make([]map[string]any, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Map())
	}
	return out
}

// RejectionError converts the failures into a validation category go-errors
// error carrying every failure in its metadata.
func RejectionError(errs FieldErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return goerrors.New(errs.Error(), goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeSubmissionRejected).
		WithMetadata(map[string]any{
			"errors": errs.Metadata(),
		})
}

// SchemaError wraps a schema check failure. Schemas supplied by a caller are
// reported as bad requests; stored schemas that fail are internal errors.
func SchemaError(err error, userSupplied bool) error {
	if err == nil {
		return nil
	}
	category := goerrors.CategoryInternal
	code := goerrors.CodeInternal
	if userSupplied {
		category = goerrors.CategoryValidation
		code = goerrors.CodeBadRequest
	}
	return goerrors.Wrap(err, category, "go-tracking: invalid field schema").
		WithCode(code).
		WithTextCode(TextCodeInvalidSchema)
}
