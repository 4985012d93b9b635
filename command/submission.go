package command

import (
	"context"

	"github.com/goliatone/go-tracking/assembler"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/goliatone/go-tracking/portion"
	"github.com/google/uuid"
)

// submission is one set of raw values bound for the assembler.
type submission struct {
	userID    uuid.UUID
	values    []types.RawValue
	timestamp any
	notes     string
}

// submitter evaluates submissions against an activity type and records the
// side effects every entry point shares.
type submitter struct {
	assembler *assembler.Assembler
	audit     types.AuditSink
	logger    types.Logger
}

func newSubmitter(catalog types.FoodCatalog, concurrency int, clock types.Clock, sink types.AuditSink, logger types.Logger) *submitter {
	var resolver fields.PortionResolver
	if catalog != nil {
		var opts []portion.Option
		if concurrency > 0 {
			opts = append(opts, portion.WithConcurrency(concurrency))
		}
		resolver = portion.NewResolver(catalog, opts...)
	}
	return &submitter{
		assembler: assembler.New(fields.NewValidator(resolver), clock),
		audit:     sink,
		logger:    safeLogger(logger),
	}
}

// submit assembles the values. A rejected result is returned together with
// its go-errors rendition; a stored schema that cannot be evaluated is an
// internal error.
func (s *submitter) submit(ctx context.Context, activityType types.ActivityType, in submission) (assembler.Result, error) {
	result, err := s.assembler.Assemble(ctx, assembler.Input{
		Schema:    activityType.Fields,
		Values:    in.values,
		Timestamp: in.timestamp,
		Notes:     in.notes,
	})
	if err != nil {
		s.logger.Error("activity type schema cannot be evaluated", err, "activity_type_id", activityType.ID)
		return result, fields.SchemaError(err, false)
	}
	s.reportDropped(ctx, in.userID, activityType.ID, audit.ObjectActivityType, activityType.ID.String(), result.Dropped)

	if !result.Accepted() {
		s.logger.Info("submission rejected", "activity_type_id", activityType.ID, "errors", len(result.Errors))
		logAudit(ctx, s.audit, s.logger, types.AuditRecord{
			UserID:     in.userID,
			Verb:       audit.VerbActivityRejected,
			ObjectType: audit.ObjectActivityType,
			ObjectID:   activityType.ID.String(),
			Data: map[string]any{
				"errors": result.Errors.Metadata(),
			},
		})
		return result, result.Err()
	}
	return result, nil
}

func (s *submitter) reportDropped(ctx context.Context, userID, typeID uuid.UUID, objectType, objectID string, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	s.logger.Debug("dropped unknown fields", "activity_type_id", typeID, "fields", dropped)
	logAudit(ctx, s.audit, s.logger, types.AuditRecord{
		UserID:     userID,
		Verb:       audit.VerbFieldDropped,
		ObjectType: objectType,
		ObjectID:   objectID,
		Data: map[string]any{
			"activity_type_id": typeID.String(),
			"fields":           append([]string(nil), dropped...),
		},
	})
}
