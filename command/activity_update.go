package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/assembler"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// ActivityUpdateInput replaces the values of a tracked activity. A nil
// Timestamp keeps the stored one.
type ActivityUpdateInput struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
	Values     []types.RawValue
	Timestamp  any
	Notes      string
	Submission *assembler.Result
	Result     *types.TrackedActivity
}

// ActivityUpdateCommand re-runs the full assembly against the current schema
// of the activity type before storing the new values.
type ActivityUpdateCommand struct {
	activityTypes types.ActivityTypeRepository
	activities    types.TrackedActivityRepository
	submitter     *submitter
	sink          types.AuditSink
	logger        types.Logger
}

// NewActivityUpdateCommand constructs the handler.
func NewActivityUpdateCommand(cfg ActivityCommandConfig) *ActivityUpdateCommand {
	return &ActivityUpdateCommand{
		activityTypes: cfg.ActivityTypes,
		activities:    cfg.Activities,
		submitter:     newSubmitter(cfg.Catalog, cfg.PortionConcurrency, safeClock(cfg.Clock), cfg.Audit, cfg.Logger),
		sink:          cfg.Audit,
		logger:        safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ActivityUpdateInput] = (*ActivityUpdateCommand)(nil)

// Execute validates and stores the replacement values.
func (c *ActivityUpdateCommand) Execute(ctx context.Context, input ActivityUpdateInput) error {
	if c.activityTypes == nil {
		return types.ErrMissingActivityTypeRepository
	}
	if c.activities == nil {
		return types.ErrMissingTrackedActivityRepository
	}
	if input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	existing, err := ownedActivity(ctx, c.activities, input.UserID, input.ActivityID)
	if err != nil {
		return err
	}
	activityType, err := visibleType(ctx, c.activityTypes, input.UserID, existing.ActivityTypeID)
	if err != nil {
		return err
	}

	timestamp := input.Timestamp
	if timestamp == nil {
		timestamp = existing.Timestamp
	}
	result, err := c.submitter.submit(ctx, *activityType, submission{
		userID:    input.UserID,
		values:    input.Values,
		timestamp: timestamp,
		notes:     input.Notes,
	})
	if input.Submission != nil {
		*input.Submission = result
	}
	if err != nil {
		return err
	}

	updated, err := c.activities.UpdateTrackedActivity(ctx, types.TrackedActivity{
		ID:        existing.ID,
		Values:    result.Values,
		Timestamp: result.Timestamp,
		Notes:     result.Notes,
	})
	if err != nil {
		return err
	}
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbActivityUpdated,
		ObjectType: audit.ObjectTrackedActivity,
		ObjectID:   updated.ID.String(),
		Data: map[string]any{
			"activity_type_id": updated.ActivityTypeID.String(),
			"fields":           len(updated.Values),
			"notes":            updated.Notes,
		},
		OccurredAt: updated.UpdatedAt,
	})
	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}
