package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// ActivityDeleteInput identifies the tracked activity to remove.
type ActivityDeleteInput struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
}

// ActivityDeleteCommand removes a tracked activity owned by the user.
type ActivityDeleteCommand struct {
	activities types.TrackedActivityRepository
	sink       types.AuditSink
	clock      types.Clock
	logger     types.Logger
}

// NewActivityDeleteCommand constructs the handler.
func NewActivityDeleteCommand(cfg ActivityCommandConfig) *ActivityDeleteCommand {
	return &ActivityDeleteCommand{
		activities: cfg.Activities,
		sink:       cfg.Audit,
		clock:      safeClock(cfg.Clock),
		logger:     safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ActivityDeleteInput] = (*ActivityDeleteCommand)(nil)

// Execute deletes the activity.
func (c *ActivityDeleteCommand) Execute(ctx context.Context, input ActivityDeleteInput) error {
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
	if err := c.activities.DeleteTrackedActivity(ctx, existing.ID); err != nil {
		return err
	}
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbActivityDeleted,
		ObjectType: audit.ObjectTrackedActivity,
		ObjectID:   existing.ID.String(),
		Data: map[string]any{
			"activity_type_id": existing.ActivityTypeID.String(),
		},
		OccurredAt: now(c.clock),
	})
	return nil
}
