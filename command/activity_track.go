package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/assembler"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// ActivityCommandConfig wires dependencies for tracked activity commands.
type ActivityCommandConfig struct {
	ActivityTypes      types.ActivityTypeRepository
	Activities         types.TrackedActivityRepository
	Catalog            types.FoodCatalog
	Audit              types.AuditSink
	Hooks              types.Hooks
	Clock              types.Clock
	Logger             types.Logger
	PortionConcurrency int
}

// ActivityTrackInput captures one submission. Submission receives the
// assembler verdict, accepted or not.
type ActivityTrackInput struct {
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
	Values         []types.RawValue
	Timestamp      any
	Notes          string
	Submission     *assembler.Result
	Result         *types.TrackedActivity
}

// ActivityTrackCommand validates a submission and stores it when accepted.
type ActivityTrackCommand struct {
	activityTypes types.ActivityTypeRepository
	activities    types.TrackedActivityRepository
	submitter     *submitter
	sink          types.AuditSink
	hooks         types.Hooks
	logger        types.Logger
}

// NewActivityTrackCommand constructs the handler.
func NewActivityTrackCommand(cfg ActivityCommandConfig) *ActivityTrackCommand {
	return &ActivityTrackCommand{
		activityTypes: cfg.ActivityTypes,
		activities:    cfg.Activities,
		submitter:     newSubmitter(cfg.Catalog, cfg.PortionConcurrency, safeClock(cfg.Clock), cfg.Audit, cfg.Logger),
		sink:          cfg.Audit,
		hooks:         cfg.Hooks,
		logger:        safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ActivityTrackInput] = (*ActivityTrackCommand)(nil)

// Execute runs the submission. Rejections return a go-errors validation
// error listing every failing field.
func (c *ActivityTrackCommand) Execute(ctx context.Context, input ActivityTrackInput) error {
	if c.activityTypes == nil {
		return types.ErrMissingActivityTypeRepository
	}
	if c.activities == nil {
		return types.ErrMissingTrackedActivityRepository
	}
	if input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	activityType, err := visibleType(ctx, c.activityTypes, input.UserID, input.ActivityTypeID)
	if err != nil {
		return err
	}
	if activityType.Archived {
		return ErrActivityTypeArchived
	}

	result, err := c.submitter.submit(ctx, *activityType, submission{
		userID:    input.UserID,
		values:    input.Values,
		timestamp: input.Timestamp,
		notes:     input.Notes,
	})
	if input.Submission != nil {
		*input.Submission = result
	}
	if err != nil {
		return err
	}

	created, err := trackAccepted(ctx, c.activities, input.UserID, activityType.ID, result)
	if err != nil {
		return err
	}
	recordTracked(ctx, c.sink, c.logger, c.hooks, *created)
	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}

func trackAccepted(ctx context.Context, repo types.TrackedActivityRepository, userID, typeID uuid.UUID, result assembler.Result) (*types.TrackedActivity, error) {
	return repo.CreateTrackedActivity(ctx, types.TrackedActivity{
		UserID:         userID,
		ActivityTypeID: typeID,
		Values:         result.Values,
		Timestamp:      result.Timestamp,
		Notes:          result.Notes,
	})
}

func recordTracked(ctx context.Context, sink types.AuditSink, logger types.Logger, hooks types.Hooks, activity types.TrackedActivity) {
	logAudit(ctx, sink, logger, types.AuditRecord{
		UserID:     activity.UserID,
		Verb:       audit.VerbActivityTracked,
		ObjectType: audit.ObjectTrackedActivity,
		ObjectID:   activity.ID.String(),
		Data: map[string]any{
			"activity_type_id": activity.ActivityTypeID.String(),
			"fields":           len(activity.Values),
			"notes":            activity.Notes,
		},
		OccurredAt: activity.CreatedAt,
	})
	emitTrackedHook(ctx, hooks, activity)
}
