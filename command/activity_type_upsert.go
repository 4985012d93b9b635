package command

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// ActivityTypeCommandConfig wires dependencies for activity type commands.
type ActivityTypeCommandConfig struct {
	Repository types.ActivityTypeRepository
	Audit      types.AuditSink
	Clock      types.Clock
	Logger     types.Logger
}

// ActivityTypeUpsertInput defines or redefines an activity type. A nil
// OwnerID declares a system type.
type ActivityTypeUpsertInput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Fields      []types.FieldSchema
	Archived    bool
	Result      *types.ActivityType
}

// ActivityTypeUpsertCommand checks and stores an activity type schema.
type ActivityTypeUpsertCommand struct {
	repo   types.ActivityTypeRepository
	sink   types.AuditSink
	clock  types.Clock
	logger types.Logger
}

// NewActivityTypeUpsertCommand constructs the handler.
func NewActivityTypeUpsertCommand(cfg ActivityTypeCommandConfig) *ActivityTypeUpsertCommand {
	return &ActivityTypeUpsertCommand{
		repo:   cfg.Repository,
		sink:   cfg.Audit,
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ActivityTypeUpsertInput] = (*ActivityTypeUpsertCommand)(nil)

// Execute rejects schemas that can never be evaluated before anything is
// stored. Redefining a type requires the same owner.
func (c *ActivityTypeUpsertCommand) Execute(ctx context.Context, input ActivityTypeUpsertInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityTypeRepository
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrActivityTypeNameRequired
	}
	if err := fields.CheckSchema(input.Fields); err != nil {
		return fields.SchemaError(err, true)
	}
	if input.ID != uuid.Nil {
		existing, err := c.repo.GetActivityType(ctx, input.ID)
		switch {
		case err == nil && existing != nil && existing.OwnerID != input.OwnerID:
			return types.ErrActivityTypeNotFound
		case err != nil && !errors.Is(err, types.ErrActivityTypeNotFound):
			return err
		}
	}

	saved, err := c.repo.UpsertActivityType(ctx, types.ActivityType{
		ID:          input.ID,
		OwnerID:     input.OwnerID,
		Name:        name,
		Description: input.Description,
		Fields:      types.CloneSchema(input.Fields),
		Archived:    input.Archived,
	})
	if err != nil {
		return err
	}
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.OwnerID,
		Verb:       audit.VerbActivityTypeSaved,
		ObjectType: audit.ObjectActivityType,
		ObjectID:   saved.ID.String(),
		Data: map[string]any{
			"name":     saved.Name,
			"fields":   len(saved.Fields),
			"archived": saved.Archived,
		},
		OccurredAt: now(c.clock),
	})
	if input.Result != nil {
		*input.Result = *saved
	}
	return nil
}
