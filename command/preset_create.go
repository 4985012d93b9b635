package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// PresetCommandConfig wires dependencies for preset commands.
type PresetCommandConfig struct {
	Presets            types.PresetRepository
	ActivityTypes      types.ActivityTypeRepository
	Activities         types.TrackedActivityRepository
	Catalog            types.FoodCatalog
	Audit              types.AuditSink
	Hooks              types.Hooks
	Clock              types.Clock
	Logger             types.Logger
	FeatureGate        featuregate.FeatureGate
	PortionConcurrency int
}

// PresetCreateInput saves a preset either from raw values or from the values
// of a tracked activity owned by the user.
type PresetCreateInput struct {
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
	Name           string
	Fields         map[string]any
	FromActivityID uuid.UUID
	Result         *types.Preset
}

// PresetCreateCommand stores a new preset. Values are kept raw and are only
// evaluated when the preset is applied.
type PresetCreateCommand struct {
	presets       types.PresetRepository
	activityTypes types.ActivityTypeRepository
	activities    types.TrackedActivityRepository
	sink          types.AuditSink
	hooks         types.Hooks
	clock         types.Clock
	logger        types.Logger
	gate          featuregate.FeatureGate
}

// NewPresetCreateCommand constructs the handler.
func NewPresetCreateCommand(cfg PresetCommandConfig) *PresetCreateCommand {
	return &PresetCreateCommand{
		presets:       cfg.Presets,
		activityTypes: cfg.ActivityTypes,
		activities:    cfg.Activities,
		sink:          cfg.Audit,
		hooks:         cfg.Hooks,
		clock:         safeClock(cfg.Clock),
		logger:        safeLogger(cfg.Logger),
		gate:          cfg.FeatureGate,
	}
}

var _ gocommand.Commander[PresetCreateInput] = (*PresetCreateCommand)(nil)

// Execute validates ownership and stores the preset.
func (c *PresetCreateCommand) Execute(ctx context.Context, input PresetCreateInput) error {
	if c.presets == nil {
		return types.ErrMissingPresetRepository
	}
	if c.activityTypes == nil {
		return types.ErrMissingActivityTypeRepository
	}
	if input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if err := requireFeature(ctx, c.gate, featureTrackingPresets, input.UserID, ErrPresetsDisabled); err != nil {
		return err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrPresetNameRequired
	}

	typeID := input.ActivityTypeID
	values := cloneMap(input.Fields)
	if input.FromActivityID != uuid.Nil {
		if input.Fields != nil {
			return ErrPresetSourceConflict
		}
		if c.activities == nil {
			return types.ErrMissingTrackedActivityRepository
		}
		source, err := ownedActivity(ctx, c.activities, input.UserID, input.FromActivityID)
		if err != nil {
			return err
		}
		if typeID != uuid.Nil && typeID != source.ActivityTypeID {
			return ErrPresetSourceConflict
		}
		typeID = source.ActivityTypeID
		values = source.Values.Map()
	}
	if _, err := visibleType(ctx, c.activityTypes, input.UserID, typeID); err != nil {
		return err
	}
	if values == nil {
		values = map[string]any{}
	}

	created, err := c.presets.CreatePreset(ctx, types.Preset{
		UserID:         input.UserID,
		ActivityTypeID: typeID,
		Name:           name,
		Fields:         values,
	})
	if err != nil {
		return err
	}
	at := now(c.clock)
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbPresetCreated,
		ObjectType: audit.ObjectPreset,
		ObjectID:   created.ID.String(),
		Data: map[string]any{
			"activity_type_id": typeID.String(),
			"name":             created.Name,
		},
		OccurredAt: at,
	})
	emitPresetChangeHook(ctx, c.hooks, presetEvent(*created, audit.VerbPresetCreated, at))
	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}
