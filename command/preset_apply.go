package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tracking/assembler"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/goliatone/go-tracking/presets"
	"github.com/google/uuid"
)

// PresetApplyInput applies a preset. Without Track the caller receives the
// projected raw values as a submission starting point. With Track the
// projection, overlaid with Overrides, is submitted as a new tracked activity.
type PresetApplyInput struct {
	UserID    uuid.UUID
	PresetID  uuid.UUID
	Track     bool
	Overrides []types.RawValue
	Timestamp any
	Notes     string
	Result    *PresetApplyResult
}

// PresetApplyResult reports what the application produced. Submission and
// Activity are only set when the input asked to track.
type PresetApplyResult struct {
	Preset     types.Preset
	Projection presets.Projection
	Submission *assembler.Result
	Activity   *types.TrackedActivity
}

// PresetApplyCommand projects a preset onto the current schema of its
// activity type and counts the use.
type PresetApplyCommand struct {
	presets       types.PresetRepository
	activityTypes types.ActivityTypeRepository
	activities    types.TrackedActivityRepository
	submitter     *submitter
	sink          types.AuditSink
	hooks         types.Hooks
	clock         types.Clock
	logger        types.Logger
	gate          featuregate.FeatureGate
}

// NewPresetApplyCommand constructs the handler.
func NewPresetApplyCommand(cfg PresetCommandConfig) *PresetApplyCommand {
	clock := safeClock(cfg.Clock)
	return &PresetApplyCommand{
		presets:       cfg.Presets,
		activityTypes: cfg.ActivityTypes,
		activities:    cfg.Activities,
		submitter:     newSubmitter(cfg.Catalog, cfg.PortionConcurrency, clock, cfg.Audit, cfg.Logger),
		sink:          cfg.Audit,
		hooks:         cfg.Hooks,
		clock:         clock,
		logger:        safeLogger(cfg.Logger),
		gate:          cfg.FeatureGate,
	}
}

var _ gocommand.Commander[PresetApplyInput] = (*PresetApplyCommand)(nil)

// Execute applies the preset. Usage is counted only for an active preset and
// only once the application succeeded; a rejected tracked submission leaves
// the statistics untouched. When the preset is deactivated after its activity
// was stored, the activity is still returned and the missed count is logged.
func (c *PresetApplyCommand) Execute(ctx context.Context, input PresetApplyInput) error {
	if c.presets == nil {
		return types.ErrMissingPresetRepository
	}
	if c.activityTypes == nil {
		return types.ErrMissingActivityTypeRepository
	}
	if input.Track && c.activities == nil {
		return types.ErrMissingTrackedActivityRepository
	}
	if input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if err := requireFeature(ctx, c.gate, featureTrackingPresets, input.UserID, ErrPresetsDisabled); err != nil {
		return err
	}
	preset, err := ownedPreset(ctx, c.presets, input.UserID, input.PresetID)
	if err != nil {
		return err
	}
	activityType, err := visibleType(ctx, c.activityTypes, input.UserID, preset.ActivityTypeID)
	if err != nil {
		return err
	}
	if input.Track && activityType.Archived {
		return ErrActivityTypeArchived
	}

	if err := fields.CheckSchema(activityType.Fields); err != nil {
		c.logger.Error("activity type schema cannot be evaluated", err, "activity_type_id", activityType.ID)
		return fields.SchemaError(err, false)
	}
	projection, err := presets.Project(preset.Fields, activityType.Fields)
	if err != nil {
		return err
	}
	c.submitter.reportDropped(ctx, input.UserID, activityType.ID, audit.ObjectPreset, preset.ID.String(), projection.Dropped)

	result := PresetApplyResult{Projection: projection}
	if input.Track {
		values := append(append([]types.RawValue(nil), projection.Values...), input.Overrides...)
		submitted, err := c.submitter.submit(ctx, *activityType, submission{
			userID:    input.UserID,
			values:    values,
			timestamp: input.Timestamp,
			notes:     input.Notes,
		})
		result.Submission = &submitted
		if err != nil {
			if input.Result != nil {
				result.Preset = *preset
				*input.Result = result
			}
			return err
		}
		created, err := trackAccepted(ctx, c.activities, input.UserID, activityType.ID, submitted)
		if err != nil {
			return err
		}
		recordTracked(ctx, c.sink, c.logger, c.hooks, *created)
		result.Activity = created
	}

	at := now(c.clock)
	applied, err := c.presets.IncrementUsage(ctx, preset.ID, at)
	if err != nil {
		if result.Activity == nil {
			return err
		}
		// the activity is already stored
		c.logger.Error("preset usage not counted", err,
			"preset_id", preset.ID,
			"tracked_activity_id", result.Activity.ID,
		)
		result.Preset = *preset
		if input.Result != nil {
			*input.Result = result
		}
		return nil
	}
	result.Preset = *applied
	data := map[string]any{
		"activity_type_id": activityType.ID.String(),
		"usage_count":      applied.UsageCount,
	}
	if result.Activity != nil {
		data["tracked_activity_id"] = result.Activity.ID.String()
	}
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbPresetApplied,
		ObjectType: audit.ObjectPreset,
		ObjectID:   applied.ID.String(),
		Data:       data,
		OccurredAt: at,
	})
	emitPresetAppliedHook(ctx, c.hooks, presetEvent(*applied, audit.VerbPresetApplied, at))
	if input.Result != nil {
		*input.Result = result
	}
	return nil
}
