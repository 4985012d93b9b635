package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// PresetDeleteInput identifies the preset to retire.
type PresetDeleteInput struct {
	UserID   uuid.UUID
	PresetID uuid.UUID
}

// PresetDeleteCommand soft deletes a preset. Inactive presets disappear from
// listings and can no longer be applied.
type PresetDeleteCommand struct {
	presets types.PresetRepository
	sink    types.AuditSink
	hooks   types.Hooks
	clock   types.Clock
	logger  types.Logger
	gate    featuregate.FeatureGate
}

// NewPresetDeleteCommand constructs the handler.
func NewPresetDeleteCommand(cfg PresetCommandConfig) *PresetDeleteCommand {
	return &PresetDeleteCommand{
		presets: cfg.Presets,
		sink:    cfg.Audit,
		hooks:   cfg.Hooks,
		clock:   safeClock(cfg.Clock),
		logger:  safeLogger(cfg.Logger),
		gate:    cfg.FeatureGate,
	}
}

var _ gocommand.Commander[PresetDeleteInput] = (*PresetDeleteCommand)(nil)

// Execute deactivates the preset.
func (c *PresetDeleteCommand) Execute(ctx context.Context, input PresetDeleteInput) error {
	if c.presets == nil {
		return types.ErrMissingPresetRepository
	}
	if input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if err := requireFeature(ctx, c.gate, featureTrackingPresets, input.UserID, ErrPresetsDisabled); err != nil {
		return err
	}
	existing, err := ownedPreset(ctx, c.presets, input.UserID, input.PresetID)
	if err != nil {
		return err
	}
	if err := c.presets.DeactivatePreset(ctx, existing.ID); err != nil {
		return err
	}
	existing.IsActive = false
	at := now(c.clock)
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbPresetDeleted,
		ObjectType: audit.ObjectPreset,
		ObjectID:   existing.ID.String(),
		Data: map[string]any{
			"name": existing.Name,
		},
		OccurredAt: at,
	})
	emitPresetChangeHook(ctx, c.hooks, presetEvent(*existing, audit.VerbPresetDeleted, at))
	return nil
}
