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

// PresetUpdateInput renames a preset and/or replaces its stored values. An
// empty Name and nil Fields leave the respective property untouched.
type PresetUpdateInput struct {
	UserID   uuid.UUID
	PresetID uuid.UUID
	Name     string
	Fields   map[string]any
	Result   *types.Preset
}

// PresetUpdateCommand mutates an active preset owned by the user. Usage
// statistics are never touched.
type PresetUpdateCommand struct {
	presets types.PresetRepository
	sink    types.AuditSink
	hooks   types.Hooks
	clock   types.Clock
	logger  types.Logger
	gate    featuregate.FeatureGate
}

// NewPresetUpdateCommand constructs the handler.
func NewPresetUpdateCommand(cfg PresetCommandConfig) *PresetUpdateCommand {
	return &PresetUpdateCommand{
		presets: cfg.Presets,
		sink:    cfg.Audit,
		hooks:   cfg.Hooks,
		clock:   safeClock(cfg.Clock),
		logger:  safeLogger(cfg.Logger),
		gate:    cfg.FeatureGate,
	}
}

var _ gocommand.Commander[PresetUpdateInput] = (*PresetUpdateCommand)(nil)

// Execute applies the mutation.
func (c *PresetUpdateCommand) Execute(ctx context.Context, input PresetUpdateInput) error {
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

	updated, err := c.presets.UpdatePreset(ctx, types.Preset{
		ID:     existing.ID,
		Name:   strings.TrimSpace(input.Name),
		Fields: cloneMap(input.Fields),
	})
	if err != nil {
		return err
	}
	at := now(c.clock)
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbPresetUpdated,
		ObjectType: audit.ObjectPreset,
		ObjectID:   updated.ID.String(),
		Data: map[string]any{
			"name":           updated.Name,
			"fields_changed": input.Fields != nil,
		},
		OccurredAt: at,
	})
	emitPresetChangeHook(ctx, c.hooks, presetEvent(*updated, audit.VerbPresetUpdated, at))
	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}
