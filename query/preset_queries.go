package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// PresetListQuery lists a user's active presets, most used first.
type PresetListQuery struct {
	repo types.PresetRepository
}

// NewPresetListQuery constructs the list helper.
func NewPresetListQuery(repo types.PresetRepository) *PresetListQuery {
	return &PresetListQuery{repo: repo}
}

var _ gocommand.Querier[types.PresetFilter, []types.Preset] = (*PresetListQuery)(nil)

// Query returns the presets.
func (q *PresetListQuery) Query(ctx context.Context, filter types.PresetFilter) ([]types.Preset, error) {
	if q.repo == nil {
		return nil, types.ErrMissingPresetRepository
	}
	if filter.UserID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	return q.repo.ListPresets(ctx, filter)
}

// PresetDetailInput identifies the preset to read.
type PresetDetailInput struct {
	UserID   uuid.UUID
	PresetID uuid.UUID
}

// PresetDetailQuery reads one active preset owned by the user.
type PresetDetailQuery struct {
	repo types.PresetRepository
}

// NewPresetDetailQuery constructs the detail helper.
func NewPresetDetailQuery(repo types.PresetRepository) *PresetDetailQuery {
	return &PresetDetailQuery{repo: repo}
}

var _ gocommand.Querier[PresetDetailInput, types.Preset] = (*PresetDetailQuery)(nil)

// Query loads the preset.
func (q *PresetDetailQuery) Query(ctx context.Context, input PresetDetailInput) (types.Preset, error) {
	if q.repo == nil {
		return types.Preset{}, types.ErrMissingPresetRepository
	}
	if input.PresetID == uuid.Nil {
		return types.Preset{}, ErrPresetIDRequired
	}
	preset, err := q.repo.GetPreset(ctx, input.PresetID)
	if err != nil {
		return types.Preset{}, err
	}
	if preset == nil || !preset.IsActive || preset.UserID != input.UserID {
		return types.Preset{}, types.ErrPresetNotFound
	}
	return *preset, nil
}
