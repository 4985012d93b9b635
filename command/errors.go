package command

import (
	"errors"

	"github.com/goliatone/go-tracking/pkg/types"
)

var (
	// ErrUserIDRequired occurs when a command omits the acting user.
	ErrUserIDRequired = types.ErrUserIDRequired
	// ErrActivityTypeIDRequired occurs when a submission omits its activity type.
	ErrActivityTypeIDRequired = types.ErrActivityTypeIDRequired
	// ErrActivityTypeNameRequired occurs when an activity type has no name.
	ErrActivityTypeNameRequired = errors.New("go-tracking: activity type name required")
	// ErrActivityTypeArchived indicates new submissions target an archived type.
	ErrActivityTypeArchived = errors.New("go-tracking: activity type archived")
	// ErrActivityIDRequired signals the tracked activity id was missing.
	ErrActivityIDRequired = errors.New("go-tracking: tracked activity id required")
	// ErrPresetIDRequired signals the preset id was missing.
	ErrPresetIDRequired = errors.New("go-tracking: preset id required")
	// ErrPresetNameRequired occurs when a preset has no name.
	ErrPresetNameRequired = errors.New("go-tracking: preset name required")
	// ErrPresetSourceConflict occurs when a preset is created from both raw
	// values and a tracked activity.
	ErrPresetSourceConflict = errors.New("go-tracking: preset needs either values or a source activity")
	// ErrPresetsDisabled indicates presets are disabled via feature gate.
	ErrPresetsDisabled = errors.New("go-tracking: presets disabled")
	// ErrFoodSuggestionsDisabled indicates suggested foods are disabled via feature gate.
	ErrFoodSuggestionsDisabled = errors.New("go-tracking: food suggestions disabled")
)
