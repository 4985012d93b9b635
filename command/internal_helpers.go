package command

import (
	"context"
	"time"

	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func logAudit(ctx context.Context, sink types.AuditSink, logger types.Logger, record types.AuditRecord) {
	if sink == nil {
		return
	}
	if err := sink.Log(ctx, record); err != nil {
		safeLogger(logger).Error("audit log failed", err, "verb", record.Verb, "object_id", record.ObjectID)
	}
}

func emitTrackedHook(ctx context.Context, hooks types.Hooks, activity types.TrackedActivity) {
	if hooks.AfterActivityTracked == nil {
		return
	}
	hooks.AfterActivityTracked(ctx, activity)
}

func emitPresetAppliedHook(ctx context.Context, hooks types.Hooks, event types.PresetEvent) {
	if hooks.AfterPresetApplied == nil {
		return
	}
	hooks.AfterPresetApplied(ctx, event)
}

func emitPresetChangeHook(ctx context.Context, hooks types.Hooks, event types.PresetEvent) {
	if hooks.AfterPresetChange == nil {
		return
	}
	hooks.AfterPresetChange(ctx, event)
}

func presetEvent(preset types.Preset, action string, at time.Time) types.PresetEvent {
	return types.PresetEvent{
		PresetID:       preset.ID,
		UserID:         preset.UserID,
		ActivityTypeID: preset.ActivityTypeID,
		Action:         action,
		UsageCount:     preset.UsageCount,
		OccurredAt:     at,
	}
}

// visibleType loads an activity type the user may submit against: its own
// types and system types.
func visibleType(ctx context.Context, repo types.ActivityTypeRepository, userID, typeID uuid.UUID) (*types.ActivityType, error) {
	if typeID == uuid.Nil {
		return nil, ErrActivityTypeIDRequired
	}
	activityType, err := repo.GetActivityType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if activityType == nil || (!activityType.IsSystem() && activityType.OwnerID != userID) {
		return nil, types.ErrActivityTypeNotFound
	}
	return activityType, nil
}

// ownedPreset loads an active preset owned by the user.
func ownedPreset(ctx context.Context, repo types.PresetRepository, userID, presetID uuid.UUID) (*types.Preset, error) {
	if presetID == uuid.Nil {
		return nil, ErrPresetIDRequired
	}
	preset, err := repo.GetPreset(ctx, presetID)
	if err != nil {
		return nil, err
	}
	if preset == nil || !preset.IsActive || preset.UserID != userID {
		return nil, types.ErrPresetNotFound
	}
	return preset, nil
}

// ownedActivity loads a tracked activity owned by the user.
func ownedActivity(ctx context.Context, repo types.TrackedActivityRepository, userID, activityID uuid.UUID) (*types.TrackedActivity, error) {
	if activityID == uuid.Nil {
		return nil, ErrActivityIDRequired
	}
	activity, err := repo.GetTrackedActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil || activity.UserID != userID {
		return nil, types.ErrTrackedActivityNotFound
	}
	return activity, nil
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
