package query

import (
	"context"
	"errors"

	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

var (
	// ErrActivityIDRequired signals the tracked activity id was missing.
	ErrActivityIDRequired = errors.New("go-tracking: tracked activity id required")
	// ErrPresetIDRequired signals the preset id was missing.
	ErrPresetIDRequired = errors.New("go-tracking: preset id required")
)

func visibleType(ctx context.Context, repo types.ActivityTypeRepository, userID, typeID uuid.UUID) (*types.ActivityType, error) {
	if typeID == uuid.Nil {
		return nil, types.ErrActivityTypeIDRequired
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
