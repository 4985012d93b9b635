package command

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

const (
	featureTrackingPresets         = "tracking.presets"
	featureTrackingFoodSuggestions = "tracking.food_suggestions"
)

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, userID uuid.UUID) (bool, error) {
	if gate == nil {
		return true, nil
	}
	if userID == uuid.Nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeSet(featuregate.ScopeSet{
		System: true,
		UserID: userID.String(),
	}))
}

func requireFeature(ctx context.Context, gate featuregate.FeatureGate, key string, userID uuid.UUID, disabled error) error {
	enabled, err := featureEnabled(ctx, gate, key, userID)
	if err != nil {
		return err
	}
	if !enabled {
		return disabled
	}
	return nil
}
