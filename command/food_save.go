package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/catalog"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// FoodCommandConfig wires dependencies for catalog commands.
type FoodCommandConfig struct {
	Repository  types.FoodRepository
	Audit       types.AuditSink
	Clock       types.Clock
	Logger      types.Logger
	FeatureGate featuregate.FeatureGate
}

// FoodSaveInput creates or replaces a catalog entry. When Nutrition is set it
// is parsed as a loosely typed per 100 g payload and replaces
// Food.NutritionPer100g.
type FoodSaveInput struct {
	UserID    uuid.UUID
	Food      types.Food
	Nutrition map[string]any
	Result    *types.Food
}

// FoodSaveCommand validates and stores a food. Suggested entries are gated
// by tracking.food_suggestions.
type FoodSaveCommand struct {
	repo   types.FoodRepository
	sink   types.AuditSink
	clock  types.Clock
	logger types.Logger
	gate   featuregate.FeatureGate
}

// NewFoodSaveCommand constructs the handler.
func NewFoodSaveCommand(cfg FoodCommandConfig) *FoodSaveCommand {
	return &FoodSaveCommand{
		repo:   cfg.Repository,
		sink:   cfg.Audit,
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
		gate:   cfg.FeatureGate,
	}
}

var _ gocommand.Commander[FoodSaveInput] = (*FoodSaveCommand)(nil)

// Execute validates the entry and persists it.
func (c *FoodSaveCommand) Execute(ctx context.Context, input FoodSaveInput) error {
	if c.repo == nil {
		return types.ErrMissingFoodRepository
	}
	food := input.Food
	food.Source = strings.TrimSpace(food.Source)
	if food.Source == catalog.SourceSuggested {
		if err := requireFeature(ctx, c.gate, featureTrackingFoodSuggestions, input.UserID, ErrFoodSuggestionsDisabled); err != nil {
			return err
		}
	}
	if input.Nutrition != nil {
		nutrition, err := catalog.ParseNutrition(input.Nutrition)
		if err != nil {
			return err
		}
		food.NutritionPer100g = nutrition
	}
	if err := catalog.ValidateFood(food); err != nil {
		c.logger.Info("food rejected", "name", food.Name, "source", food.Source)
		return err
	}
	if food.OwnerID == uuid.Nil {
		food.OwnerID = input.UserID
	}

	saved, err := c.repo.SaveFood(ctx, food)
	if err != nil {
		return err
	}
	logAudit(ctx, c.sink, c.logger, types.AuditRecord{
		UserID:     input.UserID,
		Verb:       audit.VerbFoodSaved,
		ObjectType: audit.ObjectFood,
		ObjectID:   saved.ID.String(),
		Data: map[string]any{
			"name":     saved.Name,
			"source":   saved.Source,
			"servings": len(saved.CommonServings),
		},
		OccurredAt: now(c.clock),
	})
	if input.Result != nil {
		*input.Result = *saved
	}
	return nil
}
