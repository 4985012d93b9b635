package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/goliatone/go-tracking/portion"
	"github.com/google/uuid"
)

// ActivityFeedQuery renders a user's tracked activities, newest first.
type ActivityFeedQuery struct {
	repo types.TrackedActivityRepository
}

// NewActivityFeedQuery constructs the feed helper.
func NewActivityFeedQuery(repo types.TrackedActivityRepository) *ActivityFeedQuery {
	return &ActivityFeedQuery{repo: repo}
}

var _ gocommand.Querier[types.TrackedActivityFilter, types.TrackedActivityPage] = (*ActivityFeedQuery)(nil)

// Query fetches one page.
func (q *ActivityFeedQuery) Query(ctx context.Context, filter types.TrackedActivityFilter) (types.TrackedActivityPage, error) {
	if q.repo == nil {
		return types.TrackedActivityPage{}, types.ErrMissingTrackedActivityRepository
	}
	if filter.UserID == uuid.Nil {
		return types.TrackedActivityPage{}, types.ErrUserIDRequired
	}
	return q.repo.ListTrackedActivities(ctx, filter)
}

// ActivityNutritionInput identifies the activity to analyse.
type ActivityNutritionInput struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
}

// FieldNutrition is the breakdown of one Foods field.
type FieldNutrition struct {
	Field     string
	Breakdown portion.Breakdown
}

// ActivityNutrition reports the nutrition of a tracked activity computed
// against the current catalog.
type ActivityNutrition struct {
	ActivityID uuid.UUID
	Fields     []FieldNutrition
	Total      types.Nutrition
}

// ActivityNutritionQuery re-resolves the stored portions of an activity on
// read. Stored gram weights are never trusted; a catalog change is reflected
// in the next read.
type ActivityNutritionQuery struct {
	repo     types.TrackedActivityRepository
	resolver *portion.Resolver
}

// NewActivityNutritionQuery constructs the nutrition helper.
func NewActivityNutritionQuery(repo types.TrackedActivityRepository, catalog types.FoodCatalog, opts ...portion.Option) *ActivityNutritionQuery {
	var resolver *portion.Resolver
	if catalog != nil {
		resolver = portion.NewResolver(catalog, opts...)
	}
	return &ActivityNutritionQuery{repo: repo, resolver: resolver}
}

var _ gocommand.Querier[ActivityNutritionInput, ActivityNutrition] = (*ActivityNutritionQuery)(nil)

// Query computes the per field and total nutrition.
func (q *ActivityNutritionQuery) Query(ctx context.Context, input ActivityNutritionInput) (ActivityNutrition, error) {
	if q.repo == nil {
		return ActivityNutrition{}, types.ErrMissingTrackedActivityRepository
	}
	if q.resolver == nil {
		return ActivityNutrition{}, types.ErrMissingFoodCatalog
	}
	if input.ActivityID == uuid.Nil {
		return ActivityNutrition{}, ErrActivityIDRequired
	}
	activity, err := q.repo.GetTrackedActivity(ctx, input.ActivityID)
	if err != nil {
		return ActivityNutrition{}, err
	}
	if activity == nil || activity.UserID != input.UserID {
		return ActivityNutrition{}, types.ErrTrackedActivityNotFound
	}

	out := ActivityNutrition{ActivityID: activity.ID}
	for _, value := range activity.Values {
		foods, ok := value.Value.(types.FoodsValue)
		if !ok {
			continue
		}
		breakdown := q.resolver.ResolveNutrition(ctx, foods.Portions())
		out.Fields = append(out.Fields, FieldNutrition{Field: value.Field, Breakdown: breakdown})
		out.Total = out.Total.Add(breakdown.Total)
	}
	return out, nil
}
