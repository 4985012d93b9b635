package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// ActivityTypeListQuery lists the activity types a user can submit against.
type ActivityTypeListQuery struct {
	repo types.ActivityTypeRepository
}

// NewActivityTypeListQuery constructs the list helper.
func NewActivityTypeListQuery(repo types.ActivityTypeRepository) *ActivityTypeListQuery {
	return &ActivityTypeListQuery{repo: repo}
}

var _ gocommand.Querier[types.ActivityTypeFilter, []types.ActivityType] = (*ActivityTypeListQuery)(nil)

// Query returns the filtered types ordered by name.
func (q *ActivityTypeListQuery) Query(ctx context.Context, filter types.ActivityTypeFilter) ([]types.ActivityType, error) {
	if q.repo == nil {
		return nil, types.ErrMissingActivityTypeRepository
	}
	return q.repo.ListActivityTypes(ctx, filter)
}

// ActivitySchemaInput identifies the schema to read.
type ActivitySchemaInput struct {
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
}

// ActivitySchemaQuery returns the ordered field list of a visible activity
// type, archived or not, so clients can render the submission form.
type ActivitySchemaQuery struct {
	repo types.ActivityTypeRepository
}

// NewActivitySchemaQuery constructs the schema helper.
func NewActivitySchemaQuery(repo types.ActivityTypeRepository) *ActivitySchemaQuery {
	return &ActivitySchemaQuery{repo: repo}
}

var _ gocommand.Querier[ActivitySchemaInput, []types.FieldSchema] = (*ActivitySchemaQuery)(nil)

// Query loads the schema.
func (q *ActivitySchemaQuery) Query(ctx context.Context, input ActivitySchemaInput) ([]types.FieldSchema, error) {
	if q.repo == nil {
		return nil, types.ErrMissingSchemaProvider
	}
	if input.UserID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	activityType, err := visibleType(ctx, q.repo, input.UserID, input.ActivityTypeID)
	if err != nil {
		return nil, err
	}
	return types.CloneSchema(activityType.Fields), nil
}
