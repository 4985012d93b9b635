package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TrackedRepositoryConfig wires the Bun-backed tracked activity store.
type TrackedRepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*TrackedRecord]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type trackedStore interface {
	repository.Repository[*TrackedRecord]
}

// TrackedRepository implements types.TrackedActivityRepository.
type TrackedRepository struct {
	trackedStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewTrackedRepository constructs the tracked activity repository.
func NewTrackedRepository(cfg TrackedRepositoryConfig) (*TrackedRepository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("activities: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*TrackedRecord]{
			NewRecord: func() *TrackedRecord { return &TrackedRecord{} },
			GetID: func(rec *TrackedRecord) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *TrackedRecord, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &TrackedRepository{
		trackedStore: repo,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

var (
	_ repository.Repository[*TrackedRecord] = (*TrackedRepository)(nil)
	_ types.TrackedActivityRepository       = (*TrackedRepository)(nil)
)

// CreateTrackedActivity persists an accepted activity.
func (r *TrackedRepository) CreateTrackedActivity(ctx context.Context, activity types.TrackedActivity) (*types.TrackedActivity, error) {
	if activity.UserID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	if activity.ActivityTypeID == uuid.Nil {
		return nil, types.ErrActivityTypeIDRequired
	}
	now := r.clock.Now()
	rec := trackedFromDomain(activity)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = now
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return trackedToDomainPtr(created)
}

// UpdateTrackedActivity replaces the values, timestamp and notes of an
// existing activity.
func (r *TrackedRepository) UpdateTrackedActivity(ctx context.Context, activity types.TrackedActivity) (*types.TrackedActivity, error) {
	existing, err := r.getRecord(ctx, activity.ID)
	if err != nil {
		return nil, err
	}
	rec := trackedFromDomain(activity)
	rec.UserID = existing.UserID
	rec.ActivityTypeID = existing.ActivityTypeID
	rec.CreatedAt = existing.CreatedAt
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = existing.OccurredAt
	}
	rec.UpdatedAt = r.clock.Now()

	updated, err := r.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	return trackedToDomainPtr(updated)
}

// GetTrackedActivity loads one activity.
func (r *TrackedRepository) GetTrackedActivity(ctx context.Context, id uuid.UUID) (*types.TrackedActivity, error) {
	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return trackedToDomainPtr(rec)
}

// DeleteTrackedActivity removes an activity.
func (r *TrackedRepository) DeleteTrackedActivity(ctx context.Context, id uuid.UUID) error {
	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return err
	}
	return r.Delete(ctx, rec)
}

// ListTrackedActivities returns a page of activities, newest first.
func (r *TrackedRepository) ListTrackedActivities(ctx context.Context, filter types.TrackedActivityFilter) (types.TrackedActivityPage, error) {
	if filter.UserID == uuid.Nil {
		return types.TrackedActivityPage{}, types.ErrUserIDRequired
	}
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("user_id = ?", filter.UserID)
			if filter.ActivityTypeID != uuid.Nil {
				q = q.Where("activity_type_id = ?", filter.ActivityTypeID)
			}
			if filter.Since != nil && !filter.Since.IsZero() {
				q = q.Where("occurred_at >= ?", filter.Since)
			}
			if filter.Until != nil && !filter.Until.IsZero() {
				q = q.Where("occurred_at <= ?", filter.Until)
			}
			return q.OrderExpr("occurred_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
		},
	}
	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.TrackedActivityPage{}, err
	}
	activities := make([]types.TrackedActivity, 0, len(rows))
	for _, row := range rows {
		activity, err := trackedToDomain(row)
		if err != nil {
			return types.TrackedActivityPage{}, err
		}
		activities = append(activities, activity)
	}
	return types.TrackedActivityPage{
		Activities: activities,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

func (r *TrackedRepository) getRecord(ctx context.Context, id uuid.UUID) (*TrackedRecord, error) {
	if id == uuid.Nil {
		return nil, types.ErrTrackedActivityNotFound
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrTrackedActivityNotFound
		}
		return nil, err
	}
	if rec == nil {
		return nil, types.ErrTrackedActivityNotFound
	}
	return rec, nil
}

func trackedFromDomain(activity types.TrackedActivity) *TrackedRecord {
	return &TrackedRecord{
		ID:             activity.ID,
		UserID:         activity.UserID,
		ActivityTypeID: activity.ActivityTypeID,
		Values:         EncodeValues(activity.Values),
		OccurredAt:     activity.Timestamp,
		Notes:          strings.TrimSpace(activity.Notes),
		CreatedAt:      activity.CreatedAt,
		UpdatedAt:      activity.UpdatedAt,
	}
}

func trackedToDomain(rec *TrackedRecord) (types.TrackedActivity, error) {
	if rec == nil {
		return types.TrackedActivity{}, nil
	}
	values, err := DecodeValues(rec.Values)
	if err != nil {
		return types.TrackedActivity{}, fmt.Errorf("activities: decode %s: %w", rec.ID, err)
	}
	return types.TrackedActivity{
		ID:             rec.ID,
		UserID:         rec.UserID,
		ActivityTypeID: rec.ActivityTypeID,
		Values:         values,
		Timestamp:      rec.OccurredAt,
		Notes:          rec.Notes,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}, nil
}

func trackedToDomainPtr(rec *TrackedRecord) (*types.TrackedActivity, error) {
	activity, err := trackedToDomain(rec)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// EncodeValues converts validated values into their stored form.
func EncodeValues(values types.TrackedValues) []ValueRecord {
	out := make([]ValueRecord, 0, len(values))
	for _, v := range values {
		if v.Value == nil {
			continue
		}
		out = append(out, ValueRecord{
			Field: v.Field,
			Kind:  v.Value.Kind(),
			Value: v.Value.Raw(),
		})
	}
	return out
}

// DecodeValues rebuilds typed values from their stored form through the
// normalizer, so stored legacy Foods payloads come back as portions.
func DecodeValues(records []ValueRecord) (types.TrackedValues, error) {
	out := make(types.TrackedValues, 0, len(records))
	for _, rec := range records {
		value, err := fields.Normalize(rec.Kind, rec.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", rec.Field, err)
		}
		if value == nil {
			continue
		}
		out = append(out, types.TrackedValue{Field: rec.Field, Value: value})
	}
	return out, nil
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
