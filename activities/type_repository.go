package activities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TypeRepositoryConfig wires the Bun-backed activity type store.
type TypeRepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*TypeRecord]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type typeStore interface {
	repository.Repository[*TypeRecord]
}

// TypeRepository implements types.ActivityTypeRepository and serves as the
// schema provider for submissions.
type TypeRepository struct {
	typeStore
	// lists always read through the undecorated store.
	lists repository.Repository[*TypeRecord]
	clock types.Clock
	idGen types.IDGenerator
}

// NewTypeRepository constructs the activity type repository. WithCache
// caches schema reads by id.
func NewTypeRepository(cfg TypeRepositoryConfig, opts ...RepositoryOption) (*TypeRepository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("activities: db or repository required")
	}
	base := cfg.Repository
	if base == nil {
		base = repository.NewRepository(cfg.DB, repository.ModelHandlers[*TypeRecord]{
			NewRecord: func() *TypeRecord { return &TypeRecord{} },
			GetID: func(rec *TypeRecord) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *TypeRecord, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	repo, err := withCache(base, applyRepositoryOptions(opts))
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &TypeRepository{
		typeStore: repo,
		lists:     base,
		clock:     clock,
		idGen:     idGen,
	}, nil
}

var (
	_ repository.Repository[*TypeRecord] = (*TypeRepository)(nil)
	_ types.ActivityTypeRepository       = (*TypeRepository)(nil)
	_ types.SchemaProvider               = (*TypeRepository)(nil)
)

// FieldSchemas returns a detached copy of the ordered schema.
func (r *TypeRepository) FieldSchemas(ctx context.Context, activityTypeID uuid.UUID) ([]types.FieldSchema, error) {
	activityType, err := r.GetActivityType(ctx, activityTypeID)
	if err != nil {
		return nil, err
	}
	return activityType.Fields, nil
}

// GetActivityType returns the activity type, archived or not.
func (r *TypeRepository) GetActivityType(ctx context.Context, id uuid.UUID) (*types.ActivityType, error) {
	if id == uuid.Nil {
		return nil, types.ErrActivityTypeIDRequired
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrActivityTypeNotFound
		}
		return nil, err
	}
	if rec == nil {
		return nil, types.ErrActivityTypeNotFound
	}
	activityType := typeToDomain(rec)
	return &activityType, nil
}

// ListActivityTypes returns the types owned by filter.OwnerID, plus system
// types when requested, ordered by name.
func (r *TypeRepository) ListActivityTypes(ctx context.Context, filter types.ActivityTypeFilter) ([]types.ActivityType, error) {
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			switch {
			case filter.OwnerID != uuid.Nil && filter.IncludeSystem:
				q = q.Where("(owner_id = ? OR owner_id = ?)", filter.OwnerID, uuid.Nil)
			case filter.OwnerID != uuid.Nil:
				q = q.Where("owner_id = ?", filter.OwnerID)
			default:
				q = q.Where("owner_id = ?", uuid.Nil)
			}
			if !filter.IncludeArchived {
				q = q.Where("archived = ?", false)
			}
			return q.OrderExpr("name ASC")
		},
	}
	rows, _, err := r.lists.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	out := make([]types.ActivityType, 0, len(rows))
	for _, row := range rows {
		out = append(out, typeToDomain(row))
	}
	return out, nil
}

// UpsertActivityType inserts a new type or replaces an existing one. The
// owner and creation time of an existing type are preserved. Schemas are
// stored as given; callers check them first.
func (r *TypeRepository) UpsertActivityType(ctx context.Context, activityType types.ActivityType) (*types.ActivityType, error) {
	now := r.clock.Now()
	rec := typeFromDomain(activityType)
	rec.UpdatedAt = now

	if rec.ID != uuid.Nil {
		existing, err := r.GetByID(ctx, rec.ID.String())
		switch {
		case err == nil && existing != nil:
			rec.OwnerID = existing.OwnerID
			rec.CreatedAt = existing.CreatedAt
			updated, err := r.Update(ctx, rec)
			if err != nil {
				return nil, err
			}
			out := typeToDomain(updated)
			return &out, nil
		case err != nil && !isNotFound(err):
			return nil, err
		}
	} else {
		rec.ID = r.idGen.UUID()
	}
	rec.CreatedAt = now
	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	out := typeToDomain(created)
	return &out, nil
}

func typeFromDomain(t types.ActivityType) *TypeRecord {
	fields := types.CloneSchema(t.Fields)
	if fields == nil {
		fields = []types.FieldSchema{}
	}
	return &TypeRecord{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        strings.TrimSpace(t.Name),
		Description: strings.TrimSpace(t.Description),
		Fields:      fields,
		Archived:    t.Archived,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func typeToDomain(rec *TypeRecord) types.ActivityType {
	if rec == nil {
		return types.ActivityType{}
	}
	return types.ActivityType{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Name:        rec.Name,
		Description: rec.Description,
		Fields:      types.CloneSchema(rec.Fields),
		Archived:    rec.Archived,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func isNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}
