package catalog

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

// Source labels for catalog entries.
const (
	SourceManual    = "manual"
	SourceSuggested = "suggested"
)

// RepositoryConfig wires the Bun-backed food catalog.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
	Logger     types.Logger
}

type foodStore interface {
	repository.Repository[*Record]
}

// Repository implements types.FoodRepository and therefore the food catalog
// gateway used to resolve portions.
type Repository struct {
	foodStore
	clock  types.Clock
	idGen  types.IDGenerator
	logger types.Logger
}

// NewRepository constructs the catalog. WithCache enables the
// go-repository-cache decorator for lookups.
func NewRepository(cfg RepositoryConfig, opts ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("catalog: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
			NewRecord: func() *Record { return &Record{} },
			GetID: func(rec *Record) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *Record, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}
	repo, err := withCache(repo, applyRepositoryOptions(opts))
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
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Repository{
		foodStore: repo,
		clock:     clock,
		idGen:     idGen,
		logger:    logger,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.FoodRepository           = (*Repository)(nil)
	_ types.FoodCatalog              = (*Repository)(nil)
)

// LookupFood implements the catalog gateway. Malformed identifiers, missing
// rows and storage failures all surface as NotFound.
func (r *Repository) LookupFood(ctx context.Context, foodID string) types.FoodLookup {
	id, err := uuid.Parse(strings.TrimSpace(foodID))
	if err != nil || id == uuid.Nil {
		return types.NotFound()
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		if !isNotFound(err) {
			r.logger.Error("catalog: food lookup failed", err, "food_id", foodID)
		}
		return types.NotFound()
	}
	if rec == nil {
		return types.NotFound()
	}
	return types.Found(toDomain(rec))
}

// GetFood returns the catalog entry.
func (r *Repository) GetFood(ctx context.Context, id uuid.UUID) (*types.Food, error) {
	if id == uuid.Nil {
		return nil, types.ErrFoodNotFound
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrFoodNotFound
		}
		return nil, err
	}
	food := toDomain(rec)
	return &food, nil
}

// SaveFood inserts a new entry or replaces an existing one. Callers validate
// the payload first; see ValidateFood.
func (r *Repository) SaveFood(ctx context.Context, food types.Food) (*types.Food, error) {
	now := r.clock.Now()
	rec := fromDomain(food)
	if rec.Source == "" {
		rec.Source = SourceManual
	}
	rec.UpdatedAt = now

	if rec.ID != uuid.Nil {
		existing, err := r.GetByID(ctx, rec.ID.String())
		switch {
		case err == nil && existing != nil:
			rec.CreatedAt = existing.CreatedAt
			if rec.OwnerID == uuid.Nil {
				rec.OwnerID = existing.OwnerID
			}
			updated, err := r.Update(ctx, rec)
			if err != nil {
				return nil, err
			}
			out := toDomain(updated)
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
	out := toDomain(created)
	return &out, nil
}

func isNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

func fromDomain(food types.Food) *Record {
	return &Record{
		ID:        food.ID,
		OwnerID:   food.OwnerID,
		Name:      strings.TrimSpace(food.Name),
		Brand:     strings.TrimSpace(food.Brand),
		Source:    strings.TrimSpace(food.Source),
		Nutrition: cloneNutrition(food.NutritionPer100g),
		Servings:  cloneServings(food.CommonServings),
		CreatedAt: food.CreatedAt,
		UpdatedAt: food.UpdatedAt,
	}
}

func toDomain(rec *Record) types.Food {
	if rec == nil {
		return types.Food{}
	}
	return types.Food{
		ID:               rec.ID,
		OwnerID:          rec.OwnerID,
		Name:             rec.Name,
		Brand:            rec.Brand,
		Source:           rec.Source,
		NutritionPer100g: cloneNutrition(rec.Nutrition),
		CommonServings:   cloneServings(rec.Servings),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func cloneNutrition(n types.Nutrition) types.Nutrition {
	out := n
	if len(n.Extra) > 0 {
		out.Extra = make(map[string]float64, len(n.Extra))
		for k, v := range n.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func cloneServings(servings []types.Serving) []types.Serving {
	out := make([]types.Serving, len(servings))
	copy(out, servings)
	return out
}
