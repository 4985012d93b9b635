package presets

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed preset store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type presetStore interface {
	repository.Repository[*Record]
}

// Repository implements types.PresetRepository.
type Repository struct {
	presetStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default preset repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("presets: db or repository required")
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
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &Repository{
		presetStore: repo,
		db:          cfg.DB,
		clock:       clock,
		idGen:       idGen,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.PresetRepository         = (*Repository)(nil)
)

// CreatePreset stores a new active preset with zeroed usage stats.
func (r *Repository) CreatePreset(ctx context.Context, preset types.Preset) (*types.Preset, error) {
	if preset.UserID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	if preset.ActivityTypeID == uuid.Nil {
		return nil, types.ErrActivityTypeIDRequired
	}
	now := r.clock.Now()
	rec := fromDomain(preset)
	if rec.ID == uuid.Nil {
		rec.ID = r.idGen.UUID()
	}
	rec.UsageCount = 0
	rec.LastUsedAt = nil
	rec.IsActive = true
	rec.CreatedAt = now
	rec.UpdatedAt = now

	created, err := r.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomainPtr(created), nil
}

// UpdatePreset replaces the name and stored fields of an active preset.
// Usage stats are left untouched.
func (r *Repository) UpdatePreset(ctx context.Context, preset types.Preset) (*types.Preset, error) {
	existing, err := r.activeRecord(ctx, preset.ID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(preset.Name); name != "" {
		existing.Name = name
	}
	if preset.Fields != nil {
		existing.Fields = cloneFields(preset.Fields)
	}
	existing.UpdatedAt = r.clock.Now()

	updated, err := r.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	return toDomainPtr(updated), nil
}

// GetPreset returns an active preset. Inactive presets are reported as not found.
func (r *Repository) GetPreset(ctx context.Context, id uuid.UUID) (*types.Preset, error) {
	rec, err := r.activeRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainPtr(rec), nil
}

// ListPresets returns the active presets of a user, most used first.
func (r *Repository) ListPresets(ctx context.Context, filter types.PresetFilter) ([]types.Preset, error) {
	if filter.UserID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("user_id = ?", filter.UserID).
				Where("is_active = ?", true)
			if filter.ActivityTypeID != uuid.Nil {
				q = q.Where("activity_type_id = ?", filter.ActivityTypeID)
			}
			return q.OrderExpr("usage_count DESC").
				OrderExpr("last_used_at DESC NULLS LAST").
				OrderExpr("created_at DESC")
		},
	}
	rows, _, err := r.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	out := make([]types.Preset, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

// DeactivatePreset soft deletes a preset. Deactivating an already inactive
// preset reports not found.
func (r *Repository) DeactivatePreset(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return types.ErrPresetNotFound
	}
	now := r.clock.Now()
	db := r.getDB()
	if db == nil {
		existing, err := r.activeRecord(ctx, id)
		if err != nil {
			return err
		}
		existing.IsActive = false
		existing.UpdatedAt = now
		_, err = r.Update(ctx, existing)
		return err
	}
	res, err := db.NewUpdate().
		Table(tableName).
		Set("is_active = ?", false).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// IncrementUsage bumps usage_count and last_used_at in a single UPDATE so
// concurrent applications are never lost. Inactive presets are not touched.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) (*types.Preset, error) {
	if id == uuid.Nil {
		return nil, types.ErrPresetNotFound
	}
	if usedAt.IsZero() {
		usedAt = r.clock.Now()
	}
	db := r.getDB()
	if db == nil {
		return nil, errors.New("presets: usage increment requires bun DB")
	}
	res, err := db.NewUpdate().
		Table(tableName).
		Set("usage_count = usage_count + 1").
		Set("last_used_at = ?", usedAt).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainPtr(rec), nil
}

func (r *Repository) activeRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	if id == uuid.Nil {
		return nil, types.ErrPresetNotFound
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		return nil, notFound(err)
	}
	if rec == nil || !rec.IsActive {
		return nil, types.ErrPresetNotFound
	}
	return rec, nil
}

func (r *Repository) getDB() *bun.DB {
	if r == nil {
		return nil
	}
	if r.db != nil {
		return r.db
	}
	if provider, ok := r.presetStore.(interface{ DB() *bun.DB }); ok {
		return provider.DB()
	}
	return nil
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return types.ErrPresetNotFound
	}
	return nil
}

func notFound(err error) error {
	if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
		return types.ErrPresetNotFound
	}
	return err
}

// FromPreset converts a domain preset into the Bun model.
func FromPreset(preset types.Preset) *Record {
	return fromDomain(preset)
}

// ToPreset converts the Bun model into the domain preset.
func ToPreset(rec *Record) types.Preset {
	return toDomain(rec)
}

func fromDomain(preset types.Preset) *Record {
	return &Record{
		ID:             preset.ID,
		UserID:         preset.UserID,
		ActivityTypeID: preset.ActivityTypeID,
		Name:           strings.TrimSpace(preset.Name),
		Fields:         cloneFields(preset.Fields),
		UsageCount:     preset.UsageCount,
		LastUsedAt:     preset.LastUsedAt,
		IsActive:       preset.IsActive,
		CreatedAt:      preset.CreatedAt,
		UpdatedAt:      preset.UpdatedAt,
	}
}

func toDomain(rec *Record) types.Preset {
	if rec == nil {
		return types.Preset{}
	}
	var lastUsed *time.Time
	if rec.LastUsedAt != nil && !rec.LastUsedAt.IsZero() {
		ts := *rec.LastUsedAt
		lastUsed = &ts
	}
	return types.Preset{
		ID:             rec.ID,
		UserID:         rec.UserID,
		ActivityTypeID: rec.ActivityTypeID,
		Name:           rec.Name,
		Fields:         cloneFields(rec.Fields),
		UsageCount:     rec.UsageCount,
		LastUsedAt:     lastUsed,
		IsActive:       rec.IsActive,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func toDomainPtr(rec *Record) *types.Preset {
	preset := toDomain(rec)
	return &preset
}

// cloneFields never returns nil so the jsonb column always holds an object.
func cloneFields(origin map[string]any) map[string]any {
	out := make(map[string]any, len(origin))
	for k, v := range origin {
		out[k] = v
	}
	return out
}
