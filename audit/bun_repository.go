package audit

import (
	"context"
	"errors"

	"github.com/goliatone/go-masker"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed audit repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Entry]
	Clock      types.Clock
	IDGen      types.IDGenerator
	// Masker scrubs record payloads before they are stored. Defaults to
	// DefaultMasker.
	Masker *masker.Masker
}

type auditStore interface {
	repository.Repository[*Entry]
}

// Repository persists the audit trail and exposes the feed.
type Repository struct {
	auditStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
	mask  *masker.Masker
}

// NewRepository constructs a repository that implements both AuditSink and
// AuditRepository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("audit: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Entry]{
			NewRecord: func() *Entry { return &Entry{} },
			GetID: func(entry *Entry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *Entry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
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
	mask := cfg.Masker
	if mask == nil {
		mask = DefaultMasker()
	}
	return &Repository{
		auditStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
		mask:       mask,
	}, nil
}

var (
	_ repository.Repository[*Entry] = (*Repository)(nil)
	_ types.AuditSink               = (*Repository)(nil)
	_ types.AuditRepository         = (*Repository)(nil)
)

// Log persists a sanitized audit record.
func (r *Repository) Log(ctx context.Context, record types.AuditRecord) error {
	entry := toEntry(SanitizeRecord(r.mask, record))
	if entry.ID == uuid.Nil {
		entry.ID = r.idGen.UUID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Now()
	}
	_, err := r.Create(ctx, entry)
	return err
}

// ListAudit returns a page of records, newest first.
func (r *Repository) ListAudit(ctx context.Context, filter types.AuditFilter) (types.AuditPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("created_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			return applyFilter(q, filter)
		},
	}
	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.AuditPage{}, err
	}
	records := make([]types.AuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return types.AuditPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// CountByVerb aggregates the records of one user grouped by verb.
func (r *Repository) CountByVerb(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	out := make(map[string]int)
	if r.db == nil {
		return out, errors.New("audit: stats requires bun DB")
	}
	type row struct {
		Verb  string `bun:"verb"`
		Total int    `bun:"total"`
	}
	var rows []row
	query := r.db.NewSelect().
		Table("tracking_audit").
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("verb").
		Group("verb")
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Scan(ctx, &rows); err != nil {
		return out, err
	}
	for _, rec := range rows {
		out[rec.Verb] = rec.Total
	}
	return out, nil
}

func applyFilter(q *bun.SelectQuery, filter types.AuditFilter) *bun.SelectQuery {
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Verbs) > 0 {
		q = q.Where("verb IN (?)", bun.In(filter.Verbs))
	}
	if filter.ObjectType != "" {
		q = q.Where("object_type = ?", filter.ObjectType)
	}
	if filter.ObjectID != "" {
		q = q.Where("object_id = ?", filter.ObjectID)
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	return q
}

func toEntry(record types.AuditRecord) *Entry {
	data := record.Data
	if data == nil {
		data = map[string]any{}
	}
	return &Entry{
		ID:         record.ID,
		UserID:     record.UserID,
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Data:       data,
		CreatedAt:  record.OccurredAt,
	}
}

func toRecord(entry *Entry) types.AuditRecord {
	if entry == nil {
		return types.AuditRecord{}
	}
	return types.AuditRecord{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Verb:       entry.Verb,
		ObjectType: entry.ObjectType,
		ObjectID:   entry.ObjectID,
		Data:       entry.Data,
		OccurredAt: entry.CreatedAt,
	}
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
