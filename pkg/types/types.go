package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityType is a named schema describing what can be logged for one kind
// of tracked behavior. System types have no owner.
type ActivityType struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Fields      []FieldSchema
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsSystem reports whether the type is shared by every user.
func (t ActivityType) IsSystem() bool {
	return t.OwnerID == uuid.Nil
}

// TrackedActivity is one timestamped, validated value set.
type TrackedActivity struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
	Values         TrackedValues
	Timestamp      time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Preset is a saved value set reused as a starting point for new submissions.
// Fields are stored raw, as submitted.
type Preset struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
	Name           string
	Fields         map[string]any
	UsageCount     int
	LastUsedAt     *time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Pagination supports list queries.
type Pagination struct {
	Limit  int
	Offset int
}

// SchemaProvider supplies the ordered field list for an activity type.
type SchemaProvider interface {
	FieldSchemas(ctx context.Context, activityTypeID uuid.UUID) ([]FieldSchema, error)
}

// ActivityTypeFilter narrows activity type listings.
type ActivityTypeFilter struct {
	OwnerID         uuid.UUID
	IncludeSystem   bool
	IncludeArchived bool
}

// ActivityTypeRepository persists activity types and exposes their schemas.
type ActivityTypeRepository interface {
	SchemaProvider
	GetActivityType(ctx context.Context, id uuid.UUID) (*ActivityType, error)
	ListActivityTypes(ctx context.Context, filter ActivityTypeFilter) ([]ActivityType, error)
	UpsertActivityType(ctx context.Context, activityType ActivityType) (*ActivityType, error)
}

// TrackedActivityFilter narrows tracked activity feeds.
type TrackedActivityFilter struct {
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
	Since          *time.Time
	Until          *time.Time
	Pagination     Pagination
}

// TrackedActivityPage is a paginated feed.
type TrackedActivityPage struct {
	Activities []TrackedActivity
	Total      int
	NextOffset int
	HasMore    bool
}

// TrackedActivityRepository persists accepted activities.
type TrackedActivityRepository interface {
	CreateTrackedActivity(ctx context.Context, activity TrackedActivity) (*TrackedActivity, error)
	UpdateTrackedActivity(ctx context.Context, activity TrackedActivity) (*TrackedActivity, error)
	GetTrackedActivity(ctx context.Context, id uuid.UUID) (*TrackedActivity, error)
	DeleteTrackedActivity(ctx context.Context, id uuid.UUID) error
	ListTrackedActivities(ctx context.Context, filter TrackedActivityFilter) (TrackedActivityPage, error)
}

// PresetFilter narrows preset listings. Inactive presets are never returned.
type PresetFilter struct {
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
}

// PresetRepository persists presets. IncrementUsage must be atomic with
// respect to concurrent calls for the same preset and must ignore inactive rows.
type PresetRepository interface {
	CreatePreset(ctx context.Context, preset Preset) (*Preset, error)
	UpdatePreset(ctx context.Context, preset Preset) (*Preset, error)
	GetPreset(ctx context.Context, id uuid.UUID) (*Preset, error)
	ListPresets(ctx context.Context, filter PresetFilter) ([]Preset, error)
	DeactivatePreset(ctx context.Context, id uuid.UUID) error
	IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) (*Preset, error)
}

// AuditRecord describes an audit trail entry.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Verb       string
	ObjectType string
	ObjectID   string
	Data       map[string]any
	OccurredAt time.Time
}

// AuditSink receives audit records.
type AuditSink interface {
	Log(context.Context, AuditRecord) error
}

// AuditFilter narrows audit feed queries.
type AuditFilter struct {
	UserID     uuid.UUID
	Verbs      []string
	ObjectType string
	ObjectID   string
	Since      *time.Time
	Pagination Pagination
}

// AuditPage is a paginated audit feed.
type AuditPage struct {
	Records    []AuditRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// AuditRepository exposes read access to the audit trail.
type AuditRepository interface {
	ListAudit(ctx context.Context, filter AuditFilter) (AuditPage, error)
}

// PresetEvent signals preset mutations and applications.
type PresetEvent struct {
	PresetID       uuid.UUID
	UserID         uuid.UUID
	ActivityTypeID uuid.UUID
	Action         string
	UsageCount     int
	OccurredAt     time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterActivityTracked func(context.Context, TrackedActivity)
	AfterPresetApplied   func(context.Context, PresetEvent)
	AfterPresetChange    func(context.Context, PresetEvent)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-tracking: user id required")
	// ErrActivityTypeIDRequired indicates an activity type identifier was omitted.
	ErrActivityTypeIDRequired = errors.New("go-tracking: activity type id required")
	// ErrActivityTypeNotFound indicates the activity type does not exist or is not visible.
	ErrActivityTypeNotFound = errors.New("go-tracking: activity type not found")
	// ErrTrackedActivityNotFound indicates the tracked activity does not exist or is not owned.
	ErrTrackedActivityNotFound = errors.New("go-tracking: tracked activity not found")
	// ErrPresetNotFound indicates the preset does not exist, is inactive or is not owned.
	ErrPresetNotFound = errors.New("go-tracking: preset not found")
	// ErrFoodNotFound indicates the catalog has no matching food.
	ErrFoodNotFound = errors.New("go-tracking: food not found")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-tracking: service not ready")
	// ErrMissingFoodCatalog occurs when no food catalog gateway was supplied.
	ErrMissingFoodCatalog = errors.New("go-tracking: missing food catalog")
	// ErrMissingFoodRepository occurs when food commands lack storage.
	ErrMissingFoodRepository = errors.New("go-tracking: missing food repository")
	// ErrMissingActivityTypeRepository occurs when no activity type repository was supplied.
	ErrMissingActivityTypeRepository = errors.New("go-tracking: missing activity type repository")
	// ErrMissingSchemaProvider occurs when no schema provider was supplied.
	ErrMissingSchemaProvider = errors.New("go-tracking: missing schema provider")
	// ErrMissingTrackedActivityRepository occurs when tracked activity storage is missing.
	ErrMissingTrackedActivityRepository = errors.New("go-tracking: missing tracked activity repository")
	// ErrMissingPresetRepository occurs when preset commands or queries lack storage.
	ErrMissingPresetRepository = errors.New("go-tracking: missing preset repository")
	// ErrMissingAuditRepository occurs when the audit feed lacks a data source.
	ErrMissingAuditRepository = errors.New("go-tracking: missing audit repository")
)
