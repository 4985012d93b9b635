package activities

import (
	"time"

	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TypeRecord models the activity_types row. Fields holds the ordered schema.
type TypeRecord struct {
	bun.BaseModel `bun:"table:activity_types"`

	ID          uuid.UUID           `bun:"id,pk,type:uuid"`
	OwnerID     uuid.UUID           `bun:"owner_id,type:uuid"`
	Name        string              `bun:"name"`
	Description string              `bun:"description"`
	Fields      []types.FieldSchema `bun:"fields,type:jsonb"`
	Archived    bool                `bun:"archived"`
	CreatedAt   time.Time           `bun:"created_at"`
	UpdatedAt   time.Time           `bun:"updated_at"`
}

// ValueRecord is the stored form of one tracked value. Kind is kept next to
// the raw payload so reads can normalize it without the current schema.
type ValueRecord struct {
	Field string          `json:"field"`
	Kind  types.FieldKind `json:"kind"`
	Value any             `json:"value"`
}

// TrackedRecord models the tracked_activities row.
type TrackedRecord struct {
	bun.BaseModel `bun:"table:tracked_activities"`

	ID             uuid.UUID     `bun:"id,pk,type:uuid"`
	UserID         uuid.UUID     `bun:"user_id,type:uuid"`
	ActivityTypeID uuid.UUID     `bun:"activity_type_id,type:uuid"`
	Values         []ValueRecord `bun:"field_values,type:jsonb"`
	OccurredAt     time.Time     `bun:"occurred_at"`
	Notes          string        `bun:"notes"`
	CreatedAt      time.Time     `bun:"created_at"`
	UpdatedAt      time.Time     `bun:"updated_at"`
}
