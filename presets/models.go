package presets

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const tableName = "activity_presets"

// Record models the activity_presets row.
type Record struct {
	bun.BaseModel `bun:"table:activity_presets"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid"`
	UserID         uuid.UUID      `bun:"user_id,type:uuid"`
	ActivityTypeID uuid.UUID      `bun:"activity_type_id,type:uuid"`
	Name           string         `bun:"name"`
	Fields         map[string]any `bun:"preset_fields,type:jsonb"`
	UsageCount     int            `bun:"usage_count"`
	LastUsedAt     *time.Time     `bun:"last_used_at,nullzero"`
	IsActive       bool           `bun:"is_active"`
	CreatedAt      time.Time      `bun:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at"`
}
