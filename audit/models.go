package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry models the persisted row in tracking_audit.
type Entry struct {
	bun.BaseModel `bun:"table:tracking_audit"`

	ID         uuid.UUID      `bun:"id,pk,type:uuid"`
	UserID     uuid.UUID      `bun:"user_id,type:uuid"`
	Verb       string         `bun:"verb"`
	ObjectType string         `bun:"object_type"`
	ObjectID   string         `bun:"object_id"`
	Data       map[string]any `bun:"data,type:jsonb"`
	CreatedAt  time.Time      `bun:"created_at"`
}
