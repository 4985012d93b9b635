package catalog

import (
	"time"

	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the foods row. Nutrition is stored per 100 g.
type Record struct {
	bun.BaseModel `bun:"table:foods"`

	ID        uuid.UUID       `bun:"id,pk,type:uuid"`
	OwnerID   uuid.UUID       `bun:"owner_id,type:uuid"`
	Name      string          `bun:"name"`
	Brand     string          `bun:"brand"`
	Source    string          `bun:"source"`
	Nutrition types.Nutrition `bun:"nutrition,type:jsonb"`
	Servings  []types.Serving `bun:"servings,type:jsonb"`
	CreatedAt time.Time       `bun:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at"`
}
