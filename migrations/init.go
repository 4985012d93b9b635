package migrations

import (
	"io/fs"

	tracking "github.com/goliatone/go-tracking"
)

func init() {
	coreFS, err := fs.Sub(tracking.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
