package migrations

import (
	"io/fs"
	"sort"
	"sync"
)

// Direction selects up or down migration files.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

var (
	mu          sync.RWMutex
	filesystems []fs.FS
)

// Register adds a migrations tree (PostgreSQL files at the root, SQLite
// overrides under sqlite/). The trees are meant for go-persistence-bun's
// dialect loader.
func Register(fsys fs.FS) {
	if fsys == nil {
		return
	}
	mu.Lock()
	filesystems = append(filesystems, fsys)
	mu.Unlock()
}

// Filesystems returns a copy of the registered trees.
func Filesystems() []fs.FS {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]fs.FS, len(filesystems))
	copy(out, filesystems)
	return out
}

// Files lists the migration files of one dialect and direction in a tree,
// in execution order (down files run newest first).
func Files(fsys fs.FS, dialect string, direction Direction) ([]string, error) {
	d, err := normalizeDialect(dialect)
	if err != nil {
		return nil, err
	}
	pattern := "*." + string(direction) + ".sql"
	if d == "sqlite" {
		pattern = "sqlite/" + pattern
	}
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	if direction == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}
	return names, nil
}
