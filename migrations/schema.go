package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SchemaCheck describes a table and the columns the tracking stores read.
type SchemaCheck struct {
	Table   string
	Columns []string
}

// DefaultSchemaChecks lists the tables created by the tracking migrations.
var DefaultSchemaChecks = []SchemaCheck{
	{
		Table:   "activity_types",
		Columns: []string{"id", "owner_id", "name", "fields", "archived"},
	},
	{
		Table:   "tracked_activities",
		Columns: []string{"id", "user_id", "activity_type_id", "field_values", "occurred_at", "notes"},
	},
	{
		Table:   "activity_presets",
		Columns: []string{"id", "user_id", "activity_type_id", "name", "preset_fields", "usage_count", "last_used_at", "is_active"},
	},
	{
		Table:   "foods",
		Columns: []string{"id", "owner_id", "name", "source", "nutrition", "servings"},
	},
	{
		Table:   "tracking_audit",
		Columns: []string{"id", "user_id", "verb", "object_type", "object_id", "data", "created_at"},
	},
}

// SchemaOption customizes schema validation.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	checks []SchemaCheck
}

// WithSchemaChecks replaces the default checks.
func WithSchemaChecks(checks []SchemaCheck) SchemaOption {
	return func(cfg *schemaConfig) {
		cfg.checks = checks
	}
}

// SchemaValidationError summarizes missing tables and columns.
type SchemaValidationError struct {
	MissingTables  []string
	MissingColumns map[string][]string
}

func (e *SchemaValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if len(e.MissingTables) > 0 {
		parts = append(parts, "missing tables: "+strings.Join(e.MissingTables, ", "))
	}
	if len(e.MissingColumns) > 0 {
		tables := make([]string, 0, len(e.MissingColumns))
		for table := range e.MissingColumns {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		cols := make([]string, 0, len(tables))
		for _, table := range tables {
			missing := e.MissingColumns[table]
			sort.Strings(missing)
			cols = append(cols, fmt.Sprintf("%s(%s)", table, strings.Join(missing, ", ")))
		}
		parts = append(parts, "missing columns: "+strings.Join(cols, "; "))
	}
	if len(parts) == 0 {
		return "tracking schema validation failed"
	}
	return "tracking schema validation failed: " + strings.Join(parts, "; ")
}

// ValidateSchema reports tables or columns the tracking stores need but the
// database lacks. Run it after migrations when the host owns the runner.
func ValidateSchema(ctx context.Context, db *sql.DB, dialect string, opts ...SchemaOption) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return err
	}

	cfg := schemaConfig{checks: DefaultSchemaChecks}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	missingTables := make([]string, 0)
	missingColumns := make(map[string][]string)
	for _, check := range cfg.checks {
		table := strings.TrimSpace(check.Table)
		if table == "" {
			continue
		}
		cols, err := fetchColumns(ctx, db, normalized, table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			missingTables = append(missingTables, table)
			continue
		}
		for _, col := range check.Columns {
			col = strings.ToLower(strings.TrimSpace(col))
			if col != "" && !cols[col] {
				missingColumns[table] = append(missingColumns[table], col)
			}
		}
	}

	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}
	sort.Strings(missingTables)
	return &SchemaValidationError{
		MissingTables:  missingTables,
		MissingColumns: missingColumns,
	}
}

func normalizeDialect(dialect string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

func fetchColumns(ctx context.Context, db *sql.DB, dialect, table string) (map[string]bool, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if dialect == "postgres" {
		rows, err = db.QueryContext(ctx, `
			SELECT column_name
			FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1
		`, table)
	} else {
		rows, err = db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
