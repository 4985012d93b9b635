package presets

import (
	"fmt"
	"sort"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-tracking/fields"
	"github.com/goliatone/go-tracking/pkg/types"
)

const (
	defaultsScope = "defaults"
	presetScope   = "preset"
)

// Projection is a preset re-expressed against the current schema. Values are
// raw and unvalidated, in schema order; Dropped lists preset keys the schema
// no longer declares.
type Projection struct {
	Values  []types.RawValue
	Dropped []string
}

// Map renders the projected values as field -> raw value.
func (p Projection) Map() map[string]any {
	out := make(map[string]any, len(p.Values))
	for _, v := range p.Values {
		out[v.Field] = v.Value
	}
	return out
}

// Project layers the stored preset values over the type-appropriate empty
// defaults of the current schema. The schema is not checked here; the
// assembler rejects invalid schemas before any value is evaluated.
func Project(presetFields map[string]any, schema []types.FieldSchema) (Projection, error) {
	defaults := make(map[string]any, len(schema))
	declared := make(map[string]struct{}, len(schema))
	for _, field := range schema {
		defaults[field.Name] = fields.EmptyDefault(field.Kind)
		declared[field.Name] = struct{}{}
	}

	overlay := make(map[string]any, len(presetFields))
	var dropped []string
	for name, value := range presetFields {
		if _, ok := declared[name]; !ok {
			dropped = append(dropped, name)
			continue
		}
		overlay[name] = value
	}
	sort.Strings(dropped)

	base := opts.NewScope(defaultsScope, opts.ScopePrioritySystem,
		opts.WithScopeLabel("Schema defaults"))
	user := opts.NewScope(presetScope, opts.ScopePriorityUser,
		opts.WithScopeLabel("Preset"))
	stack, err := opts.NewStack(
		opts.NewLayer(base, defaults, opts.WithSnapshotID[map[string]any](defaultsScope)),
		opts.NewLayer(user, overlay, opts.WithSnapshotID[map[string]any](presetScope)),
	)
	if err != nil {
		return Projection{}, fmt.Errorf("presets: build projection stack: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Projection{}, fmt.Errorf("presets: merge projection: %w", err)
	}

	values := make([]types.RawValue, 0, len(schema))
	for _, field := range schema {
		value, ok := merged.Value[field.Name]
		if !ok || value == nil {
			value = defaults[field.Name]
		}
		values = append(values, types.RawValue{Field: field.Name, Value: value})
	}
	return Projection{Values: values, Dropped: dropped}, nil
}
