package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-tracking/command"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/goliatone/go-tracking/presets"
	"github.com/goliatone/go-tracking/query"
	"github.com/google/uuid"
)

// PresetServiceConfig wires the preset commands and queries behind the CRUD
// adapter.
type PresetServiceConfig struct {
	Create gocommand.Commander[command.PresetCreateInput]
	Update gocommand.Commander[command.PresetUpdateInput]
	Delete gocommand.Commander[command.PresetDeleteInput]
	List   gocommand.Querier[types.PresetFilter, []types.Preset]
	Detail gocommand.Querier[query.PresetDetailInput, types.Preset]
}

// PresetService routes go-crud operations through the preset commands so
// ownership checks, feature gating, audit and hooks stay in one place.
// Every operation acts on behalf of the user returned by the resolver.
type PresetService struct {
	create   gocommand.Commander[command.PresetCreateInput]
	update   gocommand.Commander[command.PresetUpdateInput]
	del      gocommand.Commander[command.PresetDeleteInput]
	list     gocommand.Querier[types.PresetFilter, []types.Preset]
	detail   gocommand.Querier[query.PresetDetailInput, types.Preset]
	resolver UserResolver
	logger   types.Logger
}

// NewPresetService constructs the adapter.
func NewPresetService(cfg PresetServiceConfig, opts ...ServiceOption) *PresetService {
	options := applyOptions(opts)
	return &PresetService{
		create:   cfg.Create,
		update:   cfg.Update,
		del:      cfg.Delete,
		list:     cfg.List,
		detail:   cfg.Detail,
		resolver: options.userResolver,
		logger:   options.logger,
	}
}

// Create stores a preset. The from_activity_id query parameter copies the
// values of a tracked activity instead of using record.Fields.
func (s *PresetService) Create(ctx crud.Context, record *presets.Record) (*presets.Record, error) {
	if s.create == nil {
		return nil, notWired("preset create command not wired")
	}
	userID, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &presets.Record{}
	}
	var created types.Preset
	input := command.PresetCreateInput{
		UserID:         userID,
		ActivityTypeID: record.ActivityTypeID,
		Name:           record.Name,
		Fields:         record.Fields,
		FromActivityID: queryUUID(ctx, "from_activity_id"),
		Result:         &created,
	}
	if input.FromActivityID != uuid.Nil {
		input.Fields = nil
	}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		s.logger.Debug("preset create failed", "user_id", userID, "error", err)
		return nil, translate(err)
	}
	return presets.FromPreset(created), nil
}

func (s *PresetService) CreateBatch(ctx crud.Context, records []*presets.Record) ([]*presets.Record, error) {
	created := make([]*presets.Record, 0, len(records))
	for _, record := range records {
		rec, err := s.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

// Update renames a preset or replaces its values. Usage statistics are
// preserved.
func (s *PresetService) Update(ctx crud.Context, record *presets.Record) (*presets.Record, error) {
	if s.update == nil {
		return nil, notWired("preset update command not wired")
	}
	if record == nil {
		return nil, notFound("preset not found")
	}
	userID, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	var updated types.Preset
	if err := s.update.Execute(ctx.UserContext(), command.PresetUpdateInput{
		UserID:   userID,
		PresetID: record.ID,
		Name:     record.Name,
		Fields:   record.Fields,
		Result:   &updated,
	}); err != nil {
		return nil, translate(err)
	}
	return presets.FromPreset(updated), nil
}

func (s *PresetService) UpdateBatch(ctx crud.Context, records []*presets.Record) ([]*presets.Record, error) {
	updated := make([]*presets.Record, 0, len(records))
	for _, record := range records {
		rec, err := s.Update(ctx, record)
		if err != nil {
			return nil, err
		}
		updated = append(updated, rec)
	}
	return updated, nil
}

// Delete soft deletes the preset.
func (s *PresetService) Delete(ctx crud.Context, record *presets.Record) error {
	if s.del == nil {
		return notWired("preset delete command not wired")
	}
	if record == nil {
		return notFound("preset not found")
	}
	userID, err := s.resolver(ctx)
	if err != nil {
		return err
	}
	if err := s.del.Execute(ctx.UserContext(), command.PresetDeleteInput{
		UserID:   userID,
		PresetID: record.ID,
	}); err != nil {
		return translate(err)
	}
	return nil
}

func (s *PresetService) DeleteBatch(ctx crud.Context, records []*presets.Record) error {
	for _, record := range records {
		if err := s.Delete(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// Index lists the active presets of the user, optionally narrowed by the
// activity_type_id query parameter, most used first.
func (s *PresetService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*presets.Record, int, error) {
	if s.list == nil {
		return nil, 0, notWired("preset list query not wired")
	}
	userID, err := s.resolver(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.list.Query(ctx.UserContext(), types.PresetFilter{
		UserID:         userID,
		ActivityTypeID: queryUUID(ctx, "activity_type_id"),
	})
	if err != nil {
		return nil, 0, translate(err)
	}
	out := make([]*presets.Record, 0, len(items))
	for _, item := range items {
		out = append(out, presets.FromPreset(item))
	}
	return out, len(out), nil
}

// Show reads one preset without touching its usage statistics.
func (s *PresetService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*presets.Record, error) {
	if s.detail == nil {
		return nil, notWired("preset detail query not wired")
	}
	presetID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	userID, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	preset, err := s.detail.Query(ctx.UserContext(), query.PresetDetailInput{
		UserID:   userID,
		PresetID: presetID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return presets.FromPreset(preset), nil
}
