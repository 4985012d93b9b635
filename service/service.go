package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-tracking/command"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/goliatone/go-tracking/portion"
	"github.com/goliatone/go-tracking/query"
)

// Service is the entry point for go-tracking. It wires repositories, the food
// catalog, hooks and the command/query facades supplied by the host
// application.
type Service struct {
	cfg      Config
	commands Commands
	queries  Queries
	audit    types.AuditRepository
}

// Commands exposes the service command handlers.
type Commands struct {
	ActivityTypeUpsert *command.ActivityTypeUpsertCommand
	ActivityTrack      *command.ActivityTrackCommand
	ActivityUpdate     *command.ActivityUpdateCommand
	ActivityDelete     *command.ActivityDeleteCommand
	PresetCreate       *command.PresetCreateCommand
	PresetUpdate       *command.PresetUpdateCommand
	PresetDelete       *command.PresetDeleteCommand
	PresetApply        *command.PresetApplyCommand
	FoodSave           *command.FoodSaveCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ActivityTypes     *query.ActivityTypeListQuery
	ActivitySchema    *query.ActivitySchemaQuery
	ActivityFeed      *query.ActivityFeedQuery
	ActivityNutrition *query.ActivityNutritionQuery
	PresetList        *query.PresetListQuery
	PresetDetail      *query.PresetDetailQuery
	AuditFeed         *query.AuditFeedQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun-backed repositories, cached catalogs, hooks, etc.).
// FoodCatalog defaults to FoodRepository and AuditRepository defaults to
// AuditSink when the sink also serves reads.
type Config struct {
	ActivityTypeRepository    types.ActivityTypeRepository
	TrackedActivityRepository types.TrackedActivityRepository
	PresetRepository          types.PresetRepository
	FoodRepository            types.FoodRepository
	FoodCatalog               types.FoodCatalog
	AuditSink                 types.AuditSink
	AuditRepository           types.AuditRepository
	Hooks                     types.Hooks
	Clock                     types.Clock
	IDGenerator               types.IDGenerator
	Logger                    types.Logger
	FeatureGate               featuregate.FeatureGate
	PortionConcurrency        int
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	auditRepo := norm.AuditRepository
	if auditRepo == nil {
		if cast, ok := norm.AuditSink.(types.AuditRepository); ok {
			auditRepo = cast
		}
	}
	s := &Service{
		cfg:   norm,
		audit: auditRepo,
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.FoodCatalog == nil && cfg.FoodRepository != nil {
		cfg.FoodCatalog = cfg.FoodRepository
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil && s.HealthCheck(context.Background()) == nil
}

// HealthCheck surfaces the first missing dependency.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case s.cfg.ActivityTypeRepository == nil:
		return types.ErrMissingActivityTypeRepository
	case s.cfg.TrackedActivityRepository == nil:
		return types.ErrMissingTrackedActivityRepository
	case s.cfg.PresetRepository == nil:
		return types.ErrMissingPresetRepository
	case s.cfg.FoodCatalog == nil:
		return types.ErrMissingFoodCatalog
	case s.cfg.FoodRepository == nil:
		return types.ErrMissingFoodRepository
	case s.audit == nil:
		return types.ErrMissingAuditRepository
	}
	return nil
}

// AuditSink returns the configured audit sink.
func (s *Service) AuditSink() types.AuditSink {
	if s == nil {
		return nil
	}
	return s.cfg.AuditSink
}

func (s *Service) buildCommands() Commands {
	activityCfg := command.ActivityCommandConfig{
		ActivityTypes:      s.cfg.ActivityTypeRepository,
		Activities:         s.cfg.TrackedActivityRepository,
		Catalog:            s.cfg.FoodCatalog,
		Audit:              s.cfg.AuditSink,
		Hooks:              s.cfg.Hooks,
		Clock:              s.cfg.Clock,
		Logger:             s.cfg.Logger,
		PortionConcurrency: s.cfg.PortionConcurrency,
	}
	presetCfg := command.PresetCommandConfig{
		Presets:            s.cfg.PresetRepository,
		ActivityTypes:      s.cfg.ActivityTypeRepository,
		Activities:         s.cfg.TrackedActivityRepository,
		Catalog:            s.cfg.FoodCatalog,
		Audit:              s.cfg.AuditSink,
		Hooks:              s.cfg.Hooks,
		Clock:              s.cfg.Clock,
		Logger:             s.cfg.Logger,
		FeatureGate:        s.cfg.FeatureGate,
		PortionConcurrency: s.cfg.PortionConcurrency,
	}
	return Commands{
		ActivityTypeUpsert: command.NewActivityTypeUpsertCommand(command.ActivityTypeCommandConfig{
			Repository: s.cfg.ActivityTypeRepository,
			Audit:      s.cfg.AuditSink,
			Clock:      s.cfg.Clock,
			Logger:     s.cfg.Logger,
		}),
		ActivityTrack:  command.NewActivityTrackCommand(activityCfg),
		ActivityUpdate: command.NewActivityUpdateCommand(activityCfg),
		ActivityDelete: command.NewActivityDeleteCommand(activityCfg),
		PresetCreate:   command.NewPresetCreateCommand(presetCfg),
		PresetUpdate:   command.NewPresetUpdateCommand(presetCfg),
		PresetDelete:   command.NewPresetDeleteCommand(presetCfg),
		PresetApply:    command.NewPresetApplyCommand(presetCfg),
		FoodSave: command.NewFoodSaveCommand(command.FoodCommandConfig{
			Repository:  s.cfg.FoodRepository,
			Audit:       s.cfg.AuditSink,
			Clock:       s.cfg.Clock,
			Logger:      s.cfg.Logger,
			FeatureGate: s.cfg.FeatureGate,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	var portionOpts []portion.Option
	if s.cfg.PortionConcurrency > 0 {
		portionOpts = append(portionOpts, portion.WithConcurrency(s.cfg.PortionConcurrency))
	}
	return Queries{
		ActivityTypes:     query.NewActivityTypeListQuery(s.cfg.ActivityTypeRepository),
		ActivitySchema:    query.NewActivitySchemaQuery(s.cfg.ActivityTypeRepository),
		ActivityFeed:      query.NewActivityFeedQuery(s.cfg.TrackedActivityRepository),
		ActivityNutrition: query.NewActivityNutritionQuery(s.cfg.TrackedActivityRepository, s.cfg.FoodCatalog, portionOpts...),
		PresetList:        query.NewPresetListQuery(s.cfg.PresetRepository),
		PresetDetail:      query.NewPresetDetailQuery(s.cfg.PresetRepository),
		AuditFeed:         query.NewAuditFeedQuery(s.audit),
	}
}
