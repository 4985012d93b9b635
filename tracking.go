package tracking

import (
	"errors"

	masker "github.com/goliatone/go-masker"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-tracking/activities"
	"github.com/goliatone/go-tracking/audit"
	"github.com/goliatone/go-tracking/catalog"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/goliatone/go-tracking/presets"
	"github.com/goliatone/go-tracking/service"
	"github.com/uptrace/bun"
)

// Re-export the service package entry point so consumers can do
// `tracking.New(...)` without importing the wiring packages.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
	Queries  = service.Queries
)

// New constructs the go-tracking runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}

// StoreOption customizes the Bun-backed stores built by NewWithBun.
type StoreOption func(*storeOptions)

type storeOptions struct {
	cache       bool
	cacheConfig *cache.Config
	masker      *masker.Masker
}

// WithStoreCache caches activity type schemas and catalog lookups.
func WithStoreCache(enabled bool) StoreOption {
	return func(opts *storeOptions) {
		opts.cache = enabled
	}
}

// WithStoreCacheConfig sets the cache configuration and enables caching.
func WithStoreCacheConfig(cfg cache.Config) StoreOption {
	return func(opts *storeOptions) {
		opts.cache = true
		opts.cacheConfig = &cfg
	}
}

// WithAuditMasker overrides the masker that scrubs audit payloads.
func WithAuditMasker(m *masker.Masker) StoreOption {
	return func(opts *storeOptions) {
		opts.masker = m
	}
}

// NewWithBun fills every empty repository slot in cfg with the Bun-backed
// stores and returns the service. Slots already set are left untouched.
func NewWithBun(db *bun.DB, cfg Config, opts ...StoreOption) (*Service, error) {
	if db == nil {
		return nil, errors.New("go-tracking: bun db required")
	}
	var so storeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&so)
		}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	if cfg.ActivityTypeRepository == nil {
		var typeOpts []activities.RepositoryOption
		if so.cache {
			typeOpts = append(typeOpts, activities.WithCache(true))
			if so.cacheConfig != nil {
				typeOpts = append(typeOpts, activities.WithCacheConfig(*so.cacheConfig))
			}
		}
		repo, err := activities.NewTypeRepository(activities.TypeRepositoryConfig{
			DB:    db,
			Clock: clock,
			IDGen: idGen,
		}, typeOpts...)
		if err != nil {
			return nil, err
		}
		cfg.ActivityTypeRepository = repo
	}

	if cfg.TrackedActivityRepository == nil {
		repo, err := activities.NewTrackedRepository(activities.TrackedRepositoryConfig{
			DB:    db,
			Clock: clock,
			IDGen: idGen,
		})
		if err != nil {
			return nil, err
		}
		cfg.TrackedActivityRepository = repo
	}

	if cfg.PresetRepository == nil {
		repo, err := presets.NewRepository(presets.RepositoryConfig{
			DB:    db,
			Clock: clock,
			IDGen: idGen,
		})
		if err != nil {
			return nil, err
		}
		cfg.PresetRepository = repo
	}

	if cfg.FoodRepository == nil {
		var catalogOpts []catalog.RepositoryOption
		if so.cache {
			catalogOpts = append(catalogOpts, catalog.WithCache(true))
			if so.cacheConfig != nil {
				catalogOpts = append(catalogOpts, catalog.WithCacheConfig(*so.cacheConfig))
			}
		}
		repo, err := catalog.NewRepository(catalog.RepositoryConfig{
			DB:     db,
			Clock:  clock,
			IDGen:  idGen,
			Logger: cfg.Logger,
		}, catalogOpts...)
		if err != nil {
			return nil, err
		}
		cfg.FoodRepository = repo
	}

	if cfg.AuditSink == nil {
		repo, err := audit.NewRepository(audit.RepositoryConfig{
			DB:     db,
			Clock:  clock,
			IDGen:  idGen,
			Masker: so.masker,
		})
		if err != nil {
			return nil, err
		}
		cfg.AuditSink = repo
		if cfg.AuditRepository == nil {
			cfg.AuditRepository = repo
		}
	}

	return service.New(cfg), nil
}
