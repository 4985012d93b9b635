package crudsvc

import (
	"context"

	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-tracking/pkg/authctx"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// UserResolver extracts the acting user from a CRUD request.
type UserResolver func(ctx crud.Context) (uuid.UUID, error)

// ContextUserResolver resolves the user from go-auth state on the request
// context.
func ContextUserResolver(ctx crud.Context) (uuid.UUID, error) {
	var base context.Context
	if ctx != nil {
		base = ctx.UserContext()
	}
	return authctx.ResolveUserID(base)
}

type serviceOptions struct {
	logger       types.Logger
	userResolver UserResolver
}

// ServiceOption customizes CRUD service behaviour.
type ServiceOption func(*serviceOptions)

// WithLogger wires a logger for service diagnostics.
func WithLogger(logger types.Logger) ServiceOption {
	return func(cfg *serviceOptions) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithUserResolver overrides how the acting user is found.
func WithUserResolver(resolver UserResolver) ServiceOption {
	return func(cfg *serviceOptions) {
		if resolver != nil {
			cfg.userResolver = resolver
		}
	}
}

func applyOptions(opts []ServiceOption) serviceOptions {
	cfg := serviceOptions{
		logger:       types.NopLogger{},
		userResolver: ContextUserResolver,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithCommandService mirrors crud.WithService but gives consumers a semantic
// helper to highlight that the controller delegates to the command/query layer.
func WithCommandService[T any](svc crud.Service[T]) crud.Option[T] {
	return crud.WithService(svc)
}
