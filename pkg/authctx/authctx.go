// Package authctx resolves the acting user from go-auth request state.
package authctx

import (
	"context"

	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

const (
	textCodeActorMissing = "ACTOR_CONTEXT_MISSING"
	textCodeActorInvalid = "ACTOR_CONTEXT_INVALID"
)

// ActorFromContext returns the actor payload stored by go-auth middleware.
func ActorFromContext(ctx context.Context) (*auth.ActorContext, bool) {
	return auth.ActorFromContext(ctx)
}

// ResolveActorContext returns the actor stored by go-auth middleware or
// rebuilds it from JWT claims when only claims were attached.
func ResolveActorContext(ctx context.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, missingActor("go-tracking: missing request context")
	}
	if actor, ok := auth.ActorFromContext(ctx); ok && actor != nil {
		return actor, nil
	}
	if claims, ok := auth.GetClaims(ctx); ok && claims != nil {
		if actor := auth.ActorContextFromClaims(claims); actor != nil {
			return actor, nil
		}
	}
	return nil, missingActor("go-tracking: auth actor context not found on request")
}

// ResolveActorContextFromRouter mirrors ResolveActorContext for router
// transports that keep the actor on the router context.
func ResolveActorContextFromRouter(ctx router.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, missingActor("go-tracking: missing router context")
	}
	if actor, ok := auth.ActorFromRouterContext(ctx); ok && actor != nil {
		return actor, nil
	}
	return ResolveActorContext(ctx.Context())
}

// ResolveUserID returns the id of the user whose activities the request
// touches.
func ResolveUserID(ctx context.Context) (uuid.UUID, error) {
	actor, err := ResolveActorContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return UserIDFromActorContext(actor)
}

// ResolveUserIDFromRouter mirrors ResolveUserID for router contexts.
func ResolveUserIDFromRouter(ctx router.Context) (uuid.UUID, error) {
	actor, err := ResolveActorContextFromRouter(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return UserIDFromActorContext(actor)
}

// UserIDFromActorContext parses the actor id carried by the auth payload.
func UserIDFromActorContext(actor *auth.ActorContext) (uuid.UUID, error) {
	if actor == nil {
		return uuid.Nil, invalidActor("go-tracking: actor context is nil")
	}
	if actor.ActorID == "" {
		return uuid.Nil, invalidActor("go-tracking: actor context missing actor_id")
	}
	id, err := uuid.Parse(actor.ActorID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryAuth, "go-tracking: invalid actor_id on auth context").
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorInvalid)
	}
	if id == uuid.Nil {
		return uuid.Nil, invalidActor("go-tracking: actor context carries the nil id")
	}
	return id, nil
}

func missingActor(msg string) error {
	return errors.New(msg, errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorMissing)
}

func invalidActor(msg string) error {
	return errors.New(msg, errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorInvalid)
}
