package crudsvc

import (
	"errors"
	"strings"

	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

func queryUUID(ctx crud.Context, key string) uuid.UUID {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, notFound("preset not found")
	}
	return id, nil
}

func notFound(msg string) error {
	return goerrors.New(msg, goerrors.CategoryNotFound).WithCode(goerrors.CodeNotFound)
}

func notWired(msg string) error {
	return goerrors.New(msg, goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
}

// translate maps sentinel domain errors onto go-errors categories; rich
// errors from the command layer pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, types.ErrPresetNotFound),
		errors.Is(err, types.ErrActivityTypeNotFound),
		errors.Is(err, types.ErrTrackedActivityNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).WithCode(goerrors.CodeNotFound)
	case errors.Is(err, types.ErrUserIDRequired):
		return goerrors.Wrap(err, goerrors.CategoryAuth, err.Error()).WithCode(goerrors.CodeUnauthorized)
	}
	return err
}
