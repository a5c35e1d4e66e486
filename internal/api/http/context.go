package http

import (
	"context"
	"errors"

	"parish-ledger-backend/internal/domain"
)

type actorKey struct{}

var errNoActor = errors.New("no actor in context")

// ActorFromContext returns the authenticated actor placed there by the auth
// middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	if !ok {
		return domain.Actor{}, errNoActor
	}
	return actor, nil
}

func contextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}
