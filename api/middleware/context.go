package middleware

import (
	"context"

	"github.com/avelasquez/stridemart-backend/internal/identity"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the resolved caller, or an empty anonymous actor
// when no middleware ran.
func ActorFromContext(ctx context.Context) identity.Actor {
	if ctx == nil {
		return identity.Anonymous("")
	}
	if actor, ok := ctx.Value(ctxActor).(identity.Actor); ok {
		return actor
	}
	return identity.Anonymous("")
}

// WithActor injects the resolved caller into the context.
func WithActor(ctx context.Context, actor identity.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
