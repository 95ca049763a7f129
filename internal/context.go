package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// ActorFromContext returns the authenticated directory user, or nil when the
// request is anonymous.
func ActorFromContext(ctx context.Context) *org.User {
	if ctx == nil {
		return nil
	}
	if actor, ok := ctx.Value(ContextActorKey).(*org.User); ok {
		return actor
	}
	return nil
}

func ContextWithActor(ctx context.Context, actor *org.User) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
