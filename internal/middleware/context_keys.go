package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// contextKey is a private type for request context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorCtxKey  = contextKey("actor")
)

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	val := c.Request.Context().Value(actorCtxKey)
	if val == nil {
		return domain.Actor{}, false
	}
	actor, ok := val.(domain.Actor)
	return actor, ok
}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}
