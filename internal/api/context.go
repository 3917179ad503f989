package api

import (
	"context"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

func withUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// userFrom returns the authenticated user. Only called behind AuthMiddleware,
// which guarantees the value is present.
func userFrom(ctx context.Context) *store.User {
	return ctx.Value(userContextKey).(*store.User)
}
