package auth

import (
	"context"

	"github.com/habitline/habitline/server/internal/model"
)

type userKey struct{}

// WithUser returns ctx carrying the resolved profile.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the profile stored by Middleware, if any.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey{}).(*model.User)
	return u, ok && u != nil
}
