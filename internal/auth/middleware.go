package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/model"
)

// Provisioner resolves an auth subject to its profile, creating it on first use.
type Provisioner interface {
	EnsureProfile(ctx context.Context, subject string) (*model.User, error)
}

// Middleware authenticates every request and stores the caller's profile in
// the request context. Failures never reach the wrapped handler.
func Middleware(a Authorizer, p Provisioner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := ExtractAPIKey(r)
			if err != nil {
				respond.WriteDomainError(w, err)
				return
			}
			id, err := a.Authorize(r.Context(), key)
			if err != nil {
				log.Debug().Str("path", r.URL.Path).Msg("rejected API key")
				respond.WriteDomainError(w, err)
				return
			}
			user, err := p.EnsureProfile(r.Context(), id.Subject)
			if err != nil {
				respond.WriteDomainError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
