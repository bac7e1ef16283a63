package api

import (
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/auth"
	"github.com/habitline/habitline/server/internal/model"
)

// caller returns the authenticated profile or writes a 401.
func caller(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.WriteDomainError(w, model.AuthError{Message: "no authenticated user"})
		return nil, false
	}
	return u, true
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}

func muxVar(r *http.Request, name string) (string, bool) {
	v, ok := mux.Vars(r)[name]
	return v, ok
}
