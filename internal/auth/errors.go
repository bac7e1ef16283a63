package auth

import "github.com/habitline/habitline/server/internal/model"

var (
	// ErrMissingAPIKey is returned when the request carries no Authorization header.
	ErrMissingAPIKey = model.AuthError{Message: "missing Authorization header"}

	// ErrMalformedHeader is returned for headers not of the form "Bearer <key>".
	ErrMalformedHeader = model.AuthError{Message: "invalid Authorization header format, expected 'Bearer <api_key>'"}

	// ErrInvalidAPIKey is returned when the key is not recognised.
	ErrInvalidAPIKey = model.AuthError{Message: "invalid API key"}
)
