package auth

import (
	"context"
)

// Identity is the authenticated caller behind an API key.
type Identity struct {
	Subject string `json:"subject"`
	KeyName string `json:"key_name"`
}

// Authorizer validates an API key and resolves it to an Identity.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*Identity, error)
}
