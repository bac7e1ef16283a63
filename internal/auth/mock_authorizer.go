package auth

import (
	"context"
)

const (
	// LocalDevAPIKey is the hardcoded API key for local development only
	LocalDevAPIKey = "sk_local_habitline_dev_key"

	// LocalDevSubject is the auth subject LocalDevAPIKey resolves to.
	LocalDevSubject = "habitline-dev"
)

// MockAuthorizer provides a simple authorizer for local development
// It only recognizes the hardcoded LocalDevAPIKey and resolves it to the habitline-dev subject
type MockAuthorizer struct{}

// NewMockAuthorizer creates a new MockAuthorizer for local development
func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{}
}

// Authorize validates the hardcoded API key.
func (m *MockAuthorizer) Authorize(ctx context.Context, apiKey string) (*Identity, error) {
	if apiKey != LocalDevAPIKey {
		return nil, ErrInvalidAPIKey
	}
	return &Identity{Subject: LocalDevSubject, KeyName: "Local Development Key"}, nil
}
