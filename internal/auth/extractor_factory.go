package auth

import (
	"github.com/rs/zerolog/log"

	"github.com/habitline/habitline/server/internal/config"
)

// AuthorizerFactory creates the appropriate Authorizer based on environment
type AuthorizerFactory struct {
	config *config.Config
}

// NewAuthorizerFactory creates a new AuthorizerFactory
func NewAuthorizerFactory(cfg *config.Config) *AuthorizerFactory {
	return &AuthorizerFactory{
		config: cfg,
	}
}

// CreateAuthorizer accepts the configured keys, plus LocalDevAPIKey in dev mode.
func (f *AuthorizerFactory) CreateAuthorizer() Authorizer {
	keyed := NewKeyAuthorizer(f.config.APIKeys)
	if !f.IsDevMode() {
		if len(keyed.keys) == 0 {
			log.Warn().Msg("no API keys configured and dev mode disabled; every request will be rejected")
		}
		return keyed
	}
	log.Warn().Str("subject", LocalDevSubject).Msg("dev mode enabled; local development API key accepted")
	return Chain{keyed, NewMockAuthorizer()}
}

// IsDevMode returns true if development mode is enabled
func (f *AuthorizerFactory) IsDevMode() bool {
	return f.config.DevMode
}
