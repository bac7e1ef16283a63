package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
)

// KeyAuthorizer resolves keys from a static key→subject table.
type KeyAuthorizer struct {
	keys []keyEntry
}

type keyEntry struct {
	digest  [sha256.Size]byte
	subject string
}

// NewKeyAuthorizer copies keys so later mutation of the map has no effect.
// Only SHA-256 digests of the keys are retained.
func NewKeyAuthorizer(keys map[string]string) *KeyAuthorizer {
	entries := make([]keyEntry, 0, len(keys))
	for k, v := range keys {
		if k == "" || v == "" {
			continue
		}
		entries = append(entries, keyEntry{digest: sha256.Sum256([]byte(k)), subject: v})
	}
	return &KeyAuthorizer{keys: entries}
}

// Authorize hashes apiKey and compares the fixed-length digest against every
// configured key, so neither key length nor matching position affects timing.
func (a *KeyAuthorizer) Authorize(ctx context.Context, apiKey string) (*Identity, error) {
	digest := sha256.Sum256([]byte(apiKey))
	var found *Identity
	for _, e := range a.keys {
		if subtle.ConstantTimeCompare(e.digest[:], digest[:]) == 1 {
			found = &Identity{Subject: e.subject, KeyName: "configured"}
		}
	}
	if found == nil {
		return nil, ErrInvalidAPIKey
	}
	return found, nil
}

// Chain tries each authorizer in order and returns the first success.
type Chain []Authorizer

func (c Chain) Authorize(ctx context.Context, apiKey string) (*Identity, error) {
	for _, a := range c {
		if id, err := a.Authorize(ctx, apiKey); err == nil {
			return id, nil
		}
	}
	return nil, ErrInvalidAPIKey
}
