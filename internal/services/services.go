// Package services implements the habit use cases on top of the store,
// the identifier assigner and the temporal core packages.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// slugRetries bounds assign+save attempts when a concurrent writer claims the
// chosen slug between the existence check and the insert.
const slugRetries = 3

// slugger binds the assigner to the store's collision checks.
type slugger struct {
	store    store.Store
	assigner *slug.Assigner
}

func (g slugger) assign(ctx context.Context, scope model.SlugScope, text, current string, selfID int64) (string, error) {
	return g.assigner.Assign(ctx, scope.Kind, text, current, func(ctx context.Context, candidate string) (bool, error) {
		return g.store.Slugs().Exists(ctx, scope, candidate, selfID)
	})
}

// saveWithSlug assigns a slug and saves, retrying while the store reports a
// slug conflict. Retries drop current so a fresh candidate is computed.
func saveWithSlug[T any](ctx context.Context, g slugger, scope model.SlugScope, text, current string, selfID int64, save func(slug string) (T, error)) (T, error) {
	var zero T
	var err error
	for attempt := 0; attempt < slugRetries; attempt++ {
		var s string
		s, err = g.assign(ctx, scope, text, current, selfID)
		if err != nil {
			return zero, err
		}
		var out T
		out, err = save(s)
		if err == nil {
			return out, nil
		}
		if !model.IsSlugConflict(err) {
			return zero, err
		}
		current = ""
	}
	return zero, fmt.Errorf("save %s after %d slug conflicts: %w", scope.Kind, slugRetries, err)
}

// requireOwner returns ForbiddenError when ownerID is not the caller.
func requireOwner(caller *model.User, ownerID int64, resource string) error {
	if caller == nil || caller.ID != ownerID {
		return model.ForbiddenError{Resource: resource}
	}
	return nil
}

// textField trims s and checks its length in runes.
func textField(field, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n == 0 && min > 0 {
		return "", model.NewValidationError(field, "this field is required")
	}
	if n < min || n > max {
		return "", model.NewValidationError(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
	return s, nil
}

func derefHabits(in []*model.Habit) []model.Habit {
	out := make([]model.Habit, len(in))
	for i, h := range in {
		out[i] = *h
	}
	return out
}

func derefRecords(in []*model.DateRecord) []model.DateRecord {
	out := make([]model.DateRecord, len(in))
	for i, r := range in {
		out[i] = *r
	}
	return out
}
