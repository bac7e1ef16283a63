package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

const maxAge = 150

// UserInput carries user fields. Nil pointers leave the stored value
// untouched on Patch.
type UserInput struct {
	Name *string `json:"name"`
	Age  *int    `json:"age"`
}

// UserService handles profile provisioning and user CRUD.
type UserService struct {
	store   store.Store
	slugs   slugger
	catalog *config.Catalog
}

func NewUserService(s store.Store, assigner *slug.Assigner, catalog *config.Catalog) *UserService {
	return &UserService{store: s, slugs: slugger{s, assigner}, catalog: catalog}
}

// EnsureProfile returns the profile linked to subject, creating it with the
// catalog's provisioning defaults on first sight.
func (s *UserService) EnsureProfile(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, model.AuthError{Message: "empty auth subject"}
	}
	u, err := s.store.Users().GetByAuthSubject(ctx, subject)
	if err == nil {
		return u, nil
	}
	if !model.IsNotFoundError(err) {
		return nil, err
	}

	prov := s.catalog.Provisioning
	name := prov.ProfileName(subject)
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	created, err := saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugUser}, name, "", 0, func(sl string) (*model.User, error) {
		return s.store.Users().Create(ctx, &model.User{AuthSubject: &subject, Name: name, Age: prov.Age, Slug: sl})
	})
	if err != nil {
		var ce model.ConflictError
		if errors.As(err, &ce) && ce.Field == "auth_subject" {
			// Lost a provisioning race; the winner's row is authoritative.
			return s.store.Users().GetByAuthSubject(ctx, subject)
		}
		return nil, fmt.Errorf("provision profile: %w", err)
	}

	for _, catName := range prov.StarterCategories {
		if _, err := s.createCategory(ctx, created.ID, catName); err != nil {
			// Drop the half-provisioned profile so the next request starts over.
			// Categories created so far go with it by cascade.
			if derr := s.store.Users().Delete(context.WithoutCancel(ctx), created.ID); derr != nil {
				log.Error().Err(derr).Int64("userID", created.ID).Msg("Failed to roll back partial profile")
			}
			return nil, fmt.Errorf("provision starter category %q: %w", catName, err)
		}
	}
	log.Info().Int64("userID", created.ID).Str("slug", created.Slug).Msg("Provisioned profile")
	return created, nil
}

func (s *UserService) createCategory(ctx context.Context, userID int64, name string) (*model.Category, error) {
	scope := model.SlugScope{Kind: model.SlugCategory, UserID: userID}
	return saveWithSlug(ctx, s.slugs, scope, name, "", 0, func(sl string) (*model.Category, error) {
		return s.store.Categories().Create(ctx, &model.Category{UserID: userID, Name: name, Slug: sl})
	})
}

// Create adds a user that is not linked to an auth identity.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if in.Name == nil {
		return nil, model.NewValidationError("name", "this field is required")
	}
	u := &model.User{}
	if err := applyUserInput(u, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugUser}, u.Name, "", 0, func(sl string) (*model.User, error) {
		u.Slug = sl
		return s.store.Users().Create(ctx, u)
	})
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.store.Users().Get(ctx, id)
}

func (s *UserService) List(ctx context.Context, q string) ([]*model.User, error) {
	return s.store.Users().List(ctx, s.catalog.ListOptions(config.EntityUsers, q))
}

// Update patches the caller-owned profile id with in; nil fields are kept.
func (s *UserService) Update(ctx context.Context, caller *model.User, id int64, in UserInput) (*model.User, error) {
	return s.save(ctx, caller, id, in, false)
}

// Replace overwrites the caller-owned profile id; a nil Age clears it.
func (s *UserService) Replace(ctx context.Context, caller *model.User, id int64, in UserInput) (*model.User, error) {
	if in.Name == nil {
		return nil, model.NewValidationError("name", "this field is required")
	}
	return s.save(ctx, caller, id, in, true)
}

func (s *UserService) save(ctx context.Context, caller *model.User, id int64, in UserInput, replace bool) (*model.User, error) {
	if err := requireOwner(caller, id, "user"); err != nil {
		return nil, err
	}
	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if replace {
		u.Age = nil
	}
	if err := applyUserInput(u, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugUser}, u.Name, u.Slug, u.ID, func(sl string) (*model.User, error) {
		u.Slug = sl
		return s.store.Users().Update(ctx, u)
	})
}

func (s *UserService) Delete(ctx context.Context, caller *model.User, id int64) error {
	if err := requireOwner(caller, id, "user"); err != nil {
		return err
	}
	log.Info().Int64("userID", id).Msg("Deleting user")
	return s.store.Users().Delete(ctx, id)
}

func applyUserInput(u *model.User, in UserInput) error {
	if in.Name != nil {
		name, err := textField("name", *in.Name, 1, 100)
		if err != nil {
			return err
		}
		u.Name = name
	}
	if in.Age != nil {
		if *in.Age < 0 || *in.Age > maxAge {
			return model.NewValidationError("age", fmt.Sprintf("must be between 0 and %d", maxAge))
		}
		age := *in.Age
		u.Age = &age
	}
	return nil
}
