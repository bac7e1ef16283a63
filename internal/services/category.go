package services

import (
	"context"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name string `json:"name"`
}

// CategoryService manages user-scoped categories.
type CategoryService struct {
	store   store.Store
	slugs   slugger
	catalog *config.Catalog
}

func NewCategoryService(s store.Store, assigner *slug.Assigner, catalog *config.Catalog) *CategoryService {
	return &CategoryService{store: s, slugs: slugger{s, assigner}, catalog: catalog}
}

func (s *CategoryService) Create(ctx context.Context, caller *model.User, in CategoryInput) (*model.Category, error) {
	name, err := textField("name", in.Name, 2, 20)
	if err != nil {
		return nil, err
	}
	scope := model.SlugScope{Kind: model.SlugCategory, UserID: caller.ID}
	return saveWithSlug(ctx, s.slugs, scope, name, "", 0, func(sl string) (*model.Category, error) {
		return s.store.Categories().Create(ctx, &model.Category{UserID: caller.ID, Name: name, Slug: sl})
	})
}

func (s *CategoryService) Get(ctx context.Context, caller *model.User, id int64) (*model.Category, error) {
	c, err := s.store.Categories().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, c.UserID, "category"); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, caller *model.User, q string) ([]*model.Category, error) {
	return s.store.Categories().List(ctx, caller.ID, s.catalog.ListOptions(config.EntityCategories, q))
}

func (s *CategoryService) Update(ctx context.Context, caller *model.User, id int64, in CategoryInput) (*model.Category, error) {
	c, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	name, err := textField("name", in.Name, 2, 20)
	if err != nil {
		return nil, err
	}
	c.Name = name
	scope := model.SlugScope{Kind: model.SlugCategory, UserID: c.UserID}
	return saveWithSlug(ctx, s.slugs, scope, c.Name, c.Slug, c.ID, func(sl string) (*model.Category, error) {
		c.Slug = sl
		return s.store.Categories().Update(ctx, c)
	})
}

// Delete removes the category; its habits keep existing without one.
func (s *CategoryService) Delete(ctx context.Context, caller *model.User, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	return s.store.Categories().Delete(ctx, id)
}
