package services

import (
	"context"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// HabitInput carries the writable habit fields. Updates replace every field,
// so a nil CategoryID detaches the habit from its category.
type HabitInput struct {
	Name         string `json:"name"`
	CategoryID   *int64 `json:"category_id"`
	DisplayOrder int    `json:"display_order"`
	Archived     bool   `json:"archived"`
}

// HabitService manages habits.
type HabitService struct {
	store   store.Store
	slugs   slugger
	catalog *config.Catalog
}

func NewHabitService(s store.Store, assigner *slug.Assigner, catalog *config.Catalog) *HabitService {
	return &HabitService{store: s, slugs: slugger{s, assigner}, catalog: catalog}
}

func (s *HabitService) Create(ctx context.Context, caller *model.User, in HabitInput) (*model.Habit, error) {
	h := &model.Habit{UserID: caller.ID}
	if err := s.apply(ctx, h, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugHabit}, h.Name, "", 0, func(sl string) (*model.Habit, error) {
		h.Slug = sl
		return s.store.Habits().Create(ctx, h)
	})
}

// Get returns the habit when the caller owns it.
func (s *HabitService) Get(ctx context.Context, caller *model.User, id int64) (*model.Habit, error) {
	h, err := s.store.Habits().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, h.UserID, "habit"); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HabitService) List(ctx context.Context, caller *model.User, includeArchived bool, q string) ([]*model.Habit, error) {
	return s.store.Habits().List(ctx, caller.ID, includeArchived, s.catalog.ListOptions(config.EntityHabits, q))
}

func (s *HabitService) Update(ctx context.Context, caller *model.User, id int64, in HabitInput) (*model.Habit, error) {
	h, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, h, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugHabit}, h.Name, h.Slug, h.ID, func(sl string) (*model.Habit, error) {
		h.Slug = sl
		return s.store.Habits().Update(ctx, h)
	})
}

// Delete hard-deletes the habit together with its records.
func (s *HabitService) Delete(ctx context.Context, caller *model.User, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	return s.store.Habits().Delete(ctx, id)
}

func (s *HabitService) apply(ctx context.Context, h *model.Habit, in HabitInput) error {
	name, err := textField("name", in.Name, 1, 100)
	if err != nil {
		return err
	}
	if in.CategoryID != nil {
		c, err := s.store.Categories().Get(ctx, *in.CategoryID)
		if err != nil || c.UserID != h.UserID {
			if err != nil && !model.IsNotFoundError(err) {
				return err
			}
			return model.NewValidationError("category_id", "category does not exist")
		}
	}
	h.Name = name
	h.CategoryID = in.CategoryID
	h.DisplayOrder = in.DisplayOrder
	h.Archived = in.Archived
	return nil
}
