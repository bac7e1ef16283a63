package services

import (
	"context"
	"strings"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// AchievementInput carries the writable achievement fields.
type AchievementInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// AchievementService manages the shared badge catalogue and awards.
type AchievementService struct {
	store   store.Store
	slugs   slugger
	catalog *config.Catalog
}

func NewAchievementService(s store.Store, assigner *slug.Assigner, catalog *config.Catalog) *AchievementService {
	return &AchievementService{store: s, slugs: slugger{s, assigner}, catalog: catalog}
}

func (s *AchievementService) Create(ctx context.Context, in AchievementInput) (*model.Achievement, error) {
	a := &model.Achievement{}
	if err := applyAchievementInput(a, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugAchievement}, a.Name, "", 0, func(sl string) (*model.Achievement, error) {
		a.Slug = sl
		return s.store.Achievements().Create(ctx, a)
	})
}

func (s *AchievementService) Get(ctx context.Context, id int64) (*model.Achievement, error) {
	return s.store.Achievements().Get(ctx, id)
}

func (s *AchievementService) List(ctx context.Context, q string) ([]*model.Achievement, error) {
	return s.store.Achievements().List(ctx, s.catalog.ListOptions(config.EntityAchievements, q))
}

func (s *AchievementService) Update(ctx context.Context, id int64, in AchievementInput) (*model.Achievement, error) {
	a, err := s.store.Achievements().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAchievementInput(a, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugAchievement}, a.Name, a.Slug, a.ID, func(sl string) (*model.Achievement, error) {
		a.Slug = sl
		return s.store.Achievements().Update(ctx, a)
	})
}

func (s *AchievementService) Delete(ctx context.Context, id int64) error {
	return s.store.Achievements().Delete(ctx, id)
}

// ListForUser lists the achievements awarded to userID.
func (s *AchievementService) ListForUser(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Achievements().ListForUser(ctx, userID)
}

// Award links an achievement to the caller's own profile.
func (s *AchievementService) Award(ctx context.Context, caller *model.User, userID, achievementID int64) error {
	if err := requireOwner(caller, userID, "user"); err != nil {
		return err
	}
	if _, err := s.store.Achievements().Get(ctx, achievementID); err != nil {
		return err
	}
	return s.store.Achievements().Award(ctx, userID, achievementID)
}

func (s *AchievementService) Revoke(ctx context.Context, caller *model.User, userID, achievementID int64) error {
	if err := requireOwner(caller, userID, "user"); err != nil {
		return err
	}
	return s.store.Achievements().Revoke(ctx, userID, achievementID)
}

func applyAchievementInput(a *model.Achievement, in AchievementInput) error {
	name, err := textField("name", in.Name, 1, 100)
	if err != nil {
		return err
	}
	a.Name = name
	a.Description = nil
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			a.Description = &d
		}
	}
	return nil
}
