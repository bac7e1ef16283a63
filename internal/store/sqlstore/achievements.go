package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/habitline/habitline/server/internal/model"
)

var achievementColumns = []string{"id", "name", "description", "slug", "created_at"}

type achievements struct{ s *Store }

func (a *achievements) Create(ctx context.Context, m *model.Achievement) (*model.Achievement, error) {
	out := *m
	out.CreatedAt = now()
	id, err := a.s.insert(ctx, a.s.sb.Insert("achievements").
		Columns("name", "description", "slug", "created_at").
		Values(out.Name, out.Description, out.Slug, out.CreatedAt), "achievement")
	if err != nil {
		return nil, err
	}
	out.ID = id
	return &out, nil
}

func (a *achievements) Get(ctx context.Context, id int64) (*model.Achievement, error) {
	var out model.Achievement
	b := a.s.sb.Select(achievementColumns...).From("achievements").Where(sq.Eq{"id": id})
	if err := a.s.get(ctx, &out, b, "achievement", id); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *achievements) List(ctx context.Context, opts model.ListOptions) ([]*model.Achievement, error) {
	out := []*model.Achievement{}
	b := listing(a.s.sb.Select(achievementColumns...).From("achievements"), "", achievementColumns, opts)
	if err := a.s.selectAll(ctx, &out, b, "achievements"); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *achievements) Update(ctx context.Context, m *model.Achievement) (*model.Achievement, error) {
	b := a.s.sb.Update("achievements").
		Set("name", m.Name).
		Set("description", m.Description).
		Set("slug", m.Slug).
		Where(sq.Eq{"id": m.ID})
	if err := a.s.execOne(ctx, b, "achievement", m.ID); err != nil {
		return nil, err
	}
	return a.Get(ctx, m.ID)
}

func (a *achievements) Delete(ctx context.Context, id int64) error {
	return a.s.execOne(ctx, a.s.sb.Delete("achievements").Where(sq.Eq{"id": id}), "achievement", id)
}

func (a *achievements) Award(ctx context.Context, userID, achievementID int64) error {
	q, args, err := a.s.sb.Insert("user_achievements").
		Columns("user_id", "achievement_id", "awarded_at").
		Values(userID, achievementID, now()).
		Suffix("ON CONFLICT (user_id, achievement_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build award insert: %w", err)
	}
	if _, err := a.s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("award achievement: %w", err)
	}
	return nil
}

func (a *achievements) Revoke(ctx context.Context, userID, achievementID int64) error {
	b := a.s.sb.Delete("user_achievements").Where(sq.Eq{"user_id": userID, "achievement_id": achievementID})
	return a.s.execOne(ctx, b, "user achievement", achievementID)
}

func (a *achievements) ListForUser(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	b := a.s.sb.Select(qualify("a.", achievementColumns)...).
		From("achievements a").
		Join("user_achievements ua ON ua.achievement_id = a.id").
		Where(sq.Eq{"ua.user_id": userID}).
		OrderBy("a.name ASC", "a.id ASC")
	out := []*model.Achievement{}
	if err := a.s.selectAll(ctx, &out, b, "user achievements"); err != nil {
		return nil, err
	}
	return out, nil
}
