package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/habitline/habitline/server/internal/model"
)

var habitColumns = []string{"id", "user_id", "category_id", "name", "display_order", "archived", "slug", "created_at"}

type habits struct{ s *Store }

func (h *habits) Create(ctx context.Context, m *model.Habit) (*model.Habit, error) {
	out := *m
	out.CreatedAt = now()
	id, err := h.s.insert(ctx, h.s.sb.Insert("habits").
		Columns("user_id", "category_id", "name", "display_order", "archived", "slug", "created_at").
		Values(out.UserID, out.CategoryID, out.Name, out.DisplayOrder, out.Archived, out.Slug, out.CreatedAt), "habit")
	if err != nil {
		return nil, err
	}
	out.ID = id
	return &out, nil
}

func (h *habits) Get(ctx context.Context, id int64) (*model.Habit, error) {
	var out model.Habit
	b := h.s.sb.Select(habitColumns...).From("habits").Where(sq.Eq{"id": id})
	if err := h.s.get(ctx, &out, b, "habit", id); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *habits) List(ctx context.Context, userID int64, includeArchived bool, opts model.ListOptions) ([]*model.Habit, error) {
	b := h.s.sb.Select(habitColumns...).From("habits").Where(sq.Eq{"user_id": userID})
	if !includeArchived {
		b = b.Where(sq.Eq{"archived": false})
	}
	out := []*model.Habit{}
	if err := h.s.selectAll(ctx, &out, listing(b, "", habitColumns, opts), "habits"); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *habits) Update(ctx context.Context, m *model.Habit) (*model.Habit, error) {
	b := h.s.sb.Update("habits").SetMap(map[string]interface{}{
		"category_id":   m.CategoryID,
		"name":          m.Name,
		"display_order": m.DisplayOrder,
		"archived":      m.Archived,
		"slug":          m.Slug,
	}).Where(sq.Eq{"id": m.ID})
	if err := h.s.execOne(ctx, b, "habit", m.ID); err != nil {
		return nil, err
	}
	return h.Get(ctx, m.ID)
}

func (h *habits) Delete(ctx context.Context, id int64) error {
	return h.s.execOne(ctx, h.s.sb.Delete("habits").Where(sq.Eq{"id": id}), "habit", id)
}
