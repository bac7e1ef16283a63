package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/habitline/habitline/server/internal/model"
)

var categoryColumns = []string{"id", "user_id", "name", "slug", "created_at"}

type categories struct{ s *Store }

func (c *categories) Create(ctx context.Context, m *model.Category) (*model.Category, error) {
	out := *m
	out.CreatedAt = now()
	id, err := c.s.insert(ctx, c.s.sb.Insert("categories").
		Columns("user_id", "name", "slug", "created_at").
		Values(out.UserID, out.Name, out.Slug, out.CreatedAt), "category")
	if err != nil {
		return nil, err
	}
	out.ID = id
	return &out, nil
}

func (c *categories) Get(ctx context.Context, id int64) (*model.Category, error) {
	var out model.Category
	b := c.s.sb.Select(categoryColumns...).From("categories").Where(sq.Eq{"id": id})
	if err := c.s.get(ctx, &out, b, "category", id); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *categories) List(ctx context.Context, userID int64, opts model.ListOptions) ([]*model.Category, error) {
	out := []*model.Category{}
	b := c.s.sb.Select(categoryColumns...).From("categories").Where(sq.Eq{"user_id": userID})
	if err := c.s.selectAll(ctx, &out, listing(b, "", categoryColumns, opts), "categories"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *categories) Update(ctx context.Context, m *model.Category) (*model.Category, error) {
	b := c.s.sb.Update("categories").
		Set("name", m.Name).
		Set("slug", m.Slug).
		Where(sq.Eq{"id": m.ID})
	if err := c.s.execOne(ctx, b, "category", m.ID); err != nil {
		return nil, err
	}
	return c.Get(ctx, m.ID)
}

func (c *categories) Delete(ctx context.Context, id int64) error {
	return c.s.execOne(ctx, c.s.sb.Delete("categories").Where(sq.Eq{"id": id}), "category", id)
}
