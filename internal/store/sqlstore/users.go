package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/habitline/habitline/server/internal/model"
)

var userColumns = []string{"id", "auth_subject", "name", "age", "slug", "created_at"}

type users struct{ s *Store }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	out.CreatedAt = now()
	id, err := u.s.insert(ctx, u.s.sb.Insert("users").
		Columns("auth_subject", "name", "age", "slug", "created_at").
		Values(out.AuthSubject, out.Name, out.Age, out.Slug, out.CreatedAt), "user")
	if err != nil {
		return nil, err
	}
	out.ID = id
	return &out, nil
}

func (u *users) Get(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	b := u.s.sb.Select(userColumns...).From("users").Where(sq.Eq{"id": id})
	if err := u.s.get(ctx, &out, b, "user", id); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) GetByAuthSubject(ctx context.Context, subject string) (*model.User, error) {
	q, args, err := u.s.sb.Select(userColumns...).From("users").Where(sq.Eq{"auth_subject": subject}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user select: %w", err)
	}
	var out model.User
	if err := u.s.db.GetContext(ctx, &out, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("user", "no profile for auth subject")
		}
		return nil, fmt.Errorf("get user by subject: %w", err)
	}
	return &out, nil
}

func (u *users) List(ctx context.Context, opts model.ListOptions) ([]*model.User, error) {
	out := []*model.User{}
	b := listing(u.s.sb.Select(userColumns...).From("users"), "", userColumns, opts)
	if err := u.s.selectAll(ctx, &out, b, "users"); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *users) Update(ctx context.Context, m *model.User) (*model.User, error) {
	b := u.s.sb.Update("users").SetMap(map[string]interface{}{
		"auth_subject": m.AuthSubject,
		"name":         m.Name,
		"age":          m.Age,
		"slug":         m.Slug,
	}).Where(sq.Eq{"id": m.ID})
	if err := u.s.execOne(ctx, b, "user", m.ID); err != nil {
		return nil, err
	}
	return u.Get(ctx, m.ID)
}

func (u *users) Delete(ctx context.Context, id int64) error {
	return u.s.execOne(ctx, u.s.sb.Delete("users").Where(sq.Eq{"id": id}), "user", id)
}
