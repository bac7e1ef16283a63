package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/habitline/habitline/server/internal/model"
)

var slugTables = map[model.SlugKind]string{
	model.SlugUser:        "users",
	model.SlugCategory:    "categories",
	model.SlugHabit:       "habits",
	model.SlugRecord:      "date_records",
	model.SlugAchievement: "achievements",
}

type slugs struct{ s *Store }

func (sl *slugs) Exists(ctx context.Context, scope model.SlugScope, slug string, excludeID int64) (bool, error) {
	table, ok := slugTables[scope.Kind]
	if !ok {
		return false, fmt.Errorf("unknown slug kind %q", scope.Kind)
	}
	where := sq.And{sq.Eq{"slug": slug}, sq.NotEq{"id": excludeID}}
	if scope.Kind == model.SlugCategory {
		where = append(where, sq.Eq{"user_id": scope.UserID})
	}
	q, args, err := sl.s.sb.Select("COUNT(1)").From(table).Where(where).ToSql()
	if err != nil {
		return false, fmt.Errorf("build slug lookup: %w", err)
	}
	var n int
	if err := sl.s.db.GetContext(ctx, &n, q, args...); err != nil {
		return false, fmt.Errorf("slug lookup in %s: %w", table, err)
	}
	return n > 0, nil
}
