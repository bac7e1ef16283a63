// Package sqlstore implements store.Store on database/sql using squirrel for
// query building and sqlx for row mapping. Drivers differ only by Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	// DriverName is the database/sql driver name, used by sqlx for binding.
	DriverName  string
	Placeholder sq.PlaceholderFormat
	// UniqueField returns the column named by a unique-constraint violation,
	// or "" when err is not one.
	UniqueField func(err error) string
}

// Store is the shared SQL implementation of store.Store.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

var _ store.Store = (*Store)(nil)

// New wraps an open database handle. The schema must already exist.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{
		db:      sqlx.NewDb(db, d.DriverName),
		dialect: d,
		sb:      sq.StatementBuilder.PlaceholderFormat(d.Placeholder),
	}
}

func (s *Store) Users() store.Users               { return &users{s} }
func (s *Store) Categories() store.Categories     { return &categories{s} }
func (s *Store) Habits() store.Habits             { return &habits{s} }
func (s *Store) Records() store.Records           { return &records{s} }
func (s *Store) Achievements() store.Achievements { return &achievements{s} }
func (s *Store) Slugs() store.Slugs               { return &slugs{s} }

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db.DB }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

func (s *Store) get(ctx context.Context, dest any, b sq.SelectBuilder, entity string, id int64) error {
	q, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s select: %w", entity, err)
	}
	if err := s.db.GetContext(ctx, dest, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFoundError(entity, fmt.Sprintf("id %d does not exist", id))
		}
		return fmt.Errorf("get %s: %w", entity, err)
	}
	return nil
}

func (s *Store) selectAll(ctx context.Context, dest any, b sq.SelectBuilder, entity string) error {
	q, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s select: %w", entity, err)
	}
	if err := s.db.SelectContext(ctx, dest, q, args...); err != nil {
		return fmt.Errorf("list %s: %w", entity, err)
	}
	return nil
}

func (s *Store) insert(ctx context.Context, b sq.InsertBuilder, entity string) (int64, error) {
	q, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s insert: %w", entity, err)
	}
	var id int64
	if err := s.db.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, s.conflict(err, entity)
	}
	return id, nil
}

// execOne runs an update or delete that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, b sq.Sqlizer, entity string, id int64) error {
	q, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s statement: %w", entity, err)
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return s.conflict(err, entity)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return model.NewNotFoundError(entity, fmt.Sprintf("id %d does not exist", id))
	}
	return nil
}

func (s *Store) conflict(err error, entity string) error {
	if s.dialect.UniqueField != nil {
		if field := s.dialect.UniqueField(err); field != "" {
			return model.NewConflictError(field, fmt.Sprintf("%s with this %s already exists", entity, field))
		}
	}
	return fmt.Errorf("write %s: %w", entity, err)
}

// listing applies free-text search and ordering from opts, accepting only
// columns present in allowed. prefix qualifies the columns in joins.
func listing(b sq.SelectBuilder, prefix string, allowed []string, opts model.ListOptions) sq.SelectBuilder {
	ok := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		ok[c] = true
	}

	if opts.Query != "" && len(opts.SearchFields) > 0 {
		pattern := "%" + strings.ToLower(opts.Query) + "%"
		or := sq.Or{}
		for _, f := range opts.SearchFields {
			if ok[f] {
				or = append(or, sq.Expr("LOWER("+prefix+f+") LIKE ?", pattern))
			}
		}
		if len(or) > 0 {
			b = b.Where(or)
		}
	}

	ordered := false
	for _, o := range opts.OrderBy {
		dir := "ASC"
		if strings.HasPrefix(o, "-") {
			dir, o = "DESC", o[1:]
		}
		if ok[o] {
			b = b.OrderBy(prefix + o + " " + dir)
			ordered = true
		}
	}
	if !ordered {
		b = b.OrderBy(prefix + "id ASC")
	}
	return b
}

func qualify(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return out
}
