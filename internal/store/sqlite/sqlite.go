// Package sqlite provides the local SQLite driver for the habit store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/habitline/habitline/server/internal/store/sqlstore"
)

// Dialect is the sqlstore dialect for modernc SQLite.
var Dialect = sqlstore.Dialect{
	DriverName:  "sqlite",
	Placeholder: sq.Question,
	UniqueField: uniqueField,
}

var uniqueFailed = regexp.MustCompile(`UNIQUE constraint failed: ([\w., ]+)`)

// uniqueField extracts the last column of a "UNIQUE constraint failed:
// t.a, t.b" message, which names the field that collided.
func uniqueField(err error) string {
	if err == nil {
		return ""
	}
	m := uniqueFailed.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	cols := strings.Split(m[1], ",")
	last := strings.TrimSpace(cols[len(cols)-1])
	if i := strings.LastIndexByte(last, '.'); i >= 0 {
		last = last[i+1:]
	}
	return last
}

// Open opens (or creates) a SQLite database at the given path, enabling WAL
// and foreign keys, and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	return open(ctx, dsn)
}

var memSeq atomic.Int64

// OpenMemory opens a private in-memory database, used by tests and the
// local dev target when no path is configured.
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	name := fmt.Sprintf("habits-%d-%d", os.Getpid(), memSeq.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	return open(ctx, dsn)
}

func open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection also keeps a shared
	// in-memory database alive for the lifetime of the handle.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a store over an already opened SQLite handle.
func NewWithDB(db *sql.DB) *sqlstore.Store {
	return sqlstore.New(db, Dialect)
}
