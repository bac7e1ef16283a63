package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStmts creates the habit schema. habit_date is ISO text so range
// filters compare lexically.
var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            auth_subject TEXT UNIQUE,
            name TEXT NOT NULL,
            age INTEGER,
            slug TEXT NOT NULL UNIQUE,
            created_at TIMESTAMP NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS categories (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            slug TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            UNIQUE (user_id, name),
            UNIQUE (user_id, slug)
        );`,
	`CREATE TABLE IF NOT EXISTS habits (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
            name TEXT NOT NULL,
            display_order INTEGER NOT NULL DEFAULT 0,
            archived BOOLEAN NOT NULL DEFAULT 0,
            slug TEXT NOT NULL UNIQUE,
            created_at TIMESTAMP NOT NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id, display_order);`,
	`CREATE TABLE IF NOT EXISTS date_records (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            habit_id INTEGER NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
            habit_date TEXT NOT NULL,
            is_done BOOLEAN NOT NULL DEFAULT 0,
            quantity INTEGER CHECK (quantity IS NULL OR quantity > 0),
            name TEXT NOT NULL,
            slug TEXT NOT NULL UNIQUE,
            created_at TIMESTAMP NOT NULL,
            UNIQUE (habit_id, habit_date)
        );`,
	`CREATE INDEX IF NOT EXISTS idx_records_user_date ON date_records(user_id, habit_date);`,
	`CREATE TABLE IF NOT EXISTS achievements (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT,
            slug TEXT NOT NULL UNIQUE,
            created_at TIMESTAMP NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS user_achievements (
            user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            achievement_id INTEGER NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
            awarded_at TIMESTAMP NOT NULL,
            PRIMARY KEY (user_id, achievement_id)
        );`,
}

// EnsureSchema creates the required tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
