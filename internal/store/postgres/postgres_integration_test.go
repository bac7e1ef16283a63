package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/habitline/habitline/server/internal/store"
	"github.com/habitline/habitline/server/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("HABIT_SERVER_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HABIT_SERVER_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	return openMigrated(t, dsn)
}

func openMigrated(t *testing.T, dsn string) store.Store {
	t.Helper()
	db, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	if err := Migrate(db, zerolog.Nop()); err != nil {
		t.Fatalf("postgres migrate: %v", err)
	}
	s := NewWithDB(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
