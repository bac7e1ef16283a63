package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/model"
)

func TestNewStore_SQLiteMemory(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SQLitePath = ":memory:"

	s, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	users, err := s.Users().List(context.Background(), model.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestNewStore_SQLiteFile(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "habits.db")

	s, err := NewStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestNewStore_Errors(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "mysql"
	_, err := NewStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg.DBDriver = "postgres"
	cfg.PostgresDSN = ""
	_, err = NewStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
