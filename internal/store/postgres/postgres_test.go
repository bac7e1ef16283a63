package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "single column",
			err:  &pgconn.PgError{Code: "23505", Detail: "Key (slug)=(read) already exists."},
			want: "slug",
		},
		{
			name: "composite uses last column",
			err:  fmt.Errorf("write record: %w", &pgconn.PgError{Code: "23505", Detail: "Key (habit_id, habit_date)=(1, 2024-01-01) already exists."}),
			want: "habit_date",
		},
		{
			name: "foreign key is not a conflict",
			err:  &pgconn.PgError{Code: "23503"},
			want: "",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueField(tt.err))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
