package slug

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitline/habitline/server/internal/model"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Morning Run", "morning-run"},
		{"  Push--ups  ", "push-ups"},
		{"Café au lait", "cafe-au-lait"},
		{"Бег по утрам", "beg-po-utram"},
		{"Щука и ёж", "shchuka-i-ezh"},
		{"snake_case_name", "snake_case_name"},
		{"__edge__", "edge"},
		{"100% Focus!", "100-focus"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

// takenSet simulates a store that excludes the entity being saved.
func takenSet(slugs ...string) Exists {
	set := map[string]bool{}
	for _, s := range slugs {
		set[s] = true
	}
	return func(_ context.Context, candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestAssign_FreeBase(t *testing.T) {
	got, err := NewAssigner(0).Assign(context.Background(), model.SlugHabit, "Read Book", "", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "read-book", got)
}

func TestAssign_Suffixes(t *testing.T) {
	a := NewAssigner(0)
	got, err := a.Assign(context.Background(), model.SlugHabit, "Read", "", takenSet("read"))
	require.NoError(t, err)
	assert.Equal(t, "read-1", got)

	got, err = a.Assign(context.Background(), model.SlugHabit, "Read", "", takenSet("read", "read-1"))
	require.NoError(t, err)
	assert.Equal(t, "read-2", got)
}

func TestAssign_KeepsCurrent(t *testing.T) {
	a := NewAssigner(0)
	exists := func(context.Context, string) (bool, error) {
		t.Fatal("lookup not expected for a stable slug")
		return false, nil
	}
	got, err := a.Assign(context.Background(), model.SlugHabit, "Read", "read-3", exists)
	require.NoError(t, err)
	assert.Equal(t, "read-3", got)

	got, err = a.Assign(context.Background(), model.SlugHabit, "Read", "read", exists)
	require.NoError(t, err)
	assert.Equal(t, "read", got)
}

func TestAssign_RenameMovesSlug(t *testing.T) {
	got, err := NewAssigner(0).Assign(context.Background(), model.SlugHabit, "Write", "read-1", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "write", got)
}

func TestAssign_EmptyFallsBackToKind(t *testing.T) {
	got, err := NewAssigner(0).Assign(context.Background(), model.SlugCategory, "???", "", takenSet("category"))
	require.NoError(t, err)
	assert.Equal(t, "category-1", got)
}

func TestAssign_Truncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	a := NewAssigner(0)

	got, err := a.Assign(context.Background(), model.SlugHabit, long, "", takenSet())
	require.NoError(t, err)
	assert.Len(t, got, MaxLen)

	got, err = a.Assign(context.Background(), model.SlugHabit, long, "", takenSet(strings.Repeat("a", MaxLen)))
	require.NoError(t, err)
	assert.Len(t, got, MaxLen)
	assert.True(t, strings.HasSuffix(got, "-1"))
}

func TestAssign_Exhausted(t *testing.T) {
	always := func(context.Context, string) (bool, error) { return true, nil }
	_, err := NewAssigner(5).Assign(context.Background(), model.SlugHabit, "Read", "", always)
	assert.ErrorIs(t, err, model.ErrIdentifierExhausted)
}

func TestAssign_LookupError(t *testing.T) {
	boom := errors.New("boom")
	failing := func(context.Context, string) (bool, error) { return false, boom }
	_, err := NewAssigner(0).Assign(context.Background(), model.SlugHabit, "Read", "", failing)
	assert.ErrorIs(t, err, boom)
}

func TestDerivedFrom(t *testing.T) {
	assert.True(t, DerivedFrom("read", "read"))
	assert.True(t, DerivedFrom("read-12", "read"))
	assert.False(t, DerivedFrom("read-0", "read"))
	assert.False(t, DerivedFrom("read-x", "read"))
	assert.False(t, DerivedFrom("reading-1", "read"))
}
