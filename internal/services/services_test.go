package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitline/habitline/server/internal/config"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
	"github.com/habitline/habitline/server/internal/store/sqlite"
)

type env struct {
	store        store.Store
	users        *UserService
	categories   *CategoryService
	habits       *HabitService
	records      *RecordService
	achievements *AchievementService
	stats        *StatsService
}

func newEnvWithStore(t *testing.T, wrap func(store.Store) store.Store) *env {
	t.Helper()
	db, err := sqlite.OpenMemory(context.Background())
	require.NoError(t, err)
	var s store.Store = sqlite.NewWithDB(db)
	t.Cleanup(func() { _ = s.Close() })
	if wrap != nil {
		s = wrap(s)
	}
	catalog := config.DefaultCatalog()
	assigner := slug.NewAssigner(0)
	return &env{
		store:        s,
		users:        NewUserService(s, assigner, catalog),
		categories:   NewCategoryService(s, assigner, catalog),
		habits:       NewHabitService(s, assigner, catalog),
		records:      NewRecordService(s, assigner),
		achievements: NewAchievementService(s, assigner, catalog),
		stats:        NewStatsService(s, 3660),
	}
}

func newEnv(t *testing.T) *env { return newEnvWithStore(t, nil) }

func (e *env) profile(t *testing.T, subject string) *model.User {
	t.Helper()
	u, err := e.users.EnsureProfile(context.Background(), subject)
	require.NoError(t, err)
	return u
}

func (e *env) habit(t *testing.T, u *model.User, name string) *model.Habit {
	t.Helper()
	h, err := e.habits.Create(context.Background(), u, HabitInput{Name: name})
	require.NoError(t, err)
	return h
}

func (e *env) mark(t *testing.T, u *model.User, h *model.Habit, date string, done bool, qty *int) *model.DateRecord {
	t.Helper()
	r, err := e.records.Create(context.Background(), u, RecordInput{HabitID: h.ID, HabitDate: date, IsDone: done, Quantity: qty})
	require.NoError(t, err)
	return r
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u1 := e.profile(t, "alice")
	u2 := e.profile(t, "alice")
	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, "alice", u1.Name)
	assert.Equal(t, "alice", u1.Slug)

	cats, err := e.categories.List(ctx, u1, "")
	require.NoError(t, err)
	names := []string{}
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Health", "Learning"}, names)

	_, err = e.users.EnsureProfile(ctx, "")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestEnsureProfile_SlugCollision(t *testing.T) {
	e := newEnv(t)
	_, err := e.users.Create(context.Background(), UserInput{Name: ptr("bob")})
	require.NoError(t, err)

	u := e.profile(t, "bob")
	assert.Equal(t, "bob-1", u.Slug)
}

// flakyCategories fails creation of the named category while remaining is
// positive.
type flakyCategories struct {
	store.Store
	name      string
	remaining *atomic.Int32
}

func (f flakyCategories) Categories() store.Categories {
	return flakyCategoryRepo{f.Store.Categories(), f.name, f.remaining}
}

type flakyCategoryRepo struct {
	store.Categories
	name      string
	remaining *atomic.Int32
}

func (f flakyCategoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	if c.Name == f.name && f.remaining.Add(-1) >= 0 {
		return nil, errors.New("disk full")
	}
	return f.Categories.Create(ctx, c)
}

func TestEnsureProfile_StarterCategoryFailureRollsBack(t *testing.T) {
	remaining := &atomic.Int32{}
	remaining.Store(1)
	e := newEnvWithStore(t, func(s store.Store) store.Store { return flakyCategories{s, "Learning", remaining} })
	ctx := context.Background()

	_, err := e.users.EnsureProfile(ctx, "alice")
	require.Error(t, err)
	_, err = e.store.Users().GetByAuthSubject(ctx, "alice")
	assert.ErrorIs(t, err, model.ErrNotFound)

	u := e.profile(t, "alice")
	assert.Equal(t, "alice", u.Slug)
	cats, err := e.categories.List(ctx, u, "")
	require.NoError(t, err)
	names := []string{}
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Health", "Learning"}, names)
}

func TestUserUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")

	got, err := e.users.Update(ctx, alice, alice.ID, UserInput{Age: ptr(31)})
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 31, *got.Age)
	assert.Equal(t, "alice", got.Slug)

	_, err = e.users.Update(ctx, alice, alice.ID, UserInput{Age: ptr(-1)})
	assert.True(t, model.IsValidationError(err))

	_, err = e.users.Update(ctx, bob, alice.ID, UserInput{Name: ptr("x")})
	assert.ErrorIs(t, err, model.ErrForbidden)

	assert.ErrorIs(t, e.users.Delete(ctx, bob, alice.ID), model.ErrForbidden)
	require.NoError(t, e.users.Delete(ctx, alice, alice.ID))
}

func TestUserReplace_ClearsAge(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")

	_, err := e.users.Update(ctx, alice, alice.ID, UserInput{Age: ptr(31)})
	require.NoError(t, err)

	got, err := e.users.Replace(ctx, alice, alice.ID, UserInput{Name: ptr("Alice Liddell")})
	require.NoError(t, err)
	assert.Nil(t, got.Age)
	assert.Equal(t, "alice-liddell", got.Slug)

	_, err = e.users.Replace(ctx, alice, alice.ID, UserInput{Age: ptr(3)})
	assert.True(t, model.IsValidationError(err))
}

func TestCategory_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")

	_, err := e.categories.Create(ctx, u, CategoryInput{Name: "X"})
	assert.True(t, model.IsValidationError(err))
	_, err = e.categories.Create(ctx, u, CategoryInput{Name: strings.Repeat("x", 21)})
	assert.True(t, model.IsValidationError(err))

	// Twenty Cyrillic letters fit: length is counted in characters.
	c, err := e.categories.Create(ctx, u, CategoryInput{Name: strings.Repeat("ж", 20)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("zh", 20), c.Slug)

	_, err = e.categories.Create(ctx, u, CategoryInput{Name: "Health"})
	assert.True(t, model.IsConflictError(err), "duplicate name: %v", err)
}

func TestCategory_SlugScopedPerUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")

	a, err := e.categories.Create(ctx, alice, CategoryInput{Name: "Music"})
	require.NoError(t, err)
	b, err := e.categories.Create(ctx, bob, CategoryInput{Name: "Music"})
	require.NoError(t, err)
	assert.Equal(t, "music", a.Slug)
	assert.Equal(t, "music", b.Slug)

	_, err = e.categories.Get(ctx, bob, a.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestCategory_DeleteDetachesHabits(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")
	c, err := e.categories.Create(ctx, u, CategoryInput{Name: "Sport"})
	require.NoError(t, err)
	h, err := e.habits.Create(ctx, u, HabitInput{Name: "Run", CategoryID: &c.ID})
	require.NoError(t, err)

	require.NoError(t, e.categories.Delete(ctx, u, c.ID))
	got, err := e.habits.Get(ctx, u, h.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestHabit_SlugSuffixAndStability(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")

	h1 := e.habit(t, alice, "Read Book")
	h2 := e.habit(t, bob, "Read Book")
	h3 := e.habit(t, alice, "Read Book")
	assert.Equal(t, "read-book", h1.Slug)
	assert.Equal(t, "read-book-1", h2.Slug)
	assert.Equal(t, "read-book-2", h3.Slug)

	// Re-saving with the same name keeps the identifier.
	got, err := e.habits.Update(ctx, bob, h2.ID, HabitInput{Name: "Read Book", DisplayOrder: 4})
	require.NoError(t, err)
	assert.Equal(t, "read-book-1", got.Slug)
	assert.Equal(t, 4, got.DisplayOrder)

	// Renaming moves it.
	got, err = e.habits.Update(ctx, bob, h2.ID, HabitInput{Name: "Write"})
	require.NoError(t, err)
	assert.Equal(t, "write", got.Slug)
}

func TestHabit_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")
	bobCats, err := e.categories.List(ctx, bob, "")
	require.NoError(t, err)

	_, err = e.habits.Create(ctx, alice, HabitInput{Name: "  "})
	assert.True(t, model.IsValidationError(err))
	_, err = e.habits.Create(ctx, alice, HabitInput{Name: strings.Repeat("a", 101)})
	assert.True(t, model.IsValidationError(err))
	_, err = e.habits.Create(ctx, alice, HabitInput{Name: "Run", CategoryID: &bobCats[0].ID})
	assert.True(t, model.IsValidationError(err))

	h := e.habit(t, alice, "Run")
	_, err = e.habits.Get(ctx, bob, h.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = e.habits.Get(ctx, bob, 9999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestHabit_ListFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")
	_, err := e.habits.Create(ctx, u, HabitInput{Name: "Stretch", DisplayOrder: 2})
	require.NoError(t, err)
	_, err = e.habits.Create(ctx, u, HabitInput{Name: "Run", DisplayOrder: 1})
	require.NoError(t, err)
	_, err = e.habits.Create(ctx, u, HabitInput{Name: "Old run", Archived: true})
	require.NoError(t, err)

	active, err := e.habits.List(ctx, u, false, "")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Run", active[0].Name)

	all, err := e.habits.List(ctx, u, true, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := e.habits.List(ctx, u, true, "RUN")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRecord_DerivedNameAndSlug(t *testing.T) {
	e := newEnv(t)
	u := e.profile(t, "alice")
	h := e.habit(t, u, "Push-ups")

	r := e.mark(t, u, h, "2024-01-01", true, ptr(20))
	assert.Equal(t, "Push-ups - 2024-01-01", r.Name)
	assert.Equal(t, "push-ups-2024-01-01", r.Slug)
	assert.Equal(t, "2024-01-01", r.HabitDate.String())
}

func TestRecord_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")
	h := e.habit(t, alice, "Run")

	_, err := e.records.Create(ctx, alice, RecordInput{HabitID: h.ID, HabitDate: "01/02/2024"})
	assert.ErrorIs(t, err, model.ErrInvalidDateFormat)

	_, err = e.records.Create(ctx, alice, RecordInput{HabitID: h.ID, HabitDate: "2024-01-02", Quantity: ptr(0)})
	assert.True(t, model.IsValidationError(err))

	_, err = e.records.Create(ctx, alice, RecordInput{HabitID: 9999, HabitDate: "2024-01-02"})
	assert.True(t, model.IsValidationError(err))

	_, err = e.records.Create(ctx, bob, RecordInput{HabitID: h.ID, HabitDate: "2024-01-02"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	e.mark(t, alice, h, "2024-01-02", true, nil)
	_, err = e.records.Create(ctx, alice, RecordInput{HabitID: h.ID, HabitDate: "2024-01-02"})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestRecord_ListAndUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")
	h := e.habit(t, u, "Run")
	r1 := e.mark(t, u, h, "2024-01-01", true, nil)
	e.mark(t, u, h, "2024-01-05", true, nil)

	got, err := e.records.List(ctx, u, RecordFilter{StartDate: "2024-01-02"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = e.records.List(ctx, u, RecordFilter{StartDate: "2024-01-05", EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, model.ErrInvertedRange)

	upd, err := e.records.Update(ctx, u, r1.ID, RecordInput{HabitID: h.ID, HabitDate: "2024-01-01", IsDone: true, Quantity: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, r1.Slug, upd.Slug)
	require.NotNil(t, upd.Quantity)
	assert.Equal(t, 3, *upd.Quantity)
}

func TestDailyStatistics_PushUps(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")
	h := e.habit(t, u, "Push-ups")
	e.mark(t, u, h, "2024-01-01", true, ptr(20))
	e.mark(t, u, h, "2024-01-03", true, ptr(10))

	got, err := e.stats.DailyStatistics(ctx, u, "", "2024-01-01", "2024-01-03", day("2024-06-01"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	counts := []int{got[0].CompletedCount, got[1].CompletedCount, got[2].CompletedCount}
	assert.Equal(t, []int{20, 0, 10}, counts)
	assert.Equal(t, "2024-01-02", got[1].Date.String())
}

func TestDailyStatistics_IncludesArchivedAndOtherUsersExcluded(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")

	h := e.habit(t, alice, "Meditate")
	e.mark(t, alice, h, "2024-03-15", true, nil)
	old, err := e.habits.Create(ctx, alice, HabitInput{Name: "Old", Archived: true})
	require.NoError(t, err)
	e.mark(t, alice, old, "2024-03-15", true, ptr(4))
	e.mark(t, alice, h, "2024-03-14", false, nil)
	bobs := e.habit(t, bob, "Run")
	e.mark(t, bob, bobs, "2024-03-15", true, ptr(100))

	got, err := e.stats.DailyStatistics(ctx, alice, "week", "", "", day("2024-03-15"))
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, "2024-03-09", got[0].Date.String())
	assert.Equal(t, 0, got[5].CompletedCount)
	assert.Equal(t, 5, got[6].CompletedCount)
}

func TestDailyStatistics_RangeErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")

	_, err := e.stats.DailyStatistics(ctx, u, "", "2024-02-01", "2024-01-01", day("2024-06-01"))
	assert.ErrorIs(t, err, model.ErrInvertedRange)

	_, err = e.stats.DailyStatistics(ctx, u, "", "bad", "", day("2024-06-01"))
	assert.ErrorIs(t, err, model.ErrInvalidDateFormat)

	capped := NewStatsService(e.store, 30)
	_, err = capped.DailyStatistics(ctx, u, "year", "", "", day("2024-06-01"))
	assert.True(t, model.IsValidationError(err))
}

func TestWeeklyStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.profile(t, "alice")
	run := e.habit(t, u, "Run")
	read := e.habit(t, u, "Read")
	_, err := e.habits.Create(ctx, u, HabitInput{Name: "Old", Archived: true})
	require.NoError(t, err)
	rec := e.mark(t, u, run, "2024-03-13", true, ptr(5))

	// 2024-03-15 is a Friday; its week starts Monday 2024-03-11.
	weeks, err := e.stats.WeeklyStatus(ctx, u, nil, day("2024-03-15"))
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, run.ID, weeks[0].ID)
	assert.Equal(t, read.ID, weeks[1].ID)
	require.Len(t, weeks[0].Week, 7)
	assert.Equal(t, "2024-03-11", weeks[0].Week[0].Date.String())
	assert.Equal(t, "2024-03-17", weeks[0].Week[6].Date.String())

	wed := weeks[0].Week[2]
	assert.True(t, wed.IsDone)
	require.NotNil(t, wed.RecordID)
	assert.Equal(t, rec.ID, *wed.RecordID)
	for _, d := range weeks[1].Week {
		assert.False(t, d.IsDone)
		assert.Nil(t, d.RecordID)
		assert.Nil(t, d.Quantity)
	}

	single, err := e.stats.WeeklyStatus(ctx, u, &read.ID, day("2024-03-15"))
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, read.ID, single[0].ID)

	bob := e.profile(t, "bob")
	_, err = e.stats.WeeklyStatus(ctx, bob, &read.ID, day("2024-03-15"))
	assert.ErrorIs(t, err, model.ErrForbidden)
	missing := int64(9999)
	_, err = e.stats.WeeklyStatus(ctx, bob, &missing, day("2024-03-15"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAchievements(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.profile(t, "alice")
	bob := e.profile(t, "bob")

	a, err := e.achievements.Create(ctx, AchievementInput{Name: "Early Bird", Description: ptr("Up before six")})
	require.NoError(t, err)
	assert.Equal(t, "early-bird", a.Slug)

	require.NoError(t, e.achievements.Award(ctx, alice, alice.ID, a.ID))
	require.NoError(t, e.achievements.Award(ctx, alice, alice.ID, a.ID))
	assert.ErrorIs(t, e.achievements.Award(ctx, bob, alice.ID, a.ID), model.ErrForbidden)
	assert.ErrorIs(t, e.achievements.Award(ctx, alice, alice.ID, 9999), model.ErrNotFound)

	got, err := e.achievements.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, e.achievements.Revoke(ctx, alice, alice.ID, a.ID))
	got, err = e.achievements.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = e.achievements.ListForUser(ctx, 9999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// blindSlugs hides existing slugs from the first n lookups, simulating a
// concurrent writer that claims a slug after the check.
type blindSlugs struct {
	store.Store
	remaining *atomic.Int32
}

func (b blindSlugs) Slugs() store.Slugs { return blindLookup{b.Store.Slugs(), b.remaining} }

type blindLookup struct {
	store.Slugs
	remaining *atomic.Int32
}

func (b blindLookup) Exists(ctx context.Context, scope model.SlugScope, s string, excludeID int64) (bool, error) {
	if b.remaining.Add(-1) >= 0 {
		return false, nil
	}
	return b.Slugs.Exists(ctx, scope, s, excludeID)
}

func TestHabit_RetriesOnSlugRace(t *testing.T) {
	remaining := &atomic.Int32{}
	e := newEnvWithStore(t, func(s store.Store) store.Store { return blindSlugs{s, remaining} })
	u := e.profile(t, "alice")
	e.habit(t, u, "Read")

	remaining.Store(1)
	h := e.habit(t, u, "Read")
	assert.Equal(t, "read-1", h.Slug)
}

func TestHabit_GivesUpAfterRepeatedRaces(t *testing.T) {
	remaining := &atomic.Int32{}
	e := newEnvWithStore(t, func(s store.Store) store.Store { return blindSlugs{s, remaining} })
	u := e.profile(t, "alice")
	e.habit(t, u, "Read")

	remaining.Store(100)
	_, err := e.habits.Create(context.Background(), u, HabitInput{Name: "Read"})
	assert.True(t, model.IsSlugConflict(err), "got %v", err)
}
