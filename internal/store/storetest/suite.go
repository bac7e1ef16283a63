// Package storetest holds the compliance suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide an isolated store and return it from makeStore.
// Identifiers are randomised so the suite tolerates a shared database.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	tag := uuid.New().String()[:8]

	// Users
	subject := "sub-" + tag
	u, err := s.Users().Create(ctx, &model.User{AuthSubject: &subject, Name: "Ann", Slug: "ann-" + tag})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("CreateUser: missing id or created_at: %+v", u)
	}
	if got, err := s.Users().Get(ctx, u.ID); err != nil || got.Slug != u.Slug {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByAuthSubject(ctx, subject); err != nil || got.ID != u.ID {
		t.Fatalf("GetUserByAuthSubject: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetByAuthSubject(ctx, "missing-"+tag); !model.IsNotFoundError(err) {
		t.Fatalf("GetUserByAuthSubject missing: want not found, got %v", err)
	}
	if _, err := s.Users().Create(ctx, &model.User{Name: "Dup", Slug: u.Slug}); !model.IsSlugConflict(err) {
		t.Fatalf("CreateUser duplicate slug: want slug conflict, got %v", err)
	}
	age := 30
	u.Age = &age
	u.Name = "Ann B"
	if got, err := s.Users().Update(ctx, u); err != nil || got.Name != "Ann B" || got.Age == nil || *got.Age != 30 {
		t.Fatalf("UpdateUser: got=%v err=%v", got, err)
	}
	if lst, err := s.Users().List(ctx, model.ListOptions{Query: "ann b", SearchFields: []string{"name"}}); err != nil || !containsUser(lst, u.ID) {
		t.Fatalf("ListUsers search: n=%d err=%v", len(lst), err)
	}
	if _, err := s.Users().Get(ctx, -1); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// Categories
	cat, err := s.Categories().Create(ctx, &model.Category{UserID: u.ID, Name: "Health", Slug: "health"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := s.Categories().Create(ctx, &model.Category{UserID: u.ID, Name: "Health", Slug: "health-1"}); !model.IsConflictError(err) {
		t.Fatalf("CreateCategory duplicate name: want conflict, got %v", err)
	}
	if lst, err := s.Categories().List(ctx, u.ID, model.ListOptions{OrderBy: []string{"name"}}); err != nil || len(lst) != 1 {
		t.Fatalf("ListCategories: n=%d err=%v", len(lst), err)
	}
	cat.Name = "Fitness"
	cat.Slug = "fitness"
	if got, err := s.Categories().Update(ctx, cat); err != nil || got.Slug != "fitness" {
		t.Fatalf("UpdateCategory: got=%v err=%v", got, err)
	}

	// Habits
	h1, err := s.Habits().Create(ctx, &model.Habit{UserID: u.ID, CategoryID: &cat.ID, Name: "Push-ups", DisplayOrder: 2, Slug: "push-ups-" + tag})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	h2, err := s.Habits().Create(ctx, &model.Habit{UserID: u.ID, Name: "Read", DisplayOrder: 1, Slug: "read-" + tag})
	if err != nil {
		t.Fatalf("CreateHabit h2: %v", err)
	}
	h3, err := s.Habits().Create(ctx, &model.Habit{UserID: u.ID, Name: "Old", Archived: true, Slug: "old-" + tag})
	if err != nil {
		t.Fatalf("CreateHabit h3: %v", err)
	}
	byOrder := model.ListOptions{OrderBy: []string{"display_order", "id"}}
	if lst, err := s.Habits().List(ctx, u.ID, false, byOrder); err != nil || len(lst) != 2 || lst[0].ID != h2.ID {
		t.Fatalf("ListHabits active: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Habits().List(ctx, u.ID, true, byOrder); err != nil || len(lst) != 3 {
		t.Fatalf("ListHabits all: n=%d err=%v", len(lst), err)
	}
	h3.Archived = false
	if got, err := s.Habits().Update(ctx, h3); err != nil || got.Archived {
		t.Fatalf("UpdateHabit: got=%v err=%v", got, err)
	}

	// Slugs
	if taken, err := s.Slugs().Exists(ctx, model.SlugScope{Kind: model.SlugHabit}, h1.Slug, 0); err != nil || !taken {
		t.Fatalf("SlugExists: taken=%v err=%v", taken, err)
	}
	if taken, err := s.Slugs().Exists(ctx, model.SlugScope{Kind: model.SlugHabit}, h1.Slug, h1.ID); err != nil || taken {
		t.Fatalf("SlugExists self-excluded: taken=%v err=%v", taken, err)
	}
	if taken, err := s.Slugs().Exists(ctx, model.SlugScope{Kind: model.SlugCategory, UserID: u.ID + 1000000}, "fitness", 0); err != nil || taken {
		t.Fatalf("SlugExists other user's category: taken=%v err=%v", taken, err)
	}

	// Records
	d1 := day("2024-01-01")
	d2 := day("2024-01-02")
	qty := 20
	r1, err := s.Records().Create(ctx, &model.DateRecord{UserID: u.ID, HabitID: h1.ID, HabitDate: d1, IsDone: true, Quantity: &qty, Name: "Push-ups - 2024-01-01", Slug: "r1-" + tag})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if _, err := s.Records().Create(ctx, &model.DateRecord{UserID: u.ID, HabitID: h1.ID, HabitDate: d1, Name: "dup", Slug: "r1-dup-" + tag}); !model.IsConflictError(err) {
		t.Fatalf("CreateRecord same habit and date: want conflict, got %v", err)
	}
	if _, err := s.Records().Create(ctx, &model.DateRecord{UserID: u.ID, HabitID: h2.ID, HabitDate: d2, IsDone: true, Name: "Read - 2024-01-02", Slug: "r2-" + tag}); err != nil {
		t.Fatalf("CreateRecord r2: %v", err)
	}
	got, err := s.Records().Get(ctx, r1.ID)
	if err != nil || got.HabitDate.String() != "2024-01-01" || got.Quantity == nil || *got.Quantity != 20 || !got.IsDone {
		t.Fatalf("GetRecord: got=%+v err=%v", got, err)
	}
	if lst, err := s.Records().List(ctx, model.ListRecordsRequest{UserID: u.ID}); err != nil || len(lst) != 2 || lst[0].ID != r1.ID {
		t.Fatalf("ListRecords: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Records().List(ctx, model.ListRecordsRequest{UserID: u.ID, HabitID: &h2.ID}); err != nil || len(lst) != 1 {
		t.Fatalf("ListRecords by habit: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Records().List(ctx, model.ListRecordsRequest{UserID: u.ID, Start: &d2, End: &d2}); err != nil || len(lst) != 1 {
		t.Fatalf("ListRecords by range: n=%d err=%v", len(lst), err)
	}
	got.Quantity = nil
	got.IsDone = false
	if upd, err := s.Records().Update(ctx, got); err != nil || upd.Quantity != nil || upd.IsDone {
		t.Fatalf("UpdateRecord: got=%+v err=%v", upd, err)
	}

	// Achievements
	a, err := s.Achievements().Create(ctx, &model.Achievement{Name: "Early bird", Slug: "early-bird-" + tag})
	if err != nil {
		t.Fatalf("CreateAchievement: %v", err)
	}
	if err := s.Achievements().Award(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("Award: %v", err)
	}
	if err := s.Achievements().Award(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("Award twice: %v", err)
	}
	if lst, err := s.Achievements().ListForUser(ctx, u.ID); err != nil || len(lst) != 1 || lst[0].ID != a.ID {
		t.Fatalf("ListForUser: n=%d err=%v", len(lst), err)
	}
	if err := s.Achievements().Revoke(ctx, u.ID, a.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := s.Achievements().Revoke(ctx, u.ID, a.ID); !model.IsNotFoundError(err) {
		t.Fatalf("Revoke twice: want not found, got %v", err)
	}

	// Deleting a category detaches its habits.
	if err := s.Categories().Delete(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if h, err := s.Habits().Get(ctx, h1.ID); err != nil || h.CategoryID != nil {
		t.Fatalf("habit after category delete: got=%+v err=%v", h, err)
	}

	// Deleting a habit cascades to its records.
	if err := s.Habits().Delete(ctx, h1.ID); err != nil {
		t.Fatalf("DeleteHabit: %v", err)
	}
	if _, err := s.Records().Get(ctx, r1.ID); !model.IsNotFoundError(err) {
		t.Fatalf("record after habit delete: want not found, got %v", err)
	}

	// Deleting the user cascades to everything it owns.
	if err := s.Users().Delete(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.Habits().Get(ctx, h2.ID); !model.IsNotFoundError(err) {
		t.Fatalf("habit after user delete: want not found, got %v", err)
	}
	if err := s.Users().Delete(ctx, u.ID); !model.IsNotFoundError(err) {
		t.Fatalf("DeleteUser twice: want not found, got %v", err)
	}
	if err := s.Achievements().Delete(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAchievement: %v", err)
	}
}

func day(s string) strfmt.Date {
	t, err := time.Parse(strfmt.RFC3339FullDate, s)
	if err != nil {
		panic(err)
	}
	return strfmt.Date(t)
}

func containsUser(list []*model.User, id int64) bool {
	for _, u := range list {
		if u.ID == id {
			return true
		}
	}
	return false
}
