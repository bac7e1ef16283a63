package calendar

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/go-cmp/cmp"

	"github.com/habitline/habitline/server/internal/core/daterange"
	"github.com/habitline/habitline/server/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(daterange.Layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(t *testing.T, from, to string) daterange.Range {
	t.Helper()
	r, err := daterange.New(day(from), day(to))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func ptr[T any](v T) *T { return &v }

// statusView flattens DayStatus for readable diffs.
type statusView struct {
	Date     string
	IsDone   bool
	RecordID *int64
	Quantity *int
}

func view(in []model.DayStatus) []statusView {
	out := make([]statusView, len(in))
	for i, s := range in {
		out[i] = statusView{Date: s.Date.String(), IsDone: s.IsDone, RecordID: s.RecordID, Quantity: s.Quantity}
	}
	return out
}

func rec(id, habit int64, date string, done bool, qty *int) model.DateRecord {
	return model.DateRecord{ID: id, HabitID: habit, HabitDate: strfmt.Date(day(date)), IsDone: done, Quantity: qty}
}

func TestReconstructFillsGaps(t *testing.T) {
	r := rng(t, "2024-03-01", "2024-03-04")
	records := []model.DateRecord{
		rec(10, 1, "2024-03-01", true, nil),
		rec(11, 1, "2024-03-03", false, ptr(5)),
		rec(12, 2, "2024-03-02", true, nil),     // other habit
		rec(13, 1, "2024-02-28", true, ptr(9)), // outside range
	}

	got := view(Reconstruct(1, r, records))
	want := []statusView{
		{Date: "2024-03-01", IsDone: true, RecordID: ptr(int64(10))},
		{Date: "2024-03-02"},
		{Date: "2024-03-03", RecordID: ptr(int64(11)), Quantity: ptr(5)},
		{Date: "2024-03-04"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconstruct mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructDensity(t *testing.T) {
	tests := []struct {
		from, to string
		records  []model.DateRecord
	}{
		{"2024-01-01", "2024-01-01", nil},
		{"2024-01-01", "2024-01-31", nil},
		{"2024-02-01", "2024-03-31", []model.DateRecord{rec(1, 1, "2024-02-29", true, nil)}},
		{"2023-01-01", "2023-12-31", []model.DateRecord{rec(1, 1, "2023-06-01", true, nil), rec(2, 1, "2023-06-02", true, nil)}},
	}
	for _, tt := range tests {
		r := rng(t, tt.from, tt.to)
		got := Reconstruct(1, r, tt.records)
		if len(got) != r.Days() {
			t.Errorf("%s..%s: len = %d, want %d", tt.from, tt.to, len(got), r.Days())
		}
		for i := 1; i < len(got); i++ {
			prev, cur := time.Time(got[i-1].Date), time.Time(got[i].Date)
			if cur.Sub(prev) != 24*time.Hour {
				t.Fatalf("%s..%s: gap between %s and %s", tt.from, tt.to, got[i-1].Date, got[i].Date)
			}
		}
	}
}

func TestReconstructPlaceholderDefaults(t *testing.T) {
	got := Reconstruct(7, rng(t, "2024-05-01", "2024-05-07"), nil)
	for _, s := range got {
		if s.IsDone || s.RecordID != nil || s.Quantity != nil {
			t.Fatalf("placeholder for %s is not empty: %+v", s.Date, s)
		}
	}
}

func TestReconstructDuplicateLatestWins(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	older := rec(1, 1, "2024-03-01", false, nil)
	older.CreatedAt = base
	newerRec := rec(2, 1, "2024-03-01", true, ptr(3))
	newerRec.CreatedAt = base.Add(time.Hour)
	sameTimeHigherID := rec(3, 1, "2024-03-02", true, nil)
	sameTimeLowerID := rec(2, 1, "2024-03-02", false, nil)

	got := Reconstruct(1, rng(t, "2024-03-01", "2024-03-02"),
		[]model.DateRecord{newerRec, older, sameTimeLowerID, sameTimeHigherID})
	if got[0].RecordID == nil || *got[0].RecordID != 2 || !got[0].IsDone {
		t.Fatalf("day 1 should use the newest record: %+v", got[0])
	}
	if got[1].RecordID == nil || *got[1].RecordID != 3 {
		t.Fatalf("day 2 should use the higher id: %+v", got[1])
	}
}

func TestWeeksKeepsHabitOrder(t *testing.T) {
	habits := []model.Habit{{ID: 2, Name: "Read"}, {ID: 1, Name: "Run"}}
	week := daterange.WeekOf(day("2024-03-13"))
	out := Weeks(habits, week, []model.DateRecord{rec(5, 1, "2024-03-13", true, nil)})
	if len(out) != 2 || out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("unexpected order: %+v", out)
	}
	if len(out[0].Week) != 7 || len(out[1].Week) != 7 {
		t.Fatalf("weeks must have 7 days")
	}
	if out[0].Week[2].IsDone {
		t.Fatalf("record leaked into another habit")
	}
	if !out[1].Week[2].IsDone {
		t.Fatalf("Wednesday should be done for habit 1")
	}
}
