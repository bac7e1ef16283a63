package stats

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

func qty(n int) *int { return &n }

func rec(habit int64, date string, done bool, q *int) model.DateRecord {
	return model.DateRecord{HabitID: habit, HabitDate: strfmt.Date(day(date)), IsDone: done, Quantity: q}
}

type totalView struct {
	Date  string
	Count int
}

func view(in []model.DailyTotal) []totalView {
	out := make([]totalView, len(in))
	for i, d := range in {
		out[i] = totalView{Date: d.Date.String(), Count: d.CompletedCount}
	}
	return out
}

func TestContribution(t *testing.T) {
	tests := []struct {
		name string
		rec  model.DateRecord
		want int
	}{
		{"done boolean", rec(1, "2024-03-01", true, nil), 1},
		{"done counted", rec(1, "2024-03-01", true, qty(30)), 30},
		{"not done counted", rec(1, "2024-03-01", false, qty(30)), 0},
		{"not done boolean", rec(1, "2024-03-01", false, nil), 0},
	}
	for _, tt := range tests {
		if got := Contribution(tt.rec); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAggregatePushUps(t *testing.T) {
	habits := []model.Habit{{ID: 1, Name: "Push-ups"}}
	records := []model.DateRecord{
		rec(1, "2024-03-01", true, qty(20)),
		rec(1, "2024-03-03", true, qty(10)),
	}
	r, err := daterange.New(day("2024-03-01"), day("2024-03-03"))
	if err != nil {
		t.Fatal(err)
	}

	got := view(Aggregate(habits, records, r))
	want := []totalView{{"2024-03-01", 20}, {"2024-03-02", 0}, {"2024-03-03", 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateMixesBooleanAndCounted(t *testing.T) {
	habits := []model.Habit{{ID: 1}, {ID: 2}, {ID: 3}}
	records := []model.DateRecord{
		rec(1, "2024-03-01", true, nil),
		rec(2, "2024-03-01", true, qty(30)),
		rec(3, "2024-03-01", false, qty(100)),
		rec(9, "2024-03-01", true, qty(1000)), // not the user's habit
		rec(1, "2024-03-02", true, nil),
		rec(1, "2024-03-09", true, nil), // outside the range
	}
	r, _ := daterange.New(day("2024-03-01"), day("2024-03-02"))

	got := view(Aggregate(habits, records, r))
	want := []totalView{{"2024-03-01", 31}, {"2024-03-02", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Aggregate mismatch (-want +got):\n%s", diff)
	}
	if Total(Aggregate(habits, records, r)) != 32 {
		t.Fatalf("unexpected total")
	}
}

func TestAggregateDensity(t *testing.T) {
	for _, period := range []string{"week", "month", "year"} {
		r, err := daterange.Resolve(period, "", "", day("2024-06-30"))
		if err != nil {
			t.Fatal(err)
		}
		got := Aggregate(nil, nil, r)
		if len(got) != r.Days() {
			t.Fatalf("%s: len = %d, want %d", period, len(got), r.Days())
		}
		for _, d := range got {
			if d.CompletedCount != 0 {
				t.Fatalf("%s: empty input produced %d on %s", period, d.CompletedCount, d.Date)
			}
		}
	}
}
