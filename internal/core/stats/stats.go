// Package stats rolls up per-day completion totals across a user's habits.
package stats

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/habitline/habitline/server/internal/core/daterange"
	"github.com/habitline/habitline/server/internal/model"
)

// Contribution is what a single record adds to its day's total: zero when not
// done, its quantity when counted, one otherwise.
func Contribution(rec model.DateRecord) int {
	if !rec.IsDone {
		return 0
	}
	if rec.Quantity != nil {
		return *rec.Quantity
	}
	return 1
}

// Aggregate returns one DailyTotal per date of r in ascending order. Only done
// records of the given habits count toward a date.
func Aggregate(habits []model.Habit, records []model.DateRecord, r daterange.Range) []model.DailyTotal {
	owned := make(map[int64]struct{}, len(habits))
	for _, h := range habits {
		owned[h.ID] = struct{}{}
	}

	sums := make(map[string]int)
	for _, rec := range records {
		if _, ok := owned[rec.HabitID]; !ok {
			continue
		}
		d := time.Time(rec.HabitDate)
		if !r.Contains(d) {
			continue
		}
		if c := Contribution(rec); c != 0 {
			sums[daterange.Key(d)] += c
		}
	}

	out := make([]model.DailyTotal, 0, r.Days())
	for _, d := range r.Dates() {
		out = append(out, model.DailyTotal{Date: strfmt.Date(d), CompletedCount: sums[daterange.Key(d)]})
	}
	return out
}

// Total sums a rollup.
func Total(days []model.DailyTotal) int {
	n := 0
	for _, d := range days {
		n += d.CompletedCount
	}
	return n
}
