// Package calendar rebuilds a dense per-day view of a habit from its sparse
// date records.
package calendar

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/habitline/habitline/server/internal/core/daterange"
	"github.com/habitline/habitline/server/internal/model"
)

// Index maps a date key to the record that represents that day.
type Index map[string]*model.DateRecord

// IndexRecords keeps the records of habitID that fall inside r. When two
// records share a date the one created last wins, then the higher id.
func IndexRecords(habitID int64, r daterange.Range, records []model.DateRecord) Index {
	idx := make(Index, len(records))
	for i := range records {
		rec := &records[i]
		if rec.HabitID != habitID {
			continue
		}
		d := time.Time(rec.HabitDate)
		if !r.Contains(d) {
			continue
		}
		key := daterange.Key(d)
		if cur, ok := idx[key]; ok && !newer(rec, cur) {
			continue
		}
		idx[key] = rec
	}
	return idx
}

func newer(a, b *model.DateRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Reconstruct returns exactly r.Days() entries in ascending date order. Dates
// without a record get a "not done" placeholder with no record id or quantity.
func Reconstruct(habitID int64, r daterange.Range, records []model.DateRecord) []model.DayStatus {
	idx := IndexRecords(habitID, r, records)
	out := make([]model.DayStatus, 0, r.Days())
	for _, d := range r.Dates() {
		status := model.DayStatus{Date: strfmt.Date(d)}
		if rec, ok := idx[daterange.Key(d)]; ok {
			id := rec.ID
			status.IsDone = rec.IsDone
			status.RecordID = &id
			if rec.Quantity != nil {
				q := *rec.Quantity
				status.Quantity = &q
			}
		}
		out = append(out, status)
	}
	return out
}

// Weeks reconstructs the same range for every habit, keeping the input order.
func Weeks(habits []model.Habit, r daterange.Range, records []model.DateRecord) []model.HabitWeek {
	out := make([]model.HabitWeek, 0, len(habits))
	for _, h := range habits {
		out = append(out, model.HabitWeek{Habit: h, Week: Reconstruct(h.ID, r, records)})
	}
	return out
}
