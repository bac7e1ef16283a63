package services

import (
	"context"
	"fmt"
	"time"

	"github.com/habitline/habitline/server/internal/core/calendar"
	"github.com/habitline/habitline/server/internal/core/daterange"
	"github.com/habitline/habitline/server/internal/core/stats"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// StatsService answers the temporal read paths: weekly status grids and
// daily completion totals.
type StatsService struct {
	store        store.Store
	maxRangeDays int
}

func NewStatsService(s store.Store, maxRangeDays int) *StatsService {
	return &StatsService{store: s, maxRangeDays: maxRangeDays}
}

// WeeklyStatus returns Monday..Sunday of the week containing reference for
// every active habit of caller, or for habitID alone when given.
func (s *StatsService) WeeklyStatus(ctx context.Context, caller *model.User, habitID *int64, reference time.Time) ([]model.HabitWeek, error) {
	week := daterange.WeekOf(reference)

	var habits []*model.Habit
	if habitID != nil {
		h, err := s.store.Habits().Get(ctx, *habitID)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(caller, h.UserID, "habit"); err != nil {
			return nil, err
		}
		habits = []*model.Habit{h}
	} else {
		var err error
		habits, err = s.store.Habits().List(ctx, caller.ID, false, model.ListOptions{OrderBy: []string{"display_order", "id"}})
		if err != nil {
			return nil, err
		}
	}

	records, err := s.loadRecords(ctx, caller.ID, habitID, week)
	if err != nil {
		return nil, err
	}
	return calendar.Weeks(derefHabits(habits), week, records), nil
}

// DailyStatistics resolves the requested window against reference and sums
// completions per day across all of caller's habits, archived ones included.
func (s *StatsService) DailyStatistics(ctx context.Context, caller *model.User, period, startDate, endDate string, reference time.Time) ([]model.DailyTotal, error) {
	r, err := daterange.Resolve(period, startDate, endDate, reference)
	if err != nil {
		return nil, err
	}
	if s.maxRangeDays > 0 && r.Days() > s.maxRangeDays {
		return nil, model.NewValidationError("start_date", fmt.Sprintf("range covers %d days, at most %d allowed", r.Days(), s.maxRangeDays))
	}

	habits, err := s.store.Habits().List(ctx, caller.ID, true, model.ListOptions{})
	if err != nil {
		return nil, err
	}
	records, err := s.loadRecords(ctx, caller.ID, nil, r)
	if err != nil {
		return nil, err
	}
	return stats.Aggregate(derefHabits(habits), records, r), nil
}

func (s *StatsService) loadRecords(ctx context.Context, userID int64, habitID *int64, r daterange.Range) ([]model.DateRecord, error) {
	start, end := r.StartDate(), r.EndDate()
	recs, err := s.store.Records().List(ctx, model.ListRecordsRequest{UserID: userID, HabitID: habitID, Start: &start, End: &end})
	if err != nil {
		return nil, err
	}
	return derefRecords(recs), nil
}
