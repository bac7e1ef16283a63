package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/habitline/habitline/server/internal/core/daterange"
	"github.com/habitline/habitline/server/internal/core/slug"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/store"
)

// RecordInput carries the writable date-record fields. An empty Name is
// derived from the habit name and date.
type RecordInput struct {
	HabitID   int64  `json:"habit_id"`
	HabitDate string `json:"habit_date"`
	IsDone    bool   `json:"is_done"`
	Quantity  *int   `json:"quantity"`
	Name      string `json:"name"`
}

// RecordFilter narrows List. Dates are YYYY-MM-DD; empty bounds are open.
type RecordFilter struct {
	HabitID   *int64
	StartDate string
	EndDate   string
}

// RecordService manages per-day completion records.
type RecordService struct {
	store store.Store
	slugs slugger
}

func NewRecordService(s store.Store, assigner *slug.Assigner) *RecordService {
	return &RecordService{store: s, slugs: slugger{s, assigner}}
}

// RecordName is the derived display name of a record.
func RecordName(habitName string, date strfmt.Date) string {
	return habitName + " - " + date.String()
}

func (s *RecordService) Create(ctx context.Context, caller *model.User, in RecordInput) (*model.DateRecord, error) {
	r := &model.DateRecord{UserID: caller.ID}
	if err := s.apply(ctx, caller, r, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugRecord}, r.Name, "", 0, func(sl string) (*model.DateRecord, error) {
		r.Slug = sl
		return s.store.Records().Create(ctx, r)
	})
}

func (s *RecordService) Get(ctx context.Context, caller *model.User, id int64) (*model.DateRecord, error) {
	r, err := s.store.Records().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, r.UserID, "record"); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RecordService) List(ctx context.Context, caller *model.User, f RecordFilter) ([]*model.DateRecord, error) {
	req := model.ListRecordsRequest{UserID: caller.ID, HabitID: f.HabitID}
	var start, end strfmt.Date
	if f.StartDate != "" {
		t, err := daterange.ParseDate("start_date", f.StartDate)
		if err != nil {
			return nil, err
		}
		start = strfmt.Date(t)
		req.Start = &start
	}
	if f.EndDate != "" {
		t, err := daterange.ParseDate("end_date", f.EndDate)
		if err != nil {
			return nil, err
		}
		end = strfmt.Date(t)
		req.End = &end
	}
	if req.Start != nil && req.End != nil {
		if _, err := daterange.New(time.Time(start), time.Time(end)); err != nil {
			return nil, err
		}
	}
	return s.store.Records().List(ctx, req)
}

func (s *RecordService) Update(ctx context.Context, caller *model.User, id int64, in RecordInput) (*model.DateRecord, error) {
	r, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, caller, r, in); err != nil {
		return nil, err
	}
	return saveWithSlug(ctx, s.slugs, model.SlugScope{Kind: model.SlugRecord}, r.Name, r.Slug, r.ID, func(sl string) (*model.DateRecord, error) {
		r.Slug = sl
		return s.store.Records().Update(ctx, r)
	})
}

func (s *RecordService) Delete(ctx context.Context, caller *model.User, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	return s.store.Records().Delete(ctx, id)
}

// apply validates in and fills r. The name is derived before the slug is
// assigned so the slug follows the final name.
func (s *RecordService) apply(ctx context.Context, caller *model.User, r *model.DateRecord, in RecordInput) error {
	if in.HabitID == 0 {
		return model.NewValidationError("habit_id", "this field is required")
	}
	habit, err := s.store.Habits().Get(ctx, in.HabitID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return model.NewValidationError("habit_id", "habit does not exist")
		}
		return err
	}
	if err := requireOwner(caller, habit.UserID, "habit"); err != nil {
		return err
	}

	day, err := daterange.ParseDate("habit_date", in.HabitDate)
	if err != nil {
		return err
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return model.NewValidationError("quantity", "must be a positive integer")
	}

	r.HabitID = habit.ID
	r.HabitDate = strfmt.Date(day)
	r.IsDone = in.IsDone
	r.Quantity = in.Quantity
	r.Name = strings.TrimSpace(in.Name)
	if r.Name == "" {
		r.Name = RecordName(habit.Name, r.HabitDate)
	}
	if n := len([]rune(r.Name)); n > 200 {
		return model.NewValidationError("name", fmt.Sprintf("must be at most 200 characters, got %d", n))
	}
	return nil
}
