package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/habitline/habitline/server/internal/model"
)

var recordColumns = []string{"id", "user_id", "habit_id", "habit_date", "is_done", "quantity", "name", "slug", "created_at"}

type records struct{ s *Store }

func (r *records) Create(ctx context.Context, m *model.DateRecord) (*model.DateRecord, error) {
	out := *m
	out.CreatedAt = now()
	id, err := r.s.insert(ctx, r.s.sb.Insert("date_records").
		Columns("user_id", "habit_id", "habit_date", "is_done", "quantity", "name", "slug", "created_at").
		Values(out.UserID, out.HabitID, out.HabitDate.String(), out.IsDone, out.Quantity, out.Name, out.Slug, out.CreatedAt), "record")
	if err != nil {
		return nil, err
	}
	out.ID = id
	return &out, nil
}

func (r *records) Get(ctx context.Context, id int64) (*model.DateRecord, error) {
	var out model.DateRecord
	b := r.s.sb.Select(recordColumns...).From("date_records").Where(sq.Eq{"id": id})
	if err := r.s.get(ctx, &out, b, "record", id); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *records) List(ctx context.Context, req model.ListRecordsRequest) ([]*model.DateRecord, error) {
	b := r.s.sb.Select(recordColumns...).From("date_records").Where(sq.Eq{"user_id": req.UserID})
	if req.HabitID != nil {
		b = b.Where(sq.Eq{"habit_id": *req.HabitID})
	}
	if req.Start != nil {
		b = b.Where(sq.GtOrEq{"habit_date": req.Start.String()})
	}
	if req.End != nil {
		b = b.Where(sq.LtOrEq{"habit_date": req.End.String()})
	}
	b = b.OrderBy("habit_date ASC", "id ASC")

	out := []*model.DateRecord{}
	if err := r.s.selectAll(ctx, &out, b, "records"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *records) Update(ctx context.Context, m *model.DateRecord) (*model.DateRecord, error) {
	b := r.s.sb.Update("date_records").SetMap(map[string]interface{}{
		"habit_id":   m.HabitID,
		"habit_date": m.HabitDate.String(),
		"is_done":    m.IsDone,
		"quantity":   m.Quantity,
		"name":       m.Name,
		"slug":       m.Slug,
	}).Where(sq.Eq{"id": m.ID})
	if err := r.s.execOne(ctx, b, "record", m.ID); err != nil {
		return nil, err
	}
	return r.Get(ctx, m.ID)
}

func (r *records) Delete(ctx context.Context, id int64) error {
	return r.s.execOne(ctx, r.s.sb.Delete("date_records").Where(sq.Eq{"id": id}), "record", id)
}
