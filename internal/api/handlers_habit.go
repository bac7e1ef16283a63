package api

import (
	"net/http"
	"time"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/api/validate"
	"github.com/habitline/habitline/server/internal/services"
)

// HabitHandler provides HTTP transport for habits and their weekly grids.
type HabitHandler struct {
	svc   *services.HabitService
	stats *services.StatsService
	today func() time.Time
}

func NewHabitHandler(svc *services.HabitService, stats *services.StatsService, today func() time.Time) *HabitHandler {
	return &HabitHandler{svc: svc, stats: stats, today: today}
}

// ListHabits GET /api/habits?include_archived=&q=
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	archived, err := validate.QueryBool(r, "include_archived")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	list, err := h.svc.List(r.Context(), me, archived, r.URL.Query().Get("q"))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(list))
}

// CreateHabit POST /api/habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.HabitInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out, err := h.svc.Create(r.Context(), me, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetHabit GET /api/habits/{habitId}
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "habitId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out, err := h.svc.Get(r.Context(), me, id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateHabit PUT /api/habits/{habitId}
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "habitId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	var in services.HabitInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out, err := h.svc.Update(r.Context(), me, id, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteHabit DELETE /api/habits/{habitId}
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "habitId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), me, id); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WeeklyStatus GET /api/habits/weekly-status and /api/habits/{habitId}/weekly-status.
// reference_date defaults to today in the configured zone.
func (h *HabitHandler) WeeklyStatus(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	var habitID *int64
	if _, scoped := muxVar(r, "habitId"); scoped {
		id, err := validate.PathID(r, "habitId")
		if err != nil {
			respond.WriteDomainError(w, err)
			return
		}
		habitID = &id
	}
	ref, err := validate.QueryDate(r, "reference_date", h.today())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	weeks, err := h.stats.WeeklyStatus(r.Context(), me, habitID, ref)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(weeks))
}
