package api

import (
	"net/http"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/api/validate"
	"github.com/habitline/habitline/server/internal/services"
)

// RecordHandler provides HTTP transport for per-day completion records.
type RecordHandler struct {
	svc *services.RecordService
}

func NewRecordHandler(svc *services.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

// ListRecords GET /api/records?habit_id=&start_date=&end_date=
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	habitID, err := validate.QueryID(r, "habit_id")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.svc.List(r.Context(), me, services.RecordFilter{
		HabitID:   habitID,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(list))
}

// CreateRecord POST /api/records
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.RecordInput
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

// GetRecord GET /api/records/{recordId}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "recordId")
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

// UpdateRecord PUT /api/records/{recordId}
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "recordId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	var in services.RecordInput
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

// DeleteRecord DELETE /api/records/{recordId}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "recordId")
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
