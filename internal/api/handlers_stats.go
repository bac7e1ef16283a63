package api

import (
	"net/http"
	"time"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/services"
)

type StatsHandler struct {
	svc   *services.StatsService
	today func() time.Time
}

func NewStatsHandler(svc *services.StatsService, today func() time.Time) *StatsHandler {
	return &StatsHandler{svc: svc, today: today}
}

// DailyStatistics GET /api/statistics/daily?period=|start_date=&end_date=
// A recognised period wins over explicit dates.
func (h *StatsHandler) DailyStatistics(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	days, err := h.svc.DailyStatistics(r.Context(), me, q.Get("period"), q.Get("start_date"), q.Get("end_date"), h.today())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(days))
}
