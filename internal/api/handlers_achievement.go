package api

import (
	"net/http"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/api/validate"
	"github.com/habitline/habitline/server/internal/services"
)

// AchievementHandler serves the shared achievement catalogue.
type AchievementHandler struct {
	svc *services.AchievementService
}

func NewAchievementHandler(svc *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{svc: svc}
}

func (h *AchievementHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(list))
}

func (h *AchievementHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var in services.AchievementInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *AchievementHandler) GetAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := validate.PathID(r, "achievementId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *AchievementHandler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := validate.PathID(r, "achievementId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	var in services.AchievementInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	out, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *AchievementHandler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := validate.PathID(r, "achievementId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
