package api

import (
	"context"
	"net/http"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/api/validate"
	"github.com/habitline/habitline/server/internal/model"
	"github.com/habitline/habitline/server/internal/services"
)

type UserHandler struct {
	svc          *services.UserService
	achievements *services.AchievementService
}

func NewUserHandler(svc *services.UserService, achievements *services.AchievementService) *UserHandler {
	return &UserHandler{svc: svc, achievements: achievements}
}

// GetMe GET /api/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	respond.WriteJSON(w, http.StatusOK, me)
}

// PatchMe PATCH /api/me
func (h *UserHandler) PatchMe(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.UserInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	u, err := h.svc.Update(r.Context(), me, me.ID, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}

// ListUsers GET /api/users?q=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(users))
}

// CreateUser POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	u, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, u)
}

// GetUser GET /api/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := validate.PathID(r, "userId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}

// PutUser PUT /api/users/{userId}. Name is required; age is cleared when omitted.
func (h *UserHandler) PutUser(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "userId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	var in services.UserInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if in.Name == nil {
		respond.WriteDomainError(w, model.NewValidationError("name", "this field is required"))
		return
	}
	u, err := h.svc.Replace(r.Context(), me, id, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}

// DeleteUser DELETE /api/users/{userId}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "userId")
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

// ListUserAchievements GET /api/users/{userId}/achievements
func (h *UserHandler) ListUserAchievements(w http.ResponseWriter, r *http.Request) {
	id, err := validate.PathID(r, "userId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	list, err := h.achievements.ListForUser(r.Context(), id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(list))
}

// AwardAchievement PUT /api/users/{userId}/achievements/{achievementId}
func (h *UserHandler) AwardAchievement(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.achievements.Award)
}

// RevokeAchievement DELETE /api/users/{userId}/achievements/{achievementId}
func (h *UserHandler) RevokeAchievement(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.achievements.Revoke)
}

func (h *UserHandler) membership(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller *model.User, userID, achievementID int64) error) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	achievementID, err := validate.PathID(r, "achievementId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if err := op(r.Context(), me, userID, achievementID); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
