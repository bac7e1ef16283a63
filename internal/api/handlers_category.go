package api

import (
	"net/http"

	respond "github.com/habitline/habitline/server/internal/api/respond"
	"github.com/habitline/habitline/server/internal/api/validate"
	"github.com/habitline/habitline/server/internal/services"
)

// CategoryHandler provides HTTP transport for the caller's categories.
type CategoryHandler struct {
	svc *services.CategoryService
}

func NewCategoryHandler(svc *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// ListCategories GET /api/categories?q=
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	list, err := h.svc.List(r.Context(), me, r.URL.Query().Get("q"))
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, nonNil(list))
}

// CreateCategory POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	var in services.CategoryInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), me, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, c)
}

// GetCategory GET /api/categories/{categoryId}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "categoryId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	c, err := h.svc.Get(r.Context(), me, id)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// UpdateCategory PUT /api/categories/{categoryId}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "categoryId")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	var in services.CategoryInput
	if err := validate.DecodeJSON(w, r, &in); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), me, id, in)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// DeleteCategory DELETE /api/categories/{categoryId}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := validate.PathID(r, "categoryId")
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
