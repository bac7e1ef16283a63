package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitline/habitline/server/internal/model"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"validation", model.NewValidationError("name", "this field is required"), http.StatusBadRequest, "name"},
		{"wrapped date", fmt.Errorf("resolve: %w", model.ValidationError{Field: "start_date", Message: "bad", Cause: model.ErrInvalidDateFormat}), http.StatusBadRequest, "start_date"},
		{"conflict", model.NewConflictError("habit_date", "exists"), http.StatusConflict, "habit_date"},
		{"not found", model.NewNotFoundError("habit", "id 3 does not exist"), http.StatusNotFound, ""},
		{"forbidden", model.ForbiddenError{Resource: "habit"}, http.StatusForbidden, ""},
		{"unauthorized", model.AuthError{Message: "missing key"}, http.StatusUnauthorized, ""},
		{"exhausted", fmt.Errorf("habit: %w", model.ErrIdentifierExhausted), http.StatusInternalServerError, ""},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteDomainError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decode(t, rec)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, http.StatusText(tt.status), body.Error)
			if tt.field != "" {
				assert.Contains(t, body.Fields, tt.field)
			} else {
				assert.Empty(t, body.Fields)
			}
		})
	}
}

func TestWriteDomainError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(rec, errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal error", decode(t, rec).Message)
}

func TestWriteUnauthorized_SetsChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUnauthorized(rec, "missing key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}
