package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/habitline/habitline/server/internal/core/daterange"
	"github.com/habitline/habitline/server/internal/model"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// PathID returns the positive integer path variable name.
func PathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return 0, model.NewValidationError(name, "this field is required")
	}
	return positive(name, raw)
}

// QueryID parses an optional positive integer query parameter.
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := positive(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryBool parses an optional boolean query parameter; absent means false.
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.NewValidationError(name, "must be a boolean")
	}
	return b, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter, returning def when absent.
func QueryDate(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	return daterange.ParseDate(name, raw)
}

// DecodeJSON decodes a single JSON object into dst. Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewValidationError("body", "request body is required")
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return model.NewValidationError("body", fmt.Sprintf("request body exceeds %d bytes", MaxBodyBytes))
		}
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			return model.NewValidationError(te.Field, "must be "+te.Type.String())
		}
		return model.ValidationError{Field: "body", Message: "invalid json", Cause: err}
	}
	if dec.More() {
		return model.NewValidationError("body", "request body must contain a single JSON object")
	}
	return nil
}

func positive(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}
