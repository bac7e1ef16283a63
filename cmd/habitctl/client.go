package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiError is the decoded error body of a non-2xx response.
type apiError struct {
	Status  int                 `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("http %d: %s", e.Status, e.Message)
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

func isStatus(err error, status int) bool {
	var ae *apiError
	return errors.As(err, &ae) && ae.Status == status
}

type client struct {
	http *resty.Client
}

func newClient(opts *options) (*client, error) {
	if opts.key == "" {
		return nil, errors.New("--key (or HABITCTL_API_KEY) is required")
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(opts.api, "/")).
		SetAuthToken(opts.key).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
	return &client{http: c}, nil
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
// The raw body is returned for --json output.
func (c *client) do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	raw := resp.Body()
	if resp.IsError() {
		ae := &apiError{Status: resp.StatusCode()}
		if jerr := json.Unmarshal(raw, ae); jerr != nil || ae.Message == "" {
			ae.Message = strings.TrimSpace(string(raw))
		}
		ae.Status = resp.StatusCode()
		return raw, ae
	}
	if out != nil && resp.StatusCode() != http.StatusNoContent {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return raw, nil
}

// Wire shapes decoded by the CLI.

type habit struct {
	ID           int64  `json:"id"`
	CategoryID   *int64 `json:"category_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	Archived     bool   `json:"archived"`
	Slug         string `json:"slug"`
}

type dayStatus struct {
	Date     string `json:"date"`
	IsDone   bool   `json:"is_done"`
	RecordID *int64 `json:"record_id"`
	Quantity *int   `json:"quantity"`
}

type habitWeek struct {
	habit
	Week []dayStatus `json:"week"`
}

type record struct {
	ID        int64  `json:"id"`
	HabitID   int64  `json:"habit_id"`
	HabitDate string `json:"habit_date"`
	IsDone    bool   `json:"is_done"`
	Quantity  *int   `json:"quantity"`
	Name      string `json:"name"`
}

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type dailyTotal struct {
	Date           string `json:"date"`
	CompletedCount int    `json:"completed_count"`
}
