// Package client implements the browser side of the application as a
// headless Go component: a small REST client for the record service and
// a state controller that owns the list, filter, draft, and
// notification state a table-plus-modal UI renders from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/revathy-s/student-records-api/internal/types"
)

// Service is the record-service surface the controller drives. The
// controller depends only on this interface; tests substitute a fake.
type Service interface {
	// ListAll fetches every record.
	ListAll(ctx context.Context) ([]types.Record, error)

	// Create inserts a record and returns the service-assigned id.
	Create(ctx context.Context, rec types.Record) (int64, error)

	// Update replaces all non-id fields of the record matching id.
	Update(ctx context.Context, id int64, rec types.Record) error

	// Delete removes the record matching id.
	Delete(ctx context.Context, id int64) error
}

// API is the HTTP implementation of Service, speaking the record
// service's JSON wire surface.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI returns an API rooted at baseURL, e.g. "http://localhost:8080".
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// errorEnvelope matches the service's error response shape.
type errorEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// ListAll calls GET /users.
func (a *API) ListAll(ctx context.Context) ([]types.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/users", nil)
	if err != nil {
		return nil, fmt.Errorf("ListAll: build request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.asError("ListAll", resp)
	}

	var records []types.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("ListAll: decode response: %w", err)
	}
	return records, nil
}

// Create calls POST /users and returns the assigned id.
func (a *API) Create(ctx context.Context, rec types.Record) (int64, error) {
	resp, err := a.send(ctx, http.MethodPost, a.baseURL+"/users", rec)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, a.asError("Create", resp)
	}

	var body struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("Create: decode response: %w", err)
	}
	return body.UserID, nil
}

// Update calls PATCH /users/{id}.
func (a *API) Update(ctx context.Context, id int64, rec types.Record) error {
	resp, err := a.send(ctx, http.MethodPatch, fmt.Sprintf("%s/users/%d", a.baseURL, id), rec)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return a.asError("Update", resp)
	}
	return nil
}

// Delete calls DELETE /users/{id}.
func (a *API) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/users/%d", a.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("Delete: build request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return a.asError("Delete", resp)
	}
	return nil
}

func (a *API) send(ctx context.Context, method, url string, rec types.Record) (*http.Response, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return a.http.Do(req)
}

// asError turns a non-200 response into an error, preferring the
// service's own error message when the body carries one.
func (a *API) asError(op string, resp *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("%s: %s", op, envelope.Error)
	}
	return fmt.Errorf("%s: server returned %s", op, resp.Status)
}
