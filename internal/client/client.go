// Package client talks to a running budgetdash daemon.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/budgetdash/internal/daemon"
	"github.com/theirongolddev/budgetdash/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// ErrUnavailable indicates the daemon could not be reached.
var ErrUnavailable = errors.New("client: daemon unavailable")

// APIError is a rejected request. Validation failures unwrap to the
// matching model error, so errors.Is works across the wire.
type APIError struct {
	Status  int
	Kind    string
	Field   string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daemon: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Kind {
	case "negative_amount":
		return model.ErrNegativeAmount
	case "unknown_category":
		return model.ErrUnknownCategory
	case "unknown_field":
		return model.ErrUnknownField
	case "empty_period":
		return model.ErrEmptyPeriod
	case "invalid_amount":
		return model.ErrInvalidAmount
	}
	return nil
}

// Client calls the daemon HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the daemon at addr ("host:port" or a full URL).
func New(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{},
	}
}

// Health reports whether the daemon answers its health check.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

// Status returns daemon counters.
func (c *Client) Status(ctx context.Context) (*daemon.Status, error) {
	var st daemon.Status
	if err := c.getJSON(ctx, "/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Record returns the period's record and summary.
func (c *Client) Record(ctx context.Context, period model.PeriodKey) (*daemon.RecordView, error) {
	var v daemon.RecordView
	if err := c.getJSON(ctx, "/v1/records/"+url.PathEscape(string(period)), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetField writes one field. value is passed through as typed.
func (c *Client) SetField(ctx context.Context, period model.PeriodKey, field, value string) (*daemon.RecordView, error) {
	path := fmt.Sprintf("/v1/records/%s/fields/%s", url.PathEscape(string(period)), url.PathEscape(field))
	body, err := c.do(ctx, http.MethodPut, path, daemon.SetFieldRequest{Value: value})
	if err != nil {
		return nil, err
	}

	var v daemon.RecordView
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("client: parsing record: %w", err)
	}
	return &v, nil
}

// SetLineItems replaces the period's line items.
func (c *Client) SetLineItems(ctx context.Context, period model.PeriodKey, items []daemon.LineItemInput) ([]daemon.LineItemView, error) {
	body, err := c.do(ctx, http.MethodPut, "/v1/records/"+url.PathEscape(string(period))+"/line-items", items)
	if err != nil {
		return nil, err
	}

	var out []daemon.LineItemView
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("client: parsing line items: %w", err)
	}
	return out, nil
}

// History returns one row per period the daemon has seen.
func (c *Client) History(ctx context.Context) ([]daemon.HistoryRowView, error) {
	var rows []daemon.HistoryRowView
	if err := c.getJSON(ctx, "/v1/history", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Export copies the period's CSV export to w.
func (c *Client) Export(ctx context.Context, period model.PeriodKey, w io.Writer) error {
	body, err := c.do(ctx, http.MethodGet, "/v1/export/"+url.PathEscape(string(period)), nil)
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("client: parsing %s: %w", path, err)
	}
	return nil
}

// do performs a request and returns the response body for 2xx responses.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("client: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var er daemon.ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			apiErr.Kind = er.Kind
			apiErr.Field = er.Field
			apiErr.Message = er.Error
		}
		return nil, apiErr
	}
	return body, nil
}
