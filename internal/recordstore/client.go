// Package recordstore is a thin typed client for the remote low-code data
// platform. The platform speaks an OData-flavored REST dialect: entity sets
// under /api/data, single records addressed as set(id), list queries through
// $filter, list responses wrapped in {"value": [...]}.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrNotFound is returned for 404 responses on single-record lookups.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable wraps circuit-breaker rejections and 5xx responses.
var ErrUnavailable = errors.New("record store unavailable")

type Config struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "recordstore",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A missing record is a valid answer, not a store failure.
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("record store breaker state changed")
		},
	})
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.BearerToken,
		httpc:   &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger,
	}
}

func (c *Client) recordURL(set, id string) string {
	return fmt.Sprintf("%s/api/data/%s(%s)", c.baseURL, set, url.PathEscape(id))
}

func (c *Client) setURL(set, filter string) string {
	u := fmt.Sprintf("%s/api/data/%s", c.baseURL, set)
	if filter != "" {
		u += "?$filter=" + url.QueryEscape(filter)
	}
	return u
}

// Get fetches a single record by id and unmarshals it into out.
func (c *Client) Get(ctx context.Context, set, id string, out any) error {
	body, err := c.do(ctx, http.MethodGet, c.recordURL(set, id), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s(%s): %w", set, id, err)
	}
	return nil
}

// List queries an entity set with an optional $filter expression and
// unmarshals the unwrapped value array into out (a pointer to a slice).
func (c *Client) List(ctx context.Context, set, filter string, out any) error {
	body, err := c.do(ctx, http.MethodGet, c.setURL(set, filter), nil)
	if err != nil {
		return err
	}
	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s list envelope: %w", set, err)
	}
	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("decode %s list: %w", set, err)
	}
	return nil
}

// Create posts a new record and unmarshals the created representation into
// out when out is non-nil.
func (c *Client) Create(ctx context.Context, set string, record, out any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", set, err)
	}
	body, err := c.do(ctx, http.MethodPost, c.setURL(set, ""), payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode created %s record: %w", set, err)
	}
	return nil
}

// Update patches an existing record with the given partial body.
func (c *Client) Update(ctx context.Context, set, id string, partial any) error {
	payload, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", set, err)
	}
	_, err = c.do(ctx, http.MethodPatch, c.recordURL(set, id), payload)
	return err
}

// Delete removes a record by id. Deleting an already-absent record returns
// ErrNotFound; callers that want idempotent deletes check for it.
func (c *Client) Delete(ctx context.Context, set, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.recordURL(set, id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			// Not a breaker-relevant failure; surfaced as a typed miss.
			return nil, ErrNotFound
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, rawURL, resp.StatusCode)
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("%s %s returned %d: %s", method, rawURL, resp.StatusCode, truncate(data, 256))
		}
		return data, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
