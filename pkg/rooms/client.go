package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultRequestTimeout = 10 * time.Second

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRequestTimeout bounds each backend call
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client implements Store against the collaboration backend's REST API
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
	timeout   time.Duration
}

// NewClient creates a room store client for the given backend endpoint.
// The secret key authenticates this service to the backend.
func NewClient(baseURL, secretKey string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("backend secret key is required")
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		timeout:   defaultRequestTimeout,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateRoom creates a new room record. Never retried internally: a
// retry after an ambiguous failure risks a duplicate room.
func (c *Client) CreateRoom(ctx context.Context, params CreateRoomParams) (*Room, error) {
	if params.ID == "" {
		return nil, &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	var room Room
	if err := c.do(ctx, http.MethodPost, "/v2/rooms", params, &room); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) && conflict.RoomID == "" {
			conflict.RoomID = params.ID
		}
		return nil, err
	}
	return &room, nil
}

// GetRoom fetches a room record. Idempotent, so one internal retry is
// attempted on transient failure.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	if roomID == "" {
		return nil, &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	var room Room
	err := c.do(ctx, http.MethodGet, "/v2/rooms/"+roomID, nil, &room)
	if IsUnavailable(err) && ctx.Err() == nil {
		err = c.do(ctx, http.MethodGet, "/v2/rooms/"+roomID, nil, &room)
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom merges the supplied fields into the room record. Keys absent
// from the update are untouched upstream.
func (c *Client) UpdateRoom(ctx context.Context, roomID string, update RoomUpdate) (*Room, error) {
	if roomID == "" {
		return nil, &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	var room Room
	if err := c.do(ctx, http.MethodPost, "/v2/rooms/"+roomID, update, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room record. Not retried beyond the single attempt.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}
	return c.do(ctx, http.MethodDelete, "/v2/rooms/"+roomID, nil, nil)
}

// do executes one backend request and decodes the response into dest.
// Status codes map onto the package error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	op := method + " " + path

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{RoomID: roomIDFromPath(path)}
	case resp.StatusCode == http.StatusConflict:
		return &ConflictError{RoomID: roomIDFromPath(path)}
	case resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{Field: "request", Reason: readErrorBody(resp.Body)}
	case resp.StatusCode >= 500:
		return &UnavailableError{Op: op, Err: fmt.Errorf("backend returned %d", resp.StatusCode)}
	case resp.StatusCode >= 300:
		return fmt.Errorf("unexpected backend status %d for %s", resp.StatusCode, op)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// roomIDFromPath recovers the room id from a /v2/rooms/{id} path. Create
// requests have no id segment and yield an empty string.
func roomIDFromPath(path string) string {
	const prefix = "/v2/rooms/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.TrimPrefix(path, prefix)
}

// readErrorBody extracts a short error message from a response body
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(data) == 0 {
		return "rejected by backend"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
