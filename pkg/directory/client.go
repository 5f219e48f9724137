package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultLookupTimeout = 5 * time.Second
	defaultCacheSize     = 1024
)

// Client implements Service against a REST directory API. Resolved
// records are cached in per-key LRUs so hot users skip the network;
// misses are fetched in a single batched call, never one call per id.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration

	byID    *lru.Cache[string, UserRecord]
	byEmail *lru.Cache[string, UserRecord]
}

// ClientOption configures a directory client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLookupTimeout bounds each directory call
func WithLookupTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a directory client for the given API endpoint
func NewClient(baseURL, apiKey string, cacheSize int, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("directory base URL is required")
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	byID, err := lru.New[string, UserRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create id cache: %w", err)
	}
	byEmail, err := lru.New[string, UserRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create email cache: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: defaultLookupTimeout,
		byID:    byID,
		byEmail: byEmail,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LookupByIDs fetches records for the given user ids. The result set is
// unordered and contains at most one record per matching id.
func (c *Client) LookupByIDs(ctx context.Context, ids []string) ([]UserRecord, error) {
	return c.lookup(ctx, "user_id", ids, c.byID, func(u UserRecord) string { return u.ID })
}

// LookupByEmails fetches records for the given email addresses
func (c *Client) LookupByEmails(ctx context.Context, emails []string) ([]UserRecord, error) {
	return c.lookup(ctx, "email_address", emails, c.byEmail, func(u UserRecord) string { return u.Email })
}

func (c *Client) lookup(ctx context.Context, param string, keys []string, cache *lru.Cache[string, UserRecord], keyOf func(UserRecord) string) ([]UserRecord, error) {
	if len(keys) == 0 {
		return []UserRecord{}, nil
	}

	var (
		found  []UserRecord
		misses []string
		seen   = make(map[string]bool, len(keys))
	)
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		if record, ok := cache.Get(key); ok {
			found = append(found, record)
			continue
		}
		misses = append(misses, key)
	}

	if len(misses) == 0 {
		return found, nil
	}

	fetched, err := c.fetch(ctx, param, misses)
	if err != nil {
		return nil, err
	}
	for _, record := range fetched {
		c.byID.Add(record.ID, record)
		if record.Email != "" {
			c.byEmail.Add(record.Email, record)
		}
	}

	return append(found, fetched...), nil
}

// fetch performs one batched directory call for all missing keys
func (c *Client) fetch(ctx context.Context, param string, keys []string) ([]UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	values := url.Values{}
	for _, key := range keys {
		values.Add(param, key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/users?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned %d", resp.StatusCode)
	}

	var payload struct {
		Data []UserRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}
	return payload.Data, nil
}
