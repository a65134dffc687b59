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
	"sync"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response from the report service.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// TokenStore keeps the bearer session between requests.
type TokenStore interface {
	Tokens(ctx context.Context) (domain.Session, error)
	SetTokens(ctx context.Context, session domain.Session) error
	ClearTokens(ctx context.Context) error
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenStore
	mu      sync.Mutex
}

func New(cfg Config, tokens TokenStore) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base, http: httpClient, tokens: tokens}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// anonymous requests neither carry a bearer token nor trigger a refresh
	anonymous bool
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// call sends r and decodes a JSON response into out (when non-nil). A 401 on an
// authenticated request triggers exactly one token refresh and one retry.
func (c *Client) call(ctx context.Context, r request, out any) error {
	payload, err := encode(r.body)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s request: %w", r.method, r.path, err)
	}

	body, err := c.send(ctx, r, payload)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && !r.anonymous {
		refreshed, refreshErr := c.refresh(ctx)
		if refreshErr != nil {
			zerolog.Ctx(ctx).Warn().Err(refreshErr).Msg("token refresh failed, clearing session")
			c.clear(ctx)
			return err
		}
		if !refreshed {
			return err
		}
		body, err = c.send(ctx, r, payload)
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			c.clear(ctx)
		}
	}
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, r request, payload []byte) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s request: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.anonymous {
		if err := c.authorize(ctx, req); err != nil {
			return nil, err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", r.method, r.path, err)
	}
	logger.Debug().Str("method", r.method).Str("path", r.path).Int("status", resp.StatusCode).Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: r.method, Path: r.path, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	session, err := c.tokens.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}
	return nil
}

// refresh exchanges the stored refresh token for a new access token. It
// reports false without error when there is no refresh token to use.
func (c *Client) refresh(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.tokens.Tokens(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if session.RefreshToken == "" {
		return false, nil
	}

	payload, err := encode(api.RefreshRequest{Refresh: session.RefreshToken})
	if err != nil {
		return false, err
	}
	body, err := c.send(ctx, request{method: http.MethodPost, path: "/auth/refresh/", anonymous: true}, payload)
	if err != nil {
		return false, err
	}

	var res api.RefreshResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return false, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if res.Access == "" {
		return false, fmt.Errorf("refresh response carried no access token")
	}

	session.AccessToken = res.Access
	if err := c.tokens.SetTokens(ctx, session); err != nil {
		return false, fmt.Errorf("failed to store refreshed token: %w", err)
	}
	return true, nil
}

func (c *Client) clear(ctx context.Context) {
	if err := c.tokens.ClearTokens(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to clear session")
	}
}

func encode(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

// decodeList accepts both a paginated {"results": [...]} envelope and a bare array.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []T{}, nil
	}
	return page.Results, nil
}

func (c *Client) list(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, request{method: http.MethodGet, path: path, query: query}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// MemoryTokenStore keeps the session for the lifetime of the process.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	session domain.Session
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Tokens(_ context.Context) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, nil
}

func (m *MemoryTokenStore) SetTokens(_ context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.RefreshToken == "" {
		session.RefreshToken = m.session.RefreshToken
	}
	m.session = session
	return nil
}

func (m *MemoryTokenStore) ClearTokens(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = domain.Session{}
	return nil
}
