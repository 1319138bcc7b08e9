package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-curations/internal/curation"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/routes"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

const maxErrorBody = 64 << 10

// SearchResult mirrors the search envelope returned by the curations API.
type SearchResult struct {
	Hits struct {
		Total int                `json:"total"`
		Hits  []curation.Request `json:"hits"`
	} `json:"hits"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client; its timeout is kept as configured.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger overrides the logger used for request diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the curations REST API.
type Client struct {
	http      *http.Client
	routes    *routes.Set
	userAgent string
	token     string
	logger    interfaces.Logger
}

// New constructs a client for the configured API.
func New(cfg runtimeconfig.APIConfig, set *routes.Set, opts ...Option) (*Client, error) {
	if set == nil {
		return nil, ErrRoutesNotConfigured
	}
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		routes:    set,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		token:     strings.TrimSpace(cfg.Token),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LatestRequest returns the latest open curation request for a record, or nil
// when the record has none.
func (c *Client) LatestRequest(ctx context.Context, recordID string) (*curation.Request, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}
	endpoint, err := c.routes.Curations(url.Values{
		"expand":  {"1"},
		"topic":   {"record:" + recordID},
		"is_open": {"true"},
	})
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := c.do(ctx, "fetch", http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Hits.Hits) == 0 {
		return nil, nil
	}
	latest := result.Hits.Hits[0]
	return &latest, nil
}

// CreateRequest opens a curation request for the record.
func (c *Client) CreateRequest(ctx context.Context, recordID string) (*curation.Request, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}
	endpoint, err := c.routes.Curations(url.Values{"expand": {"1"}})
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"topic": map[string]string{"record": recordID},
	}

	var created curation.Request
	if err := c.do(ctx, "create", http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Resubmit posts to the resubmit action link of the request.
func (c *Client) Resubmit(ctx context.Context, request *curation.Request) (*curation.Request, error) {
	link, ok := request.ActionLink("resubmit")
	if !ok {
		return nil, ErrResubmitUnavailable
	}
	var updated curation.Request
	if err := c.do(ctx, "resubmit", http.MethodPost, link, map[string]any{}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Apply posts an arbitrary workflow action for a request.
func (c *Client) Apply(ctx context.Context, requestID, action string, comment string) (*curation.Request, error) {
	endpoint, err := c.routes.Action(requestID, action)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{}
	if strings.TrimSpace(comment) != "" {
		payload["payload"] = map[string]string{"content": comment}
	}
	var updated curation.Request
	if err := c.do(ctx, action, http.MethodPost, endpoint, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PublishingData returns the capabilities of the current user.
func (c *Client) PublishingData(ctx context.Context) (curation.ActorContext, error) {
	endpoint, err := c.routes.PublishingData()
	if err != nil {
		return curation.ActorContext{}, err
	}
	var actor curation.ActorContext
	if err := c.do(ctx, "publishing_data", http.MethodGet, endpoint, nil, &actor); err != nil {
		return curation.ActorContext{}, err
	}
	return actor, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger := logging.WithFields(c.logger, map[string]any{"op": op, "method": method, "url": endpoint})
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("client.request.failed", "error", err)
		return wrapTransportError(err, op)
	}
	defer resp.Body.Close()
	logger.Debug("client.request.completed", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, apiErr)
		}
		return wrapStatusError(apiErr, op)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return wrapDecodeError(err, op)
	}
	return nil
}
