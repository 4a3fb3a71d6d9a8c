// Package api binds the domain.Store contract to the assistant backend
// over HTTP. Requests run through a circuit breaker so a dead backend
// fails fast instead of hanging every page.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker guarding the backend.
type BreakerConfig struct {
	// MaxRequests allowed through in half-open state.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state.
	Interval time.Duration
	// Timeout is the period of the open state.
	Timeout time.Duration
	// FailureThreshold is the consecutive transport failures that trip
	// the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible defaults for a local backend.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Client implements domain.Store against the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*rawResponse]
	logger     *slog.Logger
}

type rawResponse struct {
	status int
	body   []byte
}

// NewClient creates a store client for the given base URL, for example
// "http://localhost:5000".
func NewClient(baseURL string, timeout time.Duration, breakerCfg BreakerConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "daybook-api",
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("backend circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[*rawResponse](settings),
		logger:     logger,
	}
}

// do executes one request through the breaker. Only transport-level
// failures count against the breaker; HTTP error statuses are returned
// to the caller for classification.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*rawResponse, error) {
	resp, err := c.breaker.Execute(func() (*rawResponse, error) {
		var body io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		return &rawResponse{status: res.StatusCode, body: data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", domain.ErrTransport)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	return resp, nil
}

// remoteError extracts the backend's error message for a non-2xx
// response.
func remoteError(resp *rawResponse) string {
	var er errorResponse
	if err := json.Unmarshal(resp.body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return http.StatusText(resp.status)
}

func decode(resp *rawResponse, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", domain.ErrTransport, err)
	}
	return nil
}

// Classify sends free text to the natural-language parser.
func (c *Client) Classify(ctx context.Context, text string) ([]domain.Item, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/parse", parseRequest{Input: text})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrClassificationFailed, remoteError(resp))
	}
	var body itemListResponse
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrClassificationFailed, remoteError(resp))
	}
	return toDomainItems(body.Items), nil
}

// FetchItems returns the flat collection, optionally filtered by type.
func (c *Client) FetchItems(ctx context.Context, typeFilter domain.ItemType) ([]domain.Item, error) {
	path := "/api/items"
	if typeFilter != "" {
		path += "?type=" + url.QueryEscape(string(typeFilter))
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body itemListResponse
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	return toDomainItems(body.Items), nil
}

// FetchGrouped returns the pre-bucketed list for one horizon.
func (c *Client) FetchGrouped(ctx context.Context, horizon domain.Horizon) ([]domain.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/items/grouped?view="+url.QueryEscape(string(horizon)), nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body groupedResponse
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	return toDomainItems(body.Items), nil
}

// FetchGroupedAll returns the composite bucket map.
func (c *Client) FetchGroupedAll(ctx context.Context) (domain.GroupedItems, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/items/grouped?view=all", nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body groupedAllResponse
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	grouped := make(domain.GroupedItems, len(body.Items))
	for bucket, dtos := range body.Items {
		grouped[domain.Horizon(bucket)] = toDomainItems(dtos)
	}
	return grouped, nil
}

// Search runs a semantic search. The returned order is the backend's
// rank order and must be preserved by callers.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Item, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/search", searchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body itemListResponse
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	return toDomainItems(body.Items), nil
}

// UpdateItem applies partial field changes.
func (c *Client) UpdateItem(ctx context.Context, id string, patch domain.Patch) (domain.Item, error) {
	payload := map[string]any{}
	if patch.Title != nil {
		payload["title"] = *patch.Title
	}
	if patch.Description != nil {
		payload["description"] = *patch.Description
	}
	if patch.Datetime != nil {
		payload["datetime"] = patch.Datetime.Format(time.RFC3339)
	}
	if patch.Priority != nil {
		payload["priority"] = string(*patch.Priority)
	}
	if patch.Completed != nil {
		payload["completed"] = *patch.Completed
	}

	resp, err := c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(id), payload)
	if err != nil {
		return domain.Item{}, err
	}
	switch resp.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Item{}, fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	default:
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body itemResponse
	if err := decode(resp, &body); err != nil {
		return domain.Item{}, err
	}
	return body.Item.toDomain(), nil
}

// DeleteItem removes an item from the store.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	switch resp.status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	default:
		return fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
}

// SyncExternal triggers a calendar/email pull on the backend.
func (c *Client) SyncExternal(ctx context.Context) (domain.SyncReport, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/sync", nil)
	if err != nil {
		return domain.SyncReport{}, err
	}
	if resp.status != http.StatusOK {
		return domain.SyncReport{}, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body syncResponse
	if err := decode(resp, &body); err != nil {
		return domain.SyncReport{}, err
	}
	return domain.SyncReport{Calendar: body.Synced.Calendar, Email: body.Synced.Email}, nil
}

// RenderDayTimeline requests the day-view image for a date.
func (c *Client) RenderDayTimeline(ctx context.Context, date time.Time) (domain.TimelineResource, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/visualize/day", visualizeRequest{Date: date.Format("2006-01-02")})
	if err != nil {
		return domain.TimelineResource{}, err
	}
	if resp.status != http.StatusOK {
		return domain.TimelineResource{}, fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body visualizeResponse
	if err := decode(resp, &body); err != nil {
		return domain.TimelineResource{}, err
	}
	if !body.Success || body.ImageURL == "" {
		return domain.TimelineResource{}, fmt.Errorf("%w: timeline rendering failed", domain.ErrTransport)
	}
	return domain.TimelineResource{Date: date, URL: body.ImageURL}, nil
}

// Health checks backend reachability.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("%w: %s", domain.ErrTransport, remoteError(resp))
	}
	var body healthResponse
	if err := decode(resp, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

var _ domain.Store = (*Client)(nil)
