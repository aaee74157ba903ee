package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockpile/internal/api"
	"stockpile/internal/inventory"
)

const defaultHTTPTimeout = 10 * time.Second

// Client talks to a running stockpile daemon over its HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs a client for the daemon bound at bind, a host:port pair or a
// full URL.
func New(bind string, opts ...Option) *Client {
	base := strings.TrimSpace(bind)
	if base != "" && !strings.Contains(base, "://") {
		base = "http://" + base
	}
	client := &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// StatusError carries the HTTP status and daemon-reported message for a
// failed request.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("daemon returned status %d", e.StatusCode)
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.get(ctx, "/api/status", nil, &status)
	return status, err
}

// ListItems fetches stock items matching the filter.
func (c *Client) ListItems(ctx context.Context, opts inventory.ListOptions) ([]api.StockItem, error) {
	query := url.Values{}
	if opts.Location != "" {
		query.Set("location", opts.Location)
	}
	if opts.Material != "" {
		query.Set("material", opts.Material)
	}
	if opts.IncludeRetired {
		query.Set("all", "1")
	}
	var resp api.ItemListResponse
	if err := c.get(ctx, "/api/items", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetItem resolves the active record for an identifier.
func (c *Client) GetItem(ctx context.Context, jaID string) (*api.StockItem, error) {
	var resp api.ItemResponse
	if err := c.get(ctx, "/api/items/"+url.PathEscape(jaID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// History fetches the lineage chain for an identifier, oldest first.
func (c *Client) History(ctx context.Context, jaID string) ([]api.StockItem, error) {
	var resp api.HistoryResponse
	if err := c.get(ctx, "/api/items/"+url.PathEscape(jaID)+"/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// Moves fetches the audit log for an identifier, oldest first.
func (c *Client) Moves(ctx context.Context, jaID string) ([]api.MoveRecord, error) {
	var resp api.MoveListResponse
	if err := c.get(ctx, "/api/items/"+url.PathEscape(jaID)+"/moves", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Moves, nil
}

// CreateItem registers new stock.
func (c *Client) CreateItem(ctx context.Context, req api.ItemCreateRequest) (*api.StockItem, error) {
	var resp api.ItemResponse
	if err := c.post(ctx, "/api/items", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// MoveItem relocates a single identifier immediately.
func (c *Client) MoveItem(ctx context.Context, req api.MoveRequest) (*api.StockItem, error) {
	var resp api.ItemResponse
	path := "/api/items/" + url.PathEscape(req.JAID) + "/move"
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// ShortenItem cuts the identified piece down.
func (c *Client) ShortenItem(ctx context.Context, jaID string, req api.ShortenRequest) (*api.ShortenResponse, error) {
	var resp api.ShortenResponse
	path := "/api/items/" + url.PathEscape(jaID) + "/shorten"
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateMoves runs advisory validation over a batch.
func (c *Client) ValidateMoves(ctx context.Context, req api.BatchMoveRequest) (api.BatchValidationResponse, error) {
	var resp api.BatchValidationResponse
	err := c.post(ctx, "/api/moves/validate", req, &resp)
	return resp, err
}

// ExecuteMoves submits a batch for execution. When the daemon rejects the
// batch on validation, the returned validation response carries the problem
// list and result is nil.
func (c *Client) ExecuteMoves(ctx context.Context, req api.BatchMoveRequest) (*api.BatchMoveResponse, *api.BatchValidationResponse, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/api/moves", nil, req)
	if err != nil {
		return nil, nil, err
	}
	switch status {
	case http.StatusOK:
		var result api.BatchMoveResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, nil, fmt.Errorf("decode batch result: %w", err)
		}
		return &result, nil, nil
	case http.StatusUnprocessableEntity:
		var validation api.BatchValidationResponse
		if err := json.Unmarshal(body, &validation); err != nil {
			return nil, nil, fmt.Errorf("decode validation result: %w", err)
		}
		return nil, &validation, nil
	default:
		return nil, nil, decodeStatusError(status, body)
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	body, status, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return decodeStatusError(status, body)
	}
	if dst == nil {
		return nil
	}
	return json.Unmarshal(body, dst)
}

func (c *Client) post(ctx context.Context, path string, payload, dst any) error {
	body, status, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return decodeStatusError(status, body)
	}
	if dst == nil {
		return nil
	}
	return json.Unmarshal(body, dst)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("contact daemon: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func decodeStatusError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &StatusError{StatusCode: status, Message: payload.Error}
	}
	return &StatusError{StatusCode: status}
}
