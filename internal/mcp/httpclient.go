package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/coachplan/internal/models"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the CoachPlan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// getJSON fetches path and decodes the body into v. A 404 maps to
// storage.ErrNotFound.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.getJSON(ctx, "/api/v1/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context, clientID string) ([]models.PlanSummary, error) {
	params := url.Values{}
	if clientID != "" {
		params.Set("client_id", clientID)
	}
	var plans []models.PlanSummary
	if err := c.getJSON(ctx, "/api/v1/plans", params, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *HTTPClient) GetPlan(ctx context.Context, id uuid.UUID) (plan.WorkoutPlan, error) {
	var p plan.WorkoutPlan
	if err := c.getJSON(ctx, "/api/v1/plans/"+id.String(), nil, &p); err != nil {
		return plan.WorkoutPlan{}, err
	}
	return p, nil
}

// ToolNames builds the id to name map from the tool listing.
func (c *HTTPClient) ToolNames(ctx context.Context) (map[string]string, error) {
	var tools []models.Tool
	if err := c.getJSON(ctx, "/api/v1/tools", nil, &tools); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tools))
	for _, t := range tools {
		names[t.ID] = t.Name
	}
	return names, nil
}

func (c *HTTPClient) GetStats(ctx context.Context) (*storage.Stats, error) {
	var stats storage.Stats
	if err := c.getJSON(ctx, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
