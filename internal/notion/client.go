package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"

	// MaxPageSize is the largest page size the query endpoint accepts
	MaxPageSize = 100

	// maxErrorBodySize bounds how much of an error response is kept for the log
	maxErrorBodySize = 4 * 1024
)

// Config holds the client settings
type Config struct {
	BaseURL           string
	Token             string
	Version           string
	PageSize          int
	RequestsPerSecond float64
}

// APIError is the error object returned by the API on non-2xx responses
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Client reads records from a source database
//
//go:generate mockgen -source=client.go -destination=../mocks/notion_client.go -package=mocks -mock_names=Client=MockNotionClient
type Client interface {
	// QueryDatabase returns one page of results starting at cursor (empty for the first page)
	QueryDatabase(ctx context.Context, databaseID string, cursor string) (*QueryResponse, error)

	// FetchAll follows the cursor chain and returns every live page of the database
	FetchAll(ctx context.Context, databaseID string, startCursor string) ([]Page, error)
}

type client struct {
	config     Config
	httpClient adapter.HTTPClient
	limiter    *rate.Limiter
}

// NewClient creates a new source API client
func NewClient(cfg Config, httpClient adapter.HTTPClient) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.PageSize <= 0 || cfg.PageSize > MaxPageSize {
		cfg.PageSize = MaxPageSize
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type queryRequest struct {
	PageSize    int    `json:"page_size,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

// QueryDatabase posts a query for one page of the database
func (c *client) QueryDatabase(ctx context.Context, databaseID string, cursor string) (*QueryResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrSourceUnavailable, err)
	}

	body, err := json.Marshal(queryRequest{
		PageSize:    c.config.PageSize,
		StartCursor: cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.config.BaseURL, databaseID)
	headers := map[string]string{
		"Authorization":  "Bearer " + c.config.Token,
		"Notion-Version": c.config.Version,
		"Content-Type":   "application/json",
	}

	resp, err := c.httpClient.PostResponse(ctx, url, headers, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, decodeAPIError(resp))
	}

	var result QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrSourceUnavailable, err)
	}
	if result.Results == nil {
		return nil, fmt.Errorf("%w: response has no results list", domain.ErrSourceUnavailable)
	}

	return &result, nil
}

// FetchAll queries page after page until has_more is false.
// Archived and trashed pages are dropped.
func (c *client) FetchAll(ctx context.Context, databaseID string, startCursor string) ([]Page, error) {
	var pages []Page
	cursor := startCursor
	seen := make(map[string]struct{})

	for batch := 1; ; batch++ {
		resp, err := c.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}

		dropped := 0
		for _, page := range *resp.Results {
			if page.Archived || page.InTrash {
				dropped++
				continue
			}
			pages = append(pages, page)
		}

		logger.DebugCtx(ctx, "Fetched source page batch",
			zap.Int("batch", batch),
			zap.Int("results", len(*resp.Results)),
			zap.Int("dropped", dropped),
			zap.Bool("hasMore", resp.HasMore),
		)

		if !resp.HasMore {
			return pages, nil
		}

		if resp.NextCursor == nil || *resp.NextCursor == "" {
			return nil, fmt.Errorf("%w: has_more without next_cursor", domain.ErrSourceUnavailable)
		}
		if _, ok := seen[*resp.NextCursor]; ok {
			return nil, fmt.Errorf("%w: cursor %s repeated", domain.ErrSourceUnavailable, *resp.NextCursor)
		}
		seen[*resp.NextCursor] = struct{}{}
		cursor = *resp.NextCursor
	}
}

// decodeAPIError reads the error object of a failed response, falling back to the status code
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var decoded APIError
	if err := json.Unmarshal(data, &decoded); err == nil && decoded.Code != "" {
		apiErr.Code = decoded.Code
		apiErr.Message = decoded.Message
	}

	return apiErr
}
