// Package tavily wraps the Tavily web search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 3
)

var (
	// ErrNoAPIKey is returned when no Tavily API key is configured
	ErrNoAPIKey = errors.New("tavily api key not set")
)

// Config holds configuration for the Tavily client
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// Client calls the Tavily search API and normalizes its results.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewClient creates a Tavily client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponseItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searchResponse struct {
	Results []searchResponseItem `json:"results"`
}

// Search runs a web search and returns normalized results, capped at the
// configured maximum. Errors are returned to the caller; the orchestrator
// owns the degradation policy.
func (c *Client) Search(ctx context.Context, query string) ([]domain.RetrievedResult, error) {
	payload, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}

	results := make([]domain.RetrievedResult, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		if len(results) >= c.maxResults {
			break
		}
		title := item.Title
		if title == "" {
			title = "Web Result"
		}
		results = append(results, domain.RetrievedResult{
			Kind:       domain.ResultKindWeb,
			Content:    item.Content,
			Title:      title,
			URL:        item.URL,
			SourceType: domain.SourceTypeWeb,
			ChunkIndex: -1,
		})
	}

	return results, nil
}
