package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"Aria_AI/internal/config"
	"Aria_AI/pkg/logger"
	"Aria_AI/pkg/retry"
)

// snippetLimit caps how much of each result's content is kept.
const snippetLimit = 800

// ErrNoAPIKey is returned when search runs without a configured key.
var ErrNoAPIKey = errors.New("search API key is not configured")

// Result is one web search hit.
type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	PublishedDate string `json:"published_date,omitempty"`
}

// Response is a completed web search.
type Response struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// Client calls the Tavily search API with bounded retries.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	policy     retry.Policy
	log        *logger.Logger
}

// NewClient creates a Client from the search configuration.
func NewClient(cfg *config.SearchConfig, log *logger.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		policy:     retry.Policy{MaxAttempts: cfg.MaxRetries + 1, Backoff: time.Second},
		log:        log,
	}
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResult struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date"`
}

type tavilyResponse struct {
	Answer  string         `json:"answer"`
	Results []tavilyResult `json:"results"`
}

// Search runs one query, retrying transient failures. It fails when no
// API key is configured; the caller decides whether that is fatal.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:            c.apiKey,
		Query:             query,
		MaxResults:        c.maxResults,
		SearchDepth:       "advanced",
		IncludeAnswer:     true,
		IncludeRawContent: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	var parsed tavilyResponse
	err = c.policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn(fmt.Sprintf("search request failed: %v", err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := fmt.Errorf("search API returned %d: %s", resp.StatusCode, payload)
			c.log.Warn(err.Error())
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&parsed)
	})
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	out := &Response{Query: query, Answer: parsed.Answer}
	for _, r := range parsed.Results {
		snippet := r.Content
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit]
		}
		out.Results = append(out.Results, Result{
			URL:           r.URL,
			Title:         r.Title,
			Snippet:       snippet,
			PublishedDate: r.PublishedDate,
		})
	}
	return out, nil
}
