package newsdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pep299/lessonfeed/internal/apperror"
)

const DefaultBaseURL = "https://newsdata.io/api/1"

// Client handles NewsData.io API operations
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new NewsData.io client
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Result is one article as returned by the latest endpoint
type Result struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	SourceName  string   `json:"source_name"`
	Category    []string `json:"category"`
	ImageURL    *string  `json:"image_url"`
	PubDate     string   `json:"pubDate"`
}

type latestResponse struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Results      json.RawMessage `json:"results"`
}

type errorResults struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Latest fetches the latest English articles with images for a provider category
func (c *Client) Latest(ctx context.Context, category string, size int) ([]Result, error) {
	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("language", "en")
	query.Set("category", category)
	query.Set("image", "1")
	query.Set("size", strconv.Itoa(size))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/latest?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.Upstream("NewsData API request failed", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, apperror.Upstream("NewsData API request failed", fmt.Errorf("reading response body: %w", err))
	}

	var latest latestResponse
	if err := json.Unmarshal(body, &latest); err != nil {
		return nil, apperror.Upstream("NewsData API error", fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err))
	}

	if latest.Status != "success" {
		message := "NewsData API error"
		var errResults errorResults
		if json.Unmarshal(latest.Results, &errResults) == nil && errResults.Message != "" {
			message = errResults.Message
		}
		return nil, apperror.Upstream(message, fmt.Errorf("status %d, code %q", resp.StatusCode, errResults.Code))
	}

	var results []Result
	if len(latest.Results) > 0 && string(latest.Results) != "null" {
		if err := json.Unmarshal(latest.Results, &results); err != nil {
			return nil, apperror.Upstream("NewsData API error", fmt.Errorf("decoding results: %w", err))
		}
	}

	return results, nil
}

// redactKey keeps the API key out of transport errors, which embed the request URL
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error
	if apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}
	return fmt.Errorf("%s [redacted url]: %w", urlErr.Op, urlErr.Err)
}
