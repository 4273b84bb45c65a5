package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"location-info-service/internal/models"
)

// NewsClient fetches top headlines for a country. The provider is optional;
// the service is wired only when a news API key is configured.
type NewsClient interface {
	GetTopHeadlines(ctx context.Context, alpha2Code string) ([]models.NewsItem, error)
}

type NewsAPIClient struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

func NewNewsAPIClient(apiKey, apiURL string, timeout time.Duration) (*NewsAPIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}

	return &NewsAPIClient{
		apiKey:  apiKey,
		apiURL:  apiURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (c *NewsAPIClient) GetTopHeadlines(ctx context.Context, alpha2Code string) ([]models.NewsItem, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("country", alpha2Code)
	params.Set("apiKey", c.apiKey)
	endpoint := c.apiURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(reqCtx, "GET", endpoint, nil)
	if err != nil {
		recordUpstreamCall("news", "error", time.Since(start))
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		recordUpstreamCall("news", "error", time.Since(start))
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	recordUpstreamCall("news", statusLabel(resp.StatusCode), time.Since(start))

	if err := mapStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var apiResp newsAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(apiResp.Articles))
	for _, a := range apiResp.Articles {
		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			publishedAt = time.Now().UTC()
		}
		items = append(items, models.NewsItem{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: publishedAt,
		})
	}
	return items, nil
}
