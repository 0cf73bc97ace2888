package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidcheck/config"
	"vidcheck/types"
)

// Provider abstracts a web evidence search backend
type Provider interface {
	// Search returns ranked raw evidence for a query. A provider failure
	// or zero results is returned as an empty slice by the retriever, not
	// an error visible to claim judging.
	Search(ctx context.Context, query string, maxResults int) ([]types.Evidence, error)
}

// TavilyProvider implements Provider against the Tavily search API
// Endpoint: POST https://api.tavily.com/search
type TavilyProvider struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewTavilyProvider builds a Tavily-backed search provider
func NewTavilyProvider(apiKey, endpoint string) *TavilyProvider {
	if endpoint == "" {
		endpoint = "https://api.tavily.com/search"
	}
	return &TavilyProvider{
		apiKey:   apiKey,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *TavilyProvider) Search(ctx context.Context, query string, maxResults int) ([]types.Evidence, error) {
	payload := map[string]interface{}{
		"api_key":      t.apiKey,
		"query":        query,
		"max_results":  maxResults,
		"search_depth": "basic",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= config.ProviderMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(config.ProviderRetryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", t.endpoint, bytes.NewBuffer(b))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("tavily search error: status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("tavily search error: status %d", resp.StatusCode)
		}

		var parsed struct {
			Results []struct {
				Title         string  `json:"title"`
				URL           string  `json:"url"`
				Content       string  `json:"content"`
				Score         float64 `json:"score"`
				PublishedDate string  `json:"published_date"`
			} `json:"results"`
		}
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("tavily search decode: %w", err)
		}

		out := make([]types.Evidence, 0, len(parsed.Results))
		for _, r := range parsed.Results {
			out = append(out, types.Evidence{
				SourceTitle:    r.Title,
				SourceURL:      r.URL,
				Domain:         DomainOf(r.URL),
				Snippet:        r.Content,
				PublishedDate:  r.PublishedDate,
				RelevanceScore: r.Score,
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("tavily search failed after retries: %w", lastErr)
}

// DomainOf extracts the registrable host of a URL, lowercased, without
// a leading www prefix. Empty when the URL does not parse.
func DomainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
