package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tradecortex/tradecortex/config"
)

// FinnhubClient fetches company news from the Finnhub API.
type FinnhubClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewFinnhubClient creates the client. News responses are cached for six
// hours.
func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "finnhub")
	cache := NewCacheManager(cacheDir, 6*time.Hour, cfg.Data.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(30 * time.Second)

	return &FinnhubClient{client: client, cache: cache, apiKey: cfg.Data.FinnhubAPIKey}
}

type finnhubNews struct {
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// GetCompanyNews fetches news articles for a symbol within a date range.
func (fc *FinnhubClient) GetCompanyNews(symbol string, from, to time.Time) ([]*NewsArticle, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]any{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}
	var cached []*NewsArticle
	if fc.cache.Get("finnhub", "company_news", cacheKey, &cached) {
		return cached, nil
	}

	var raw []finnhubNews
	resp, err := fc.client.R().
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   from.Format("2006-01-02"),
			"to":     to.Format("2006-01-02"),
			"token":  fc.apiKey,
		}).
		SetResult(&raw).
		Get("/company-news")
	if err != nil {
		return nil, fmt.Errorf("finnhub request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finnhub returned status %d", resp.StatusCode())
	}

	articles := make([]*NewsArticle, 0, len(raw))
	for _, item := range raw {
		if item.Headline == "" {
			continue
		}
		articles = append(articles, &NewsArticle{
			Title:       item.Headline,
			Content:     item.Summary,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: time.Unix(item.DateTime, 0),
		})
	}

	fc.cache.Set("finnhub", "company_news", cacheKey, articles)
	return articles, nil
}
