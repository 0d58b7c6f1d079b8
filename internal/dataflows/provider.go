package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tradecortex/tradecortex/config"
)

// Provider supplies the per-symbol market summary maps consumed by the
// workflow and the batch analyzer. A failed fetch returns a map carrying
// an "error" field instead of an error value: the workflow treats bad
// data as a stage failure, not a transport failure.
type Provider interface {
	MarketSummary(ctx context.Context, symbol string) map[string]any
}

// NewProvider selects the configured market data source.
func NewProvider(cfg *config.Config) Provider {
	online := newOnlineProvider(cfg)
	if cfg.Data.MarketDataProvider == "cached" {
		return newCachedProvider(cfg, online)
	}
	return online
}

// onlineProvider serves summaries from Yahoo Finance, augmented with
// Longport candlesticks for HK-listed symbols when credentials are
// configured.
type onlineProvider struct {
	yahoo    *YahooFinanceClient
	longport *LongportClient
}

func newOnlineProvider(cfg *config.Config) *onlineProvider {
	p := &onlineProvider{yahoo: NewYahooFinanceClient(cfg)}
	if lp, err := NewLongportClient(cfg); err == nil {
		p.longport = lp
	}
	return p
}

func (p *onlineProvider) MarketSummary(ctx context.Context, symbol string) map[string]any {
	summary := p.yahoo.MarketSummary(symbol)

	if p.longport != nil && strings.HasSuffix(NormalizeSymbol(symbol), ".HK") {
		if sticks, err := p.longport.GetDailySticks(ctx, NormalizeSymbol(symbol), 10); err == nil && len(sticks) > 0 {
			bars := make([]map[string]any, 0, len(sticks))
			for _, stick := range sticks {
				bars = append(bars, map[string]any{
					"close":  stick.Close,
					"volume": stick.Volume,
				})
			}
			summary["recent_bars"] = bars
		}
	}
	return summary
}

// cachedProvider serves summaries from the file cache, falling through to
// the online source on a miss.
type cachedProvider struct {
	cache    *CacheManager
	fallback Provider
}

func newCachedProvider(cfg *config.Config, fallback Provider) *cachedProvider {
	cacheDir := filepath.Join(cfg.DataCacheDir, "market_summaries")
	ttl := time.Duration(cfg.Data.CacheTTL) * time.Second
	return &cachedProvider{
		cache:    NewCacheManager(cacheDir, ttl, true),
		fallback: fallback,
	}
}

func (p *cachedProvider) MarketSummary(ctx context.Context, symbol string) map[string]any {
	key := NormalizeSymbol(symbol)

	var cached map[string]any
	if p.cache.Get("provider", "summary", key, &cached) {
		return cached
	}
	if p.fallback == nil {
		return map[string]any{"symbol": key, "error": "no cached market data"}
	}

	summary := p.fallback.MarketSummary(ctx, symbol)
	if _, failed := summary["error"]; !failed {
		p.cache.Set("provider", "summary", key, summary)
	}
	return summary
}

// NewsService backs the impure news tools with Google News and Finnhub.
type NewsService struct {
	google  *GoogleNewsClient
	finnhub *FinnhubClient
}

// NewNewsService wires the news sources.
func NewNewsService(cfg *config.Config) *NewsService {
	return &NewsService{
		google:  NewGoogleNewsClient(cfg),
		finnhub: NewFinnhubClient(cfg),
	}
}

// SearchNews runs a Google News query and renders the hits as a text
// blob for the LLM transcript.
func (s *NewsService) SearchNews(ctx context.Context, query string, maxResults, daysBack int) (string, error) {
	articles, err := s.google.Search(query, maxResults, daysBack)
	if err != nil {
		return "", err
	}
	return renderArticles(articles), nil
}

// CompanyNews fetches recent company news, preferring Finnhub when an API
// key is configured.
func (s *NewsService) CompanyNews(ctx context.Context, symbol string, daysBack int) (string, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -daysBack)

	if s.finnhub.apiKey != "" {
		articles, err := s.finnhub.GetCompanyNews(symbol, from, to)
		if err == nil {
			return renderArticles(articles), nil
		}
	}

	articles, err := s.google.Search(NormalizeSymbol(symbol)+" stock", 10, daysBack)
	if err != nil {
		return "", err
	}
	return renderArticles(articles), nil
}

func renderArticles(articles []*NewsArticle) string {
	if len(articles) == 0 {
		return "no articles found"
	}
	var b strings.Builder
	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s", i+1, article.Title)
		if article.Source != "" {
			fmt.Fprintf(&b, " (%s", article.Source)
			if !article.PublishedAt.IsZero() {
				fmt.Fprintf(&b, ", %s", article.PublishedAt.Format("2006-01-02"))
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
		if article.Content != "" {
			fmt.Fprintf(&b, "   %s\n", article.Content)
		}
	}
	return b.String()
}
