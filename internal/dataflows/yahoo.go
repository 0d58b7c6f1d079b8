package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/tradecortex/tradecortex/config"
)

// YahooFinanceClient fetches quotes and market summaries from Yahoo
// Finance.
type YahooFinanceClient struct {
	cache *CacheManager
}

// NewYahooFinanceClient creates the client with a file cache under the
// configured cache dir.
func NewYahooFinanceClient(cfg *config.Config) *YahooFinanceClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	ttl := time.Duration(cfg.Data.CacheTTL) * time.Second
	return &YahooFinanceClient{
		cache: NewCacheManager(cacheDir, ttl, cfg.Data.CacheEnabled),
	}
}

// GetQuote fetches the current quote bar for a symbol.
func (yf *YahooFinanceClient) GetQuote(symbol string) (*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached MarketData
	if yf.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *MarketData
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("get quote for %s: %w", symbol, err)
		}
		result = &MarketData{
			Symbol:    symbol,
			Date:      time.Now(),
			Open:      decimal.NewFromFloat(q.RegularMarketOpen),
			High:      decimal.NewFromFloat(q.RegularMarketDayHigh),
			Low:       decimal.NewFromFloat(q.RegularMarketDayLow),
			Close:     decimal.NewFromFloat(q.RegularMarketPrice),
			Volume:    int64(q.RegularMarketVolume),
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "quote", symbol, result)
	return result, nil
}

// MarketSummary builds the free-form market context map the workflow
// feeds to the analysts. On failure the map carries an "error" field so
// downstream stages can reject it.
func (yf *YahooFinanceClient) MarketSummary(symbol string) map[string]any {
	if err := ValidateSymbol(symbol); err != nil {
		return map[string]any{"error": err.Error()}
	}
	symbol = NormalizeSymbol(symbol)

	var cached map[string]any
	if yf.cache.Get("yahoo", "summary", symbol, &cached) {
		return cached
	}

	var summary map[string]any
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("get summary for %s: %w", symbol, err)
		}
		if q == nil {
			return fmt.Errorf("no quote data for %s", symbol)
		}
		summary = map[string]any{
			"symbol":           symbol,
			"company_name":     q.ShortName,
			"current_price":    q.RegularMarketPrice,
			"price_change":     q.RegularMarketChange,
			"price_change_pct": q.RegularMarketChangePercent,
			"open":             q.RegularMarketOpen,
			"day_high":         q.RegularMarketDayHigh,
			"day_low":          q.RegularMarketDayLow,
			"volume":           q.RegularMarketVolume,
			"high_52w":         q.FiftyTwoWeekHigh,
			"low_52w":          q.FiftyTwoWeekLow,
			"market_cap":       q.MarketCap,
			"pe_ratio":         q.ForwardPE,
			"avg_volume":       q.AverageDailyVolume3Month,
		}
		return nil
	})
	if err != nil {
		return map[string]any{"symbol": symbol, "error": err.Error()}
	}

	yf.cache.Set("yahoo", "summary", symbol, summary)
	return summary
}
