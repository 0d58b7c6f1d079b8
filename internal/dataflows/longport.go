package dataflows

import (
	"context"
	"errors"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/tradecortex/tradecortex/config"
)

// LongportClient fetches candlesticks through the Longport OpenAPI. When
// Longport credentials are configured, the online provider adds its recent
// daily bars to the Yahoo summary of HK-listed symbols; it does not replace
// Yahoo as the quote source.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

// NewLongportClient creates the client; it fails without credentials.
func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if cfg.Data.LongportAppKey == "" || cfg.Data.LongportAppSecret == "" || cfg.Data.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(
		cfg.Data.LongportAppKey,
		cfg.Data.LongportAppSecret,
		cfg.Data.LongportAccessToken,
	))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}
	return &LongportClient{quoteCtx: quoteContext}, nil
}

// GetStaticInfo fetches static security info for the symbols.
func (lpc *LongportClient) GetStaticInfo(ctx context.Context, symbols []string) ([]*quote.StaticInfo, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	return lpc.quoteCtx.StaticInfo(ctx, symbols)
}

// GetDailySticks fetches daily candlesticks for a symbol.
func (lpc *LongportClient) GetDailySticks(ctx context.Context, symbol string, count int) ([]*quote.Candlestick, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	return lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
}
