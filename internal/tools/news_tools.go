package tools

import "context"

// NewsSearcher is the data-source dependency of the impure news tools.
// The dataflows package provides the production implementation.
type NewsSearcher interface {
	SearchNews(ctx context.Context, query string, maxResults, daysBack int) (string, error)
	CompanyNews(ctx context.Context, symbol string, daysBack int) (string, error)
}

// NewGoogleNewsSearchTool builds search_google_news. Unlike the emitters it
// is impure: it fetches headlines and returns them as a text blob.
func NewGoogleNewsSearchTool(searcher NewsSearcher) *Tool {
	return &Tool{
		Name: "search_google_news",
		Desc: "Search Google News for recent articles matching a query.",
		Params: []ParamDecl{
			str("query", "Search query"),
			optional(integer("max_results", "Maximum number of results (default 10)")),
			optional(integer("days_back", "How many days to look back (default 7)")),
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			query := ArgString(args, "query")
			maxResults := ArgInt(args, "max_results")
			if maxResults <= 0 {
				maxResults = 10
			}
			daysBack := ArgInt(args, "days_back")
			if daysBack <= 0 {
				daysBack = 7
			}
			return searcher.SearchNews(ctx, query, maxResults, daysBack)
		},
	}
}

// NewStockNewsTool builds get_stock_news, a company-scoped news fetch.
func NewStockNewsTool(searcher NewsSearcher) *Tool {
	return &Tool{
		Name: "get_stock_news",
		Desc: "Fetch recent news for a stock symbol.",
		Params: []ParamDecl{
			str("symbol", "Stock ticker symbol"),
			optional(integer("days_back", "How many days to look back (default 7)")),
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			symbol := ArgString(args, "symbol")
			daysBack := ArgInt(args, "days_back")
			if daysBack <= 0 {
				daysBack = 7
			}
			return searcher.CompanyNews(ctx, symbol, daysBack)
		},
	}
}
