package dataflows

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/tradecortex/tradecortex/config"
)

type rssFeed struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	Source      rssSource `xml:"source"`
}

type rssSource struct {
	Text string `xml:",chardata"`
}

// GoogleNewsClient searches Google News through its RSS feed.
type GoogleNewsClient struct {
	client *resty.Client
	cache  *CacheManager
}

// NewGoogleNewsClient creates the client. News results are cached for 30
// minutes.
func NewGoogleNewsClient(cfg *config.Config) *GoogleNewsClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "google_news")
	cache := NewCacheManager(cacheDir, 30*time.Minute, cfg.Data.CacheEnabled)

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	return &GoogleNewsClient{client: client, cache: cache}
}

// Search fetches articles matching the query from the last daysBack days.
func (gnc *GoogleNewsClient) Search(query string, maxResults, daysBack int) ([]*NewsArticle, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if daysBack <= 0 {
		daysBack = 7
	}

	cacheKey := map[string]any{"query": query, "max": maxResults, "days": daysBack}
	var cached []*NewsArticle
	if gnc.cache.Get("google_news", "search", cacheKey, &cached) {
		return cached, nil
	}

	feedURL := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(fmt.Sprintf("%s when:%dd", query, daysBack)),
	)

	var feed rssFeed
	resp, err := gnc.client.R().SetResult(&feed).Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("google news request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("google news returned status %d", resp.StatusCode())
	}

	articles := make([]*NewsArticle, 0, maxResults)
	for _, item := range feed.Channel.Items {
		if len(articles) >= maxResults {
			break
		}
		published, _ := time.Parse(time.RFC1123, item.PubDate)
		articles = append(articles, &NewsArticle{
			Title:       strings.TrimSpace(item.Title),
			Content:     stripHTML(item.Description),
			URL:         item.Link,
			Source:      strings.TrimSpace(item.Source.Text),
			PublishedAt: published,
		})
	}

	gnc.cache.Set("google_news", "search", cacheKey, articles)
	return articles, nil
}

// stripHTML reduces an RSS description to its visible text.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
