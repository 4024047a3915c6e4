package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/marketbrief/marketbrief/internal/fetch"
	"github.com/marketbrief/marketbrief/internal/logx"
	"github.com/marketbrief/marketbrief/models"
)

const (
	yahooRSSURL   = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	finvizBaseURL = "https://finviz.com/quote.ashx"
	newsTTL       = 30 * time.Minute
)

// Fetcher collects recent headlines per symbol from the Yahoo Finance
// RSS feed with Finviz as a second source. Like the market-data layer,
// a symbol whose lookup fails simply contributes no articles.
type Fetcher struct {
	client  *resty.Client
	exec    *fetch.Executor
	cache   *fetch.Cache
	maxPer  int
	rssBase string
}

func NewFetcher() *Fetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; MarketBrief/1.0)")

	return &Fetcher{
		client: client,
		exec:   fetch.NewExecutor(),
		cache:  fetch.NewCache(newsTTL),
		maxPer: 5,
	}
}

// SetExecutor replaces the batch executor, for tests.
func (f *Fetcher) SetExecutor(e *fetch.Executor) {
	f.exec = e
}

// SetRSSBase points the RSS fetch at a different host, for tests.
func (f *Fetcher) SetRSSBase(base string) {
	f.rssBase = base
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// GetHeadlines returns up to a handful of recent articles per symbol.
func (f *Fetcher) GetHeadlines(ctx context.Context, symbols []string) map[string][]models.NewsArticle {
	if len(symbols) == 0 {
		return map[string][]models.NewsArticle{}
	}

	key := fetch.CountKey("news", len(symbols))
	if cached, ok := f.cache.Get(key); ok {
		return cached.(map[string][]models.NewsArticle)
	}

	results := fetch.RunBatches(ctx, f.exec, symbols, "news", f.fetchSymbolNews)
	if len(results) > 0 {
		f.cache.Put(key, results)
	}
	return results
}

func (f *Fetcher) fetchSymbolNews(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	articles, err := f.fetchRSS(ctx, symbol)
	if err != nil {
		logx.Debug("rss fetch failed, trying finviz", "symbol", symbol, "error", err)
		articles, err = f.fetchFinviz(ctx, symbol)
		if err != nil {
			return nil, err
		}
	}
	if len(articles) == 0 {
		return nil, fetch.ErrNoData
	}
	if len(articles) > f.maxPer {
		articles = articles[:f.maxPer]
	}
	return articles, nil
}

// marketFeedSymbols drive the broad-market headline feed. Index
// feeds surface macro coverage rather than single-name stories.
var marketFeedSymbols = []string{"^GSPC", "^IXIC", "^DJI"}

// GetMarketHeadlines returns broad-market headlines, deduplicated by
// title across the index feeds and capped like the per-symbol lists.
func (f *Fetcher) GetMarketHeadlines(ctx context.Context) []models.NewsArticle {
	key := fetch.CountKey("market_news", len(marketFeedSymbols))
	if cached, ok := f.cache.Get(key); ok {
		return cached.([]models.NewsArticle)
	}

	perFeed := fetch.RunBatches(ctx, f.exec, marketFeedSymbols, "market news", func(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
		articles, err := f.fetchRSS(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if len(articles) == 0 {
			return nil, fetch.ErrNoData
		}
		return articles, nil
	})

	seen := make(map[string]bool)
	var merged []models.NewsArticle
	for _, symbol := range marketFeedSymbols {
		for _, article := range perFeed[symbol] {
			if seen[article.Title] {
				continue
			}
			seen[article.Title] = true
			merged = append(merged, article)
		}
	}
	if len(merged) > f.maxPer {
		merged = merged[:f.maxPer]
	}
	if len(merged) > 0 {
		f.cache.Put(key, merged)
	}
	return merged
}

func (f *Fetcher) rssURL() string {
	if f.rssBase != "" {
		return f.rssBase
	}
	return yahooRSSURL
}

func (f *Fetcher) fetchRSS(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"s":      symbol,
			"region": "US",
			"lang":   "en-US",
		}).
		Get(f.rssURL())
	if err != nil {
		return nil, fmt.Errorf("fetch rss for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("rss error %d for %s", resp.StatusCode(), symbol)
	}

	var feed rssFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("parse rss for %s: %w", symbol, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		if item.Title == "" {
			continue
		}
		published, _ := time.Parse(time.RFC1123Z, item.PubDate)
		articles = append(articles, models.NewsArticle{
			Title:       item.Title,
			Link:        item.Link,
			Source:      "Yahoo Finance",
			Symbol:      symbol,
			PublishedAt: published,
		})
	}
	return articles, nil
}

func (f *Fetcher) fetchFinviz(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("t", url.QueryEscape(symbol)).
		Get(finvizBaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch finviz for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("finviz error %d for %s", resp.StatusCode(), symbol)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse finviz html for %s: %w", symbol, err)
	}

	var articles []models.NewsArticle
	doc.Find("table.fullview-news-outer tr, table#news-table tr").Each(func(i int, row *goquery.Selection) {
		link := row.Find("a")
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}
		href, _ := link.Attr("href")
		articles = append(articles, models.NewsArticle{
			Title:  title,
			Link:   href,
			Source: "Finviz",
			Symbol: symbol,
		})
	})
	return articles, nil
}
