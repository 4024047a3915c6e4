package watchlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/logx"
	"github.com/marketbrief/marketbrief/internal/retry"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
	cacheFileName = "last_watchlist.json"
	cacheMaxAge   = 24 * time.Hour
)

// Source resolves the ticker watchlist. Resolution order: the Notion
// database, then the on-disk copy of the last successful pull if it is
// under a day old, then the static list from configuration. GetSymbols
// never fails; worst case it returns the static list.
type Source struct {
	client     *resty.Client
	token      string
	databaseID string
	cachePath  string
	fallback   []string
	retryCfg   *retry.Config
}

func NewSource(cfg *config.Config) *Source {
	client := resty.New()
	client.SetBaseURL(notionBaseURL)
	client.SetTimeout(30 * time.Second)

	return &Source{
		client:     client,
		token:      cfg.NotionToken,
		databaseID: cfg.NotionDatabaseID,
		cachePath:  filepath.Join(cfg.DataDir, cacheFileName),
		fallback:   cfg.Symbols,
		retryCfg: &retry.Config{
			MaxRetries: 3,
			BaseDelay:  5 * time.Second,
			MaxDelay:   30 * time.Second,
			Multiplier: 2.0,
		},
	}
}

// SetBaseURL points the client at a different Notion endpoint, for
// tests.
func (s *Source) SetBaseURL(url string) {
	s.client.SetBaseURL(url)
}

// SetRetryConfig overrides the retry policy, for tests.
func (s *Source) SetRetryConfig(cfg *retry.Config) {
	s.retryCfg = cfg
}

// GetSymbols returns the current watchlist. An empty list is a valid
// answer when every source is empty.
func (s *Source) GetSymbols(ctx context.Context) []string {
	if s.token != "" && s.databaseID != "" {
		symbols, err := s.fetchFromNotion(ctx)
		if err == nil {
			s.saveCache(symbols)
			return symbols
		}
		logx.Warn("notion watchlist fetch failed", "error", err)
	}

	if symbols, ok := s.loadCache(); ok {
		logx.Info("serving watchlist from disk cache", "symbols", len(symbols))
		return symbols
	}

	logx.Info("serving static watchlist", "symbols", len(s.fallback))
	out := make([]string, len(s.fallback))
	copy(out, s.fallback)
	return out
}

type notionQueryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type notionQueryResponse struct {
	Results []struct {
		Properties map[string]struct {
			Title []struct {
				PlainText string `json:"plain_text"`
			} `json:"title"`
			Select *struct {
				Name string `json:"name"`
			} `json:"select"`
		} `json:"properties"`
	} `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

func statusFilter() any {
	return map[string]any{
		"or": []any{
			map[string]any{"property": "Status", "select": map[string]string{"equals": "Watching"}},
			map[string]any{"property": "Status", "select": map[string]string{"equals": "Holding"}},
		},
	}
}

func (s *Source) fetchFromNotion(ctx context.Context) ([]string, error) {
	var symbols []string

	err := retry.Do(s.retryCfg, func() error {
		symbols = symbols[:0]
		cursor := ""

		for {
			req := notionQueryRequest{Filter: statusFilter(), StartCursor: cursor}
			resp, err := s.client.R().
				SetContext(ctx).
				SetHeader("Authorization", "Bearer "+s.token).
				SetHeader("Notion-Version", notionVersion).
				SetHeader("Content-Type", "application/json").
				SetBody(req).
				Post(fmt.Sprintf("/databases/%s/query", s.databaseID))
			if err != nil {
				return fmt.Errorf("query notion database: %w", err)
			}
			if resp.StatusCode() != 200 {
				return fmt.Errorf("notion API error %d: %s", resp.StatusCode(), resp.String())
			}

			var parsed notionQueryResponse
			if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
				return fmt.Errorf("parse notion response: %w", err)
			}

			for _, page := range parsed.Results {
				for name, prop := range page.Properties {
					if name != "Ticker" && name != "Symbol" {
						continue
					}
					for _, t := range prop.Title {
						if t.PlainText != "" {
							symbols = append(symbols, t.PlainText)
						}
					}
				}
			}

			if !parsed.HasMore || parsed.NextCursor == "" {
				return nil
			}
			cursor = parsed.NextCursor
		}
	})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// AddSymbol creates a new Watching entry in the Notion database.
func (s *Source) AddSymbol(ctx context.Context, symbol string) error {
	if s.token == "" || s.databaseID == "" {
		return fmt.Errorf("notion is not configured")
	}

	body := map[string]any{
		"parent": map[string]string{"database_id": s.databaseID},
		"properties": map[string]any{
			"Ticker": map[string]any{
				"title": []any{
					map[string]any{"text": map[string]string{"content": symbol}},
				},
			},
			"Status": map[string]any{
				"select": map[string]string{"name": "Watching"},
			},
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.token).
		SetHeader("Notion-Version", notionVersion).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/pages")
	if err != nil {
		return fmt.Errorf("create notion page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("notion API error %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

type cachedWatchlist struct {
	Symbols []string  `json:"symbols"`
	SavedAt time.Time `json:"saved_at"`
}

func (s *Source) saveCache(symbols []string) {
	if s.cachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(cachedWatchlist{Symbols: symbols, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.cachePath, data, 0o644); err != nil {
		logx.Warn("watchlist cache write failed", "error", err)
	}
}

func (s *Source) loadCache() ([]string, bool) {
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil, false
	}
	var cached cachedWatchlist
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	if time.Since(cached.SavedAt) >= cacheMaxAge {
		return nil, false
	}
	return cached.Symbols, true
}
