// Package nflverse fetches season-stats release assets from the nflverse
// data repository and parses them into frames.
//
// Assets are plain CSV files attached to GitHub releases. Rate limiting is
// handled via a token bucket limiter.
package nflverse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gridstats/nfl-export/internal/frame"
)

// Client is the shared HTTP client for all dataset downloads.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a download client with rate limiting.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Fetch downloads a dataset for the given seasons and returns a single
// frame. Seasonal datasets are fetched season by season and stacked; kinds
// with a per-season fallback skip unsupported or failing seasons and only
// degrade to an empty frame when every season fails. Non-seasonal optional
// kinds degrade to an empty frame on failure. Everything else aborts.
func (c *Client) Fetch(ctx context.Context, ds Dataset, seasons []int) (*frame.Frame, error) {
	if !ds.Seasonal {
		f, err := c.fetchCSV(ctx, c.baseURL+"/"+ds.Path)
		if err != nil {
			if ds.Optional {
				c.logger.Warn("could not fetch dataset, continuing without it", "kind", ds.Kind, "error", err)
				return frame.New(nil), nil
			}
			return nil, fmt.Errorf("fetch %s: %w", ds.Kind, err)
		}
		return f, nil
	}

	var parts []*frame.Frame
	for _, season := range seasons {
		if ds.MinYear > 0 && season < ds.MinYear {
			c.logger.Info("skipping season, data not available", "kind", ds.Kind, "season", season, "min_year", ds.MinYear)
			continue
		}
		url := c.baseURL + "/" + fmt.Sprintf(ds.Path, season)
		f, err := c.fetchCSV(ctx, url)
		if err != nil {
			if !ds.PerSeasonFallback {
				return nil, fmt.Errorf("fetch %s season %d: %w", ds.Kind, season, err)
			}
			c.logger.Warn("could not fetch season, skipping", "kind", ds.Kind, "season", season, "error", err)
			continue
		}
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		if ds.PerSeasonFallback {
			c.logger.Warn("no data available for any season", "kind", ds.Kind)
		}
		return frame.New(nil), nil
	}
	return frame.Concat(parts...), nil
}

// fetchCSV performs a rate-limited GET and parses the body as CSV.
func (c *Client) fetchCSV(ctx context.Context, url string) (*frame.Frame, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "nfl-export/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(body))
	}

	f, err := frame.Read(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", url, err)
	}
	return f, nil
}
