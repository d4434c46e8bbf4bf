package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/a-mehta/wikiweather/internal/logger"
)

// PageFetcher acquires a parsed document for one city page. Retries, if
// any, are the fetcher's concern; callers treat an error as a fetch
// failure for that city only.
type PageFetcher interface {
	Fetch(ctx context.Context, cityName, pageURL string) (*goquery.Document, error)
}

type WikipediaFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    logger.Logger
}

// NewWikipediaFetcher builds a fetcher with a bounded request timeout
// and a politeness delay enforced between successive fetches.
func NewWikipediaFetcher(timeout, delay time.Duration, userAgent string, log logger.Logger) *WikipediaFetcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	return &WikipediaFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		logger:    log.WithField("component", "wikipedia_fetcher"),
	}
}

func (f *WikipediaFetcher) Fetch(ctx context.Context, cityName, pageURL string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	f.logger.Debugf("Fetching page for %s: %s", cityName, pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	f.logger.Debugf("Fetched and parsed page for %s", cityName)
	return doc, nil
}
