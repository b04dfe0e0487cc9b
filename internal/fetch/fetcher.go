package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openpaws/policyradar/internal/cache"
	"github.com/openpaws/policyradar/internal/model"
)

// sleepFunc is the sleep used between retry attempts (injectable for tests).
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Fetcher retrieves pages and PDF binaries with retry, linear backoff and
// a browser-like header set. HTML and PDF requests use separate timeouts.
type Fetcher struct {
	htmlClient *http.Client
	pdfClient  *http.Client

	userAgent   string
	maxRetries  int
	backoffBase time.Duration
	minBytes    int
	maxBytes    int64

	robots *RobotsGate // nil when robots awareness is disabled
	pages  cache.Cache // nil when page caching is disabled
}

// NewFetcher builds a fetcher from HTTP configuration. The page cache is
// optional and dedups URL-variant fetches within one sweep.
func NewFetcher(cfg model.HTTPConfig, pages cache.Cache) *Fetcher {
	redirectCap := func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return fmt.Errorf("stopped after 5 redirects")
		}
		return nil
	}

	f := &Fetcher{
		htmlClient: &http.Client{
			Timeout:       cfg.TimeoutHTML,
			CheckRedirect: redirectCap,
		},
		pdfClient: &http.Client{
			Timeout:       cfg.TimeoutPDF,
			CheckRedirect: redirectCap,
		},
		userAgent:   cfg.UserAgent,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		minBytes:    cfg.MinBodyBytes,
		maxBytes:    cfg.MaxBodyBytes,
		pages:       pages,
	}
	if f.maxRetries <= 0 {
		f.maxRetries = 3
	}
	if f.backoffBase <= 0 {
		f.backoffBase = 2 * time.Second
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsGate(cfg.UserAgent, cfg.TimeoutHTML)
	}
	return f
}

// FetchHTML retrieves a page as text. A 200 response shorter than the
// minimum byte threshold is treated as a soft-404 failure.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	if f.pages != nil {
		if body, ok := f.pages.Get(cache.Key(url)); ok {
			return string(body), nil
		}
	}

	body, err := f.fetch(ctx, f.htmlClient, url, true)
	if err != nil {
		return "", err
	}

	if f.pages != nil {
		_ = f.pages.Set(cache.Key(url), body, 0)
	}
	return string(body), nil
}

// FetchPDF retrieves a PDF binary. No minimum-size check is applied; small
// PDFs are legitimate.
func (f *Fetcher) FetchPDF(ctx context.Context, url string) ([]byte, error) {
	return f.fetch(ctx, f.pdfClient, url, false)
}

func (f *Fetcher) fetch(ctx context.Context, client *http.Client, url string, checkSize bool) ([]byte, error) {
	if f.robots != nil {
		if allowed := f.robots.Allowed(ctx, url); !allowed {
			return nil, fmt.Errorf("fetch %s: %w", url, ErrBlocked)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepFunc(ctx, f.backoffBase*time.Duration(attempt-1)); err != nil {
				return nil, err
			}
		}

		body, err := f.attempt(ctx, client, url, checkSize)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (f *Fetcher) attempt(ctx context.Context, client *http.Client, url string, checkSize bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,hi;q=0.8")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, classify(url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", url, err)
	}

	// Government sites often serve near-empty shells instead of a 404.
	if checkSize && len(body) < f.minBytes {
		return nil, fmt.Errorf("fetch %s: %w (%d bytes)", url, ErrTooSmall, len(body))
	}

	return body, nil
}
