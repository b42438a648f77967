package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent is a desktop browser string; several news sites reject unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultInterval  = time.Second
)

// FetchOptions tune how scanners talk to remote sites.
type FetchOptions struct {
	UserAgent string
	// Interval is the minimum spacing between two requests of one scanner.
	Interval time.Duration
}

// fetcher issues paced GET requests with a fixed user agent.
type fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func newFetcher(client *http.Client, opts FetchOptions) *fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	return &fetcher{
		client:    client,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// get returns the body of a 200 response; the caller closes it.
func (f *fetcher) get(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", pageURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}
	return resp.Body, nil
}

func (f *fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
