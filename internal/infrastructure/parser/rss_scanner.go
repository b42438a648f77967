package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/scanner"
)

const (
	defaultEntriesPerFeed = 5
	defaultMinBodyChars   = 150
	unknownField          = "Unknown"
)

// RSSScanner reads feeds and downloads the newest entries' full article text.
type RSSScanner struct {
	fetcher  *fetcher
	parser   *gofeed.Parser
	minChars int
	logger   *slog.Logger
	now      func() time.Time
}

// NewRSSScanner wires an HTTP client; minChars defaults to 150.
func NewRSSScanner(client *http.Client, opts FetchOptions, minChars int, logger *slog.Logger) *RSSScanner {
	if minChars <= 0 {
		minChars = defaultMinBodyChars
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RSSScanner{
		fetcher:  newFetcher(client, opts),
		parser:   gofeed.NewParser(),
		minChars: minChars,
		logger:   logger,
		now:      time.Now,
	}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan visits every feed target. A failing feed or entry is skipped and
// reported in the returned error while the rest of the harvest is kept.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Harvest, error) {
	var (
		harvest scanner.Harvest
		errs    []error
	)
	if len(req.Targets) == 0 {
		return harvest, fmt.Errorf("no feeds provided for site %s", req.SiteName)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultEntriesPerFeed
	}

	for _, target := range req.Targets {
		feed, err := s.parseFeed(ctx, target.URL)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", target.Name, err))
			continue
		}

		items := feed.Items
		if len(items) > limit {
			items = items[:limit]
		}
		s.logger.Debug("feed parsed", "feed", target.Name, "entries", len(feed.Items), "processing", len(items))

		for _, item := range items {
			if item.Link == "" {
				continue
			}
			article, err := s.fetchArticle(ctx, item)
			if err != nil {
				if ctx.Err() != nil {
					return harvest, ctx.Err()
				}
				errs = append(errs, fmt.Errorf("entry %s: %w", item.Link, err))
				continue
			}
			if utf8.RuneCountInString(article.Text) <= s.minChars {
				s.logger.Debug("content too short, discarded", "url", item.Link)
				continue
			}
			article.Source = target.Name
			harvest.Articles = append(harvest.Articles, article)
		}
	}

	return harvest, errors.Join(errs...)
}

func (s *RSSScanner) parseFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := s.fetcher.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := s.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func (s *RSSScanner) fetchArticle(ctx context.Context, item *gofeed.Item) (domain.StoredArticle, error) {
	doc, err := s.fetcher.fetchDocument(ctx, item.Link)
	if err != nil {
		return domain.StoredArticle{}, err
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return domain.StoredArticle{
		URL:         item.Link,
		Title:       title,
		Text:        extractBody(doc),
		Authors:     joinAuthors(item),
		PublishDate: publishDate(item),
		ScrapedAt:   s.now().UTC(),
	}, nil
}

// extractBody prefers paragraphs inside <article>, falling back to every <p>.
func extractBody(doc *goquery.Document) string {
	paragraphs := doc.Find("article p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func joinAuthors(item *gofeed.Item) string {
	var names []string
	for _, person := range item.Authors {
		if person != nil && strings.TrimSpace(person.Name) != "" {
			names = append(names, strings.TrimSpace(person.Name))
		}
	}
	if len(names) == 0 && item.Author != nil && item.Author.Name != "" {
		names = append(names, item.Author.Name)
	}
	if len(names) == 0 {
		return unknownField
	}
	return strings.Join(names, ", ")
}

func publishDate(item *gofeed.Item) string {
	if item.Published != "" {
		return item.Published
	}
	if item.Updated != "" {
		return item.Updated
	}
	return unknownField
}
