package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/scanner"
)

const (
	politifactSite         = "PolitiFact"
	defaultPolitifactPages = 5
	unknownVerdict         = "unknown"
)

// PolitiFactScanner walks the paginated fact-check list and extracts
// (claim, verdict, link) triples.
type PolitiFactScanner struct {
	fetcher *fetcher
	logger  *slog.Logger
}

// NewPolitiFactScanner wires an HTTP client.
func NewPolitiFactScanner(client *http.Client, opts FetchOptions, logger *slog.Logger) *PolitiFactScanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PolitiFactScanner{fetcher: newFetcher(client, opts), logger: logger}
}

// Name identifies the strategy inside the registry.
func (p *PolitiFactScanner) Name() string {
	return "politifact"
}

// Scan reads pages 1..Limit of every list target. Paging stops early at the
// first page without list items.
func (p *PolitiFactScanner) Scan(ctx context.Context, req scanner.Request) (scanner.Harvest, error) {
	var harvest scanner.Harvest
	if len(req.Targets) == 0 {
		return harvest, fmt.Errorf("no list pages provided for site %s", req.SiteName)
	}

	pages := req.Limit
	if pages <= 0 {
		pages = defaultPolitifactPages
	}

	for _, target := range req.Targets {
		for page := 1; page <= pages; page++ {
			pageURL, err := buildPageURL(target.URL, page)
			if err != nil {
				return harvest, fmt.Errorf("target %s: %w", target.Name, err)
			}

			doc, err := p.fetcher.fetchDocument(ctx, pageURL.String())
			if err != nil {
				return harvest, fmt.Errorf("target %s page %d: %w", target.Name, page, err)
			}

			checks := extractFactChecks(doc, pageURL)
			p.logger.Debug("fact-check page parsed", "target", target.Name, "page", page, "items", len(checks))
			if len(checks) == 0 {
				break
			}
			harvest.FactChecks = append(harvest.FactChecks, checks...)
		}
	}

	return harvest, nil
}

func extractFactChecks(doc *goquery.Document, base *url.URL) []domain.FactCheck {
	var checks []domain.FactCheck
	doc.Find("li.o-listicle__item").Each(func(_ int, item *goquery.Selection) {
		check, ok := parseFactCheck(item, base)
		if ok {
			checks = append(checks, check)
		}
	})
	return checks
}

func parseFactCheck(item *goquery.Selection, base *url.URL) (domain.FactCheck, bool) {
	link := item.Find("div.m-statement__quote a").First()
	if link.Length() == 0 {
		return domain.FactCheck{}, false
	}

	claim := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")
	if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
		href = base.ResolveReference(ref).String()
	}

	verdict := unknownVerdict
	if meter := item.Find("div.m-statement__meter"); meter.Length() > 0 {
		if alt, ok := meter.Find("img").First().Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			verdict = strings.ToLower(strings.TrimSpace(alt))
		}
	}

	return domain.FactCheck{
		Claim:       claim,
		Verdict:     verdict,
		SourceURL:   href,
		CheckerSite: politifactSite,
	}, true
}

func buildPageURL(base string, page int) (*url.URL, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid list url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed, nil
}
