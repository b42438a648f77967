package parser

import (
	"context"
	"errors"
	"testing"

	"FakeNewsFeatures/internal/config"
	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/scanner"
)

type fakeScanner struct {
	name    string
	harvest scanner.Harvest
	err     error
	got     scanner.Request
}

func (f *fakeScanner) Name() string { return f.name }

func (f *fakeScanner) Scan(_ context.Context, req scanner.Request) (scanner.Harvest, error) {
	f.got = req
	return f.harvest, f.err
}

func TestStrategySourceCollect(t *testing.T) {
	t.Parallel()

	rss := &fakeScanner{
		name: "rss",
		harvest: scanner.Harvest{Articles: []domain.StoredArticle{
			{URL: "https://a.example/1"},
			{URL: "https://a.example/2", Source: "Feed B"},
		}},
		err: errors.New("one entry failed"),
	}
	checks := &fakeScanner{
		name:    "politifact",
		harvest: scanner.Harvest{FactChecks: []domain.FactCheck{{Claim: "c", Verdict: "false"}}},
	}

	reg := scanner.NewRegistry()
	reg.Register(rss)
	reg.Register(checks)

	sites := []config.SiteConfig{
		{Name: "news", Scanner: "rss", Limit: 3, Targets: []config.TargetConfig{{Name: "Feed A", URL: "https://a.example/feed"}}},
		{Name: "judge", Scanner: "politifact"},
	}
	src := NewStrategySource(reg, sites, nil)

	harvest, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(harvest.Articles) != 2 || len(harvest.FactChecks) != 1 {
		t.Fatalf("unexpected harvest: %+v", harvest)
	}
	if harvest.Articles[0].Source != "news" || harvest.Articles[1].Source != "Feed B" {
		t.Fatalf("sources not defaulted: %+v", harvest.Articles)
	}
	if rss.got.Limit != 3 || len(rss.got.Targets) != 1 || rss.got.Targets[0].URL != "https://a.example/feed" {
		t.Fatalf("unexpected request: %+v", rss.got)
	}
}

func TestStrategySourceUnknownScanner(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(scanner.NewRegistry(), []config.SiteConfig{{Name: "x", Scanner: "missing"}}, nil)
	if _, err := src.Collect(context.Background()); err == nil {
		t.Fatalf("expected error for unregistered scanner")
	}
}
