package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"FakeNewsFeatures/internal/ports"
)

// CollectStats summarises one collect run.
type CollectStats struct {
	ArticlesSaved       int
	ArticlesDuplicate   int
	FactChecksSaved     int
	FactChecksDuplicate int
}

// Collector fills the data lake from the configured scanners.
type Collector struct {
	source ports.HarvestSource
	repo   ports.ArticleRepository
	logger *slog.Logger
}

// NewCollector wires a harvest source to the article repository.
func NewCollector(source ports.HarvestSource, repo ports.ArticleRepository, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{source: source, repo: repo, logger: logger}
}

// Collect harvests every site and stores new articles and fact-checks.
// Rows already present (same URL) are skipped and counted as duplicates.
func (c *Collector) Collect(ctx context.Context) (CollectStats, error) {
	var stats CollectStats
	if c.source == nil || c.repo == nil {
		return stats, fmt.Errorf("collector is not configured")
	}

	harvest, err := c.source.Collect(ctx)
	if err != nil {
		return stats, fmt.Errorf("collect: %w", err)
	}

	for _, article := range harvest.Articles {
		saved, err := c.repo.SaveArticle(ctx, article)
		if err != nil {
			return stats, fmt.Errorf("save article %s: %w", article.URL, err)
		}
		if saved {
			stats.ArticlesSaved++
		} else {
			stats.ArticlesDuplicate++
		}
	}

	for _, check := range harvest.FactChecks {
		saved, err := c.repo.SaveFactCheck(ctx, check)
		if err != nil {
			return stats, fmt.Errorf("save fact check %s: %w", check.SourceURL, err)
		}
		if saved {
			stats.FactChecksSaved++
		} else {
			stats.FactChecksDuplicate++
		}
	}

	c.logger.Info("collect finished",
		"articles_saved", stats.ArticlesSaved,
		"articles_duplicate", stats.ArticlesDuplicate,
		"fact_checks_saved", stats.FactChecksSaved,
		"fact_checks_duplicate", stats.FactChecksDuplicate,
	)
	return stats, nil
}
