package ports

import (
	"context"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/scanner"
)

// RawSource loads the labelled raw article tables.
type RawSource interface {
	LoadRaw() ([]domain.Article, error)
}

// PreparedStore persists the cleaned table between the prepare and features stages.
type PreparedStore interface {
	SavePrepared(rows []domain.Article) error
	LoadPrepared() ([]domain.Article, error)
}

// FeatureSink exports the feature table under the column contract.
type FeatureSink interface {
	WriteFeatures(path string, rows []domain.FeatureRow) error
}

// FeatureExtractor maps one cleaned article to its feature row. Implementations
// must be safe for concurrent use.
type FeatureExtractor interface {
	Extract(a domain.Article) domain.FeatureRow
}

// HarvestSource pulls fresh articles and fact-checks from upstream sites.
type HarvestSource interface {
	Collect(ctx context.Context) (scanner.Harvest, error)
}

// ArticleRepository is the data lake of scraped articles, fact-checks and
// prediction logs.
type ArticleRepository interface {
	SaveArticle(ctx context.Context, article domain.StoredArticle) (bool, error)
	SaveFactCheck(ctx context.Context, check domain.FactCheck) (bool, error)
	PendingArticles(ctx context.Context, limit int) ([]domain.StoredArticle, error)
	UnlabeledArticles(ctx context.Context) ([]domain.StoredArticle, error)
	FactChecks(ctx context.Context) ([]domain.FactCheck, error)
	SetLabel(ctx context.Context, articleID int64, label int, source string) error
	SavePredictions(ctx context.Context, predictions []domain.Prediction) error
}

// Classifier scores feature rows with the external baseline model.
type Classifier interface {
	Classify(ctx context.Context, rows []domain.FeatureRow) ([]domain.Classification, error)
}
