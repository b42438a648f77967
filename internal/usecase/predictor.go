package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
	"FakeNewsFeatures/internal/textnorm"
)

// PredictorDeps wires the store, extractor and classifier for prediction logging.
type PredictorDeps struct {
	Repo         ports.ArticleRepository
	Extractor    ports.FeatureExtractor
	Classifier   ports.Classifier
	ModelVersion string
	RunID        string
	Workers      int
	Limit        int
	Logger       *slog.Logger
}

// Predictor scores unprocessed stored articles and logs the predictions.
type Predictor struct {
	repo         ports.ArticleRepository
	extractor    ports.FeatureExtractor
	classifier   ports.Classifier
	modelVersion string
	runID        string
	workers      int
	limit        int
	logger       *slog.Logger
	now          func() time.Time
}

// NewPredictor constructs the prediction use case.
func NewPredictor(deps PredictorDeps) *Predictor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}
	return &Predictor{
		repo:         deps.Repo,
		extractor:    deps.Extractor,
		classifier:   deps.Classifier,
		modelVersion: deps.ModelVersion,
		runID:        deps.RunID,
		workers:      workers,
		limit:        deps.Limit,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Predict runs pending articles through normalization, feature extraction and
// the classifier, then stores one prediction per article.
func (p *Predictor) Predict(ctx context.Context) ([]domain.Prediction, error) {
	if p.repo == nil || p.classifier == nil {
		return nil, fmt.Errorf("predictor is not configured")
	}

	pending, err := p.repo.PendingArticles(ctx, p.limit)
	if err != nil {
		return nil, fmt.Errorf("load pending articles: %w", err)
	}
	if len(pending) == 0 {
		p.logger.Info("no pending articles")
		return nil, nil
	}

	articles := make([]domain.Article, 0, len(pending))
	for _, stored := range pending {
		articles = append(articles, textnorm.Apply(domain.Article{
			ID:       stored.ID,
			Subject:  stored.Source,
			TitleRaw: stored.Title,
			TextRaw:  stored.Text,
			DateRaw:  stored.PublishDate,
		}))
	}

	rows, err := extractAll(ctx, p.extractor, articles, p.workers, p.logger)
	if err != nil {
		return nil, err
	}

	results, err := p.classifier.Classify(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if len(results) != len(rows) {
		return nil, fmt.Errorf("classify: got %d results for %d rows", len(results), len(rows))
	}

	created := p.now()
	predictions := make([]domain.Prediction, 0, len(results))
	fake := 0
	for i, res := range results {
		if res.Label == domain.LabelFake {
			fake++
		}
		predictions = append(predictions, domain.Prediction{
			ArticleID:       pending[i].ID,
			ModelVersion:    p.modelVersion,
			PredictedLabel:  res.Label,
			ConfidenceScore: res.Confidence,
			RunID:           p.runID,
			CreatedAt:       created,
		})
	}

	if err := p.repo.SavePredictions(ctx, predictions); err != nil {
		return nil, fmt.Errorf("save predictions: %w", err)
	}

	p.logger.Info("predictions stored",
		"model_version", p.modelVersion,
		"fake", fake,
		"total", len(predictions),
	)
	return predictions, nil
}
