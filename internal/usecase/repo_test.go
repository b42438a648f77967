package usecase

import (
	"context"
	"sync"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
)

type labelCall struct {
	label  int
	source string
}

// memRepo is an in-memory ArticleRepository keyed by URL like the SQL store.
type memRepo struct {
	mu          sync.Mutex
	articles    []domain.StoredArticle
	checks      []domain.FactCheck
	labels      map[int64]labelCall
	predictions []domain.Prediction
}

var _ ports.ArticleRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{labels: make(map[int64]labelCall)}
}

func (m *memRepo) SaveArticle(_ context.Context, a domain.StoredArticle) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.articles {
		if existing.URL == a.URL {
			return false, nil
		}
	}
	a.ID = int64(len(m.articles) + 1)
	m.articles = append(m.articles, a)
	return true, nil
}

func (m *memRepo) SaveFactCheck(_ context.Context, c domain.FactCheck) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.checks {
		if existing.SourceURL == c.SourceURL {
			return false, nil
		}
	}
	c.ID = int64(len(m.checks) + 1)
	m.checks = append(m.checks, c)
	return true, nil
}

func (m *memRepo) PendingArticles(_ context.Context, limit int) ([]domain.StoredArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredArticle
	for _, a := range m.articles {
		if limit > 0 && len(out) == limit {
			break
		}
		if !a.Processed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) UnlabeledArticles(_ context.Context) ([]domain.StoredArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredArticle
	for _, a := range m.articles {
		if a.VerifiedLabel == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) FactChecks(_ context.Context) ([]domain.FactCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.FactCheck(nil), m.checks...), nil
}

func (m *memRepo) SetLabel(_ context.Context, articleID int64, label int, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.articles {
		if m.articles[i].ID == articleID {
			v := label
			m.articles[i].VerifiedLabel = &v
			m.articles[i].LabelSource = source
		}
	}
	m.labels[articleID] = labelCall{label: label, source: source}
	return nil
}

func (m *memRepo) SavePredictions(_ context.Context, predictions []domain.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range predictions {
		m.predictions = append(m.predictions, p)
		for i := range m.articles {
			if m.articles[i].ID == p.ArticleID {
				m.articles[i].Processed = true
			}
		}
	}
	return nil
}
