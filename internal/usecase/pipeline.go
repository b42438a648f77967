package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"FakeNewsFeatures/internal/batch"
	"FakeNewsFeatures/internal/datenorm"
	"FakeNewsFeatures/internal/dedup"
	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
	"FakeNewsFeatures/internal/textnorm"
)

// Filters are the minimum title and body lengths, in characters.
type Filters struct {
	MinTitleChars int
	MinTextChars  int
}

func (f Filters) keep(title, text string) bool {
	return textnorm.Len(title) >= f.MinTitleChars && textnorm.Len(text) >= f.MinTextChars
}

// PipelineDeps wires all driven adapters into the feature pipeline.
type PipelineDeps struct {
	Raw        ports.RawSource
	Prepared   ports.PreparedStore
	Extractor  ports.FeatureExtractor
	Sink       ports.FeatureSink
	Filters    Filters
	Workers    int
	OutputPath string
	Logger     *slog.Logger
}

// Pipeline implements the offline raw-table to feature-table workflow.
type Pipeline struct {
	raw        ports.RawSource
	prepared   ports.PreparedStore
	extractor  ports.FeatureExtractor
	sink       ports.FeatureSink
	filters    Filters
	workers    int
	outputPath string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		raw:        deps.Raw,
		prepared:   deps.Prepared,
		extractor:  deps.Extractor,
		sink:       deps.Sink,
		filters:    deps.Filters,
		workers:    workers,
		outputPath: deps.OutputPath,
		logger:     logger,
	}
}

// Run executes prepare, extract and export back to back.
func (p *Pipeline) Run(ctx context.Context) error {
	rows, err := p.Prepare(ctx)
	if err != nil {
		return err
	}
	return p.extractAndExport(ctx, rows)
}

// Features extracts and exports from a previously prepared table.
func (p *Pipeline) Features(ctx context.Context) error {
	if p.prepared == nil {
		return fmt.Errorf("prepared table is not configured")
	}
	rows, err := p.prepared.LoadPrepared()
	if err != nil {
		return fmt.Errorf("load prepared: %w", err)
	}
	p.logger.Info("prepared table loaded", "rows", len(rows))
	return p.extractAndExport(ctx, rows)
}

// Prepare loads the raw sources, cleans them and persists the prepared table.
func (p *Pipeline) Prepare(ctx context.Context) ([]domain.Article, error) {
	if p.raw == nil {
		return nil, fmt.Errorf("raw source is not configured")
	}
	raw, err := p.raw.LoadRaw()
	if err != nil {
		return nil, fmt.Errorf("load raw: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := Clean(raw, p.filters, p.logger)

	if p.prepared != nil {
		if err := p.prepared.SavePrepared(rows); err != nil {
			return nil, fmt.Errorf("save prepared: %w", err)
		}
		p.logger.Info("prepared table written", "rows", len(rows))
	}
	return rows, nil
}

// Clean runs the sequential cleaning stages: raw length filter, text
// normalization, cleaned length filter, date normalization, stable date sort
// with missing dates last, and deduplication.
func Clean(raw []domain.Article, filters Filters, logger *slog.Logger) []domain.Article {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rows := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		if filters.keep(a.TitleRaw, a.TextRaw) {
			rows = append(rows, a)
		}
	}
	logger.Info("raw length filter", "input", len(raw), "dropped", len(raw)-len(rows))

	cleaned := make([]domain.Article, 0, len(rows))
	for _, a := range rows {
		a = textnorm.Apply(a)
		if !filters.keep(a.Title, a.Text) {
			continue
		}
		a.Date = datenorm.Normalize(a.DateRaw)
		cleaned = append(cleaned, a)
	}
	logger.Info("cleaned length filter", "input", len(rows), "dropped", len(rows)-len(cleaned))

	missing := 0
	for _, a := range cleaned {
		if !a.HasDate() {
			missing++
		}
	}
	logger.Info("dates normalized", "rows", len(cleaned), "missing", missing)

	sorted := dedup.SortByDate(cleaned)
	return dedup.New(logger).Deduplicate(sorted)
}

// Extract computes feature rows in parallel contiguous chunks. Output order
// matches rows; any worker failure aborts with no partial output.
func (p *Pipeline) Extract(ctx context.Context, rows []domain.Article) ([]domain.FeatureRow, error) {
	return extractAll(ctx, p.extractor, rows, p.workers, p.logger)
}

// Export writes the feature table to the configured path.
func (p *Pipeline) Export(rows []domain.FeatureRow) error {
	if p.sink == nil {
		return fmt.Errorf("feature sink is not configured")
	}
	if err := p.sink.WriteFeatures(p.outputPath, rows); err != nil {
		return fmt.Errorf("export features: %w", err)
	}
	p.logger.Info("feature table written", "path", p.outputPath, "rows", len(rows))
	return nil
}

func (p *Pipeline) extractAndExport(ctx context.Context, rows []domain.Article) error {
	features, err := p.Extract(ctx, rows)
	if err != nil {
		return err
	}
	return p.Export(features)
}

func extractAll(ctx context.Context, extractor ports.FeatureExtractor, rows []domain.Article, workers int, logger *slog.Logger) ([]domain.FeatureRow, error) {
	if extractor == nil {
		return nil, fmt.Errorf("feature extractor is not configured")
	}

	chunks := len(batch.Split(len(rows), workers))
	logger.Info("feature extraction started", "rows", len(rows), "workers", workers, "chunks", chunks)

	features, err := batch.Map(ctx, rows, workers, func(a domain.Article) (domain.FeatureRow, error) {
		return extractor.Extract(a), nil
	})
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	logger.Info("feature extraction done", "rows", len(features))
	return features, nil
}
