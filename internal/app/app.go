package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"FakeNewsFeatures/internal/batch"
	"FakeNewsFeatures/internal/config"
	"FakeNewsFeatures/internal/features"
	"FakeNewsFeatures/internal/infrastructure/ml"
	"FakeNewsFeatures/internal/infrastructure/parser"
	"FakeNewsFeatures/internal/infrastructure/storage"
	"FakeNewsFeatures/internal/infrastructure/table"
	"FakeNewsFeatures/internal/logging"
	"FakeNewsFeatures/internal/scanner"
	"FakeNewsFeatures/internal/usecase"
)

// Commands understood by Execute.
const (
	CommandPrepare  = "prepare"
	CommandFeatures = "features"
	CommandRun      = "run"
	CommandCollect  = "collect"
	CommandLabel    = "label"
	CommandPredict  = "predict"
)

// ErrUnknownCommand is returned by Execute for unsupported commands.
var ErrUnknownCommand = errors.New("unknown command")

// Commands lists every command in help order.
var Commands = []string{CommandPrepare, CommandFeatures, CommandRun, CommandCollect, CommandLabel, CommandPredict}

// Application wires configs to use cases.
type Application struct {
	cfg    config.Config
	runID  string
	logger *slog.Logger
}

// New builds an application instance for one run.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.NewWithFormat(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	}
	runID := uuid.NewString()
	return &Application{
		cfg:    cfg,
		runID:  runID,
		logger: baseLogger.With("run_id", runID),
	}
}

// RunID identifies this run in logs and prediction records.
func (a *Application) RunID() string {
	return a.runID
}

// Execute dispatches one command.
func (a *Application) Execute(ctx context.Context, command string) error {
	start := time.Now()
	a.logger.Info("command started", "command", command)

	var err error
	switch command {
	case CommandPrepare:
		err = a.Prepare(ctx)
	case CommandFeatures:
		err = a.Features(ctx)
	case CommandRun:
		err = a.Run(ctx)
	case CommandCollect:
		err = a.Collect(ctx)
	case CommandLabel:
		err = a.Label(ctx)
	case CommandPredict:
		err = a.Predict(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	a.logger.Info("command finished", "command", command, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Prepare loads, cleans and deduplicates the raw sources into the prepared table.
func (a *Application) Prepare(ctx context.Context) error {
	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}
	_, err = pipeline.Prepare(ctx)
	return err
}

// Features extracts and exports the feature table from the prepared table.
func (a *Application) Features(ctx context.Context) error {
	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}
	return pipeline.Features(ctx)
}

// Run executes prepare and features back to back.
func (a *Application) Run(ctx context.Context) error {
	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}
	return pipeline.Run(ctx)
}

// Collect harvests the configured feeds and fact-check pages into the store.
func (a *Application) Collect(ctx context.Context) error {
	repo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	source := parser.NewStrategySource(a.registry(), a.cfg.Collect.Sites, a.component("source"))
	_, err = usecase.NewCollector(source, repo, a.component("collector")).Collect(ctx)
	return err
}

// Label matches stored articles against fact-check verdicts.
func (a *Application) Label(ctx context.Context) error {
	repo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	_, err = usecase.NewLabeler(repo, a.cfg.Label.MinSimilarity, a.component("labeler")).Label(ctx)
	return err
}

// Predict scores unprocessed stored articles with the external classifier.
func (a *Application) Predict(ctx context.Context) error {
	extractor, err := a.extractor()
	if err != nil {
		return err
	}
	repo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	c := a.cfg.Classifier
	predictor := usecase.NewPredictor(usecase.PredictorDeps{
		Repo:         repo,
		Extractor:    extractor,
		Classifier:   ml.NewClient(c.Endpoint, c.APIKey, c.BatchSize),
		ModelVersion: c.ModelVersion,
		RunID:        a.runID,
		Workers:      a.workers(),
		Limit:        c.Limit,
		Logger:       a.component("predictor"),
	})
	_, err = predictor.Predict(ctx)
	return err
}

func (a *Application) pipeline() (*usecase.Pipeline, error) {
	extractor, err := a.extractor()
	if err != nil {
		return nil, err
	}
	writer, err := table.NewFeatureWriter(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	sources := make([]table.Source, 0, len(a.cfg.Input.Sources))
	for _, s := range a.cfg.Input.Sources {
		sources = append(sources, table.Source{Path: s.Path, IsFake: s.IsFake})
	}
	files := table.Files{Sources: sources, PreparedPath: a.cfg.Input.Prepared}

	return usecase.NewPipeline(usecase.PipelineDeps{
		Raw:       files,
		Prepared:  files,
		Extractor: extractor,
		Sink:      writer,
		Filters: usecase.Filters{
			MinTitleChars: a.cfg.Filters.MinTitleChars,
			MinTextChars:  a.cfg.Filters.MinTextChars,
		},
		Workers:    a.workers(),
		OutputPath: a.cfg.Output.Features,
		Logger:     a.component("pipeline"),
	}), nil
}

func (a *Application) extractor() (*features.Extractor, error) {
	lex, err := features.LoadLexicons(a.cfg.Features.SentimentLexicon, a.cfg.Features.EmotionLexicon)
	if err != nil {
		return nil, fmt.Errorf("load lexicons: %w", err)
	}
	a.component("features").Debug("lexicons loaded",
		"sentiment_words", len(lex.Sentiment),
		"emotion_words", len(lex.Emotion))
	return features.NewExtractor(lex), nil
}

func (a *Application) openRepository(ctx context.Context) (*storage.Repository, error) {
	db := a.cfg.Database
	if strings.EqualFold(db.Driver, storage.DriverSQLite) && !strings.HasPrefix(db.DSN, "file:") && db.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(db.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	repo, err := storage.Open(ctx, db.Driver, db.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return repo, nil
}

func (a *Application) registry() *scanner.Registry {
	opts := parser.FetchOptions{
		UserAgent: a.cfg.Collect.UserAgent,
		Interval:  a.cfg.Collect.RequestInterval,
	}
	client := &http.Client{Timeout: 30 * time.Second}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(client, opts, a.cfg.Collect.MinArticleChars, a.component("scanner.rss")))
	registry.Register(parser.NewPolitiFactScanner(client, opts, a.component("scanner.politifact")))
	return registry
}

func (a *Application) workers() int {
	return batch.Workers(a.cfg.Features.Workers, a.cfg.Features.ReservedCores)
}

func (a *Application) component(name string) *slog.Logger {
	return a.logger.With("component", name)
}
