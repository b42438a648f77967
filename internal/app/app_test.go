package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"FakeNewsFeatures/internal/config"
	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/infrastructure/storage"
	"FakeNewsFeatures/internal/infrastructure/table"
)

var longBody = strings.Repeat("Officials said the plan would be reviewed again next week. ", 4)

func writeRaw(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(append([][]string{{"title", "text", "subject", "date"}}, rows...)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	fake := filepath.Join(dir, "Fake.csv")
	truth := filepath.Join(dir, "True.csv")
	writeRaw(t, fake, [][]string{
		{"SHOCKING: Senator caught in huge scandal!!!", longBody + "You will not believe it!", "politics", "December 31, 2017"},
		{"Celebrity reportedly endorses miracle cure", longBody, "News", "Jan 5, 2016"},
	})
	writeRaw(t, truth, [][]string{
		{"Senate committee schedules budget hearing", "WASHINGTON (Reuters) - " + longBody, "politicsNews", "2017-12-29"},
	})

	cfg := config.Default()
	cfg.Input.Sources = []config.SourceConfig{{Path: fake, IsFake: true}, {Path: truth}}
	cfg.Input.Prepared = filepath.Join(dir, "processed", "prepared.csv")
	cfg.Output.Features = filepath.Join(dir, "processed", "features.csv")
	cfg.Features.Workers = 2
	cfg.Database = config.DatabaseConfig{Driver: "sqlite3", DSN: filepath.Join(dir, "db", "lake.db")}
	return cfg
}

func quietApp(cfg config.Config) *Application {
	return New(cfg, slog.New(slog.DiscardHandler))
}

func TestExecuteUnknownCommand(t *testing.T) {
	t.Parallel()

	err := quietApp(config.Default()).Execute(context.Background(), "train")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}

func TestRunWritesFeatureTable(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	application := quietApp(cfg)
	if application.RunID() == "" {
		t.Fatalf("empty run id")
	}

	if err := application.Execute(context.Background(), CommandRun); err != nil {
		t.Fatalf("run: %v", err)
	}

	prepared, err := table.ReadPrepared(cfg.Input.Prepared)
	if err != nil {
		t.Fatalf("read prepared: %v", err)
	}
	if len(prepared) != 3 {
		t.Fatalf("prepared rows = %d, want 3", len(prepared))
	}

	rows, err := table.ReadFeatures(cfg.Output.Features)
	if err != nil {
		t.Fatalf("read features: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("feature rows = %d, want 3", len(rows))
	}
	fake := 0
	for i, row := range rows {
		if row.ID != prepared[i].ID {
			t.Fatalf("row %d id = %d, prepared id = %d", i, row.ID, prepared[i].ID)
		}
		fake += row.IsFake
		if row.NWord == 0 || row.AvgWordLen == 0 {
			t.Fatalf("row %d has empty features: %+v", i, row)
		}
	}
	if fake != 2 {
		t.Fatalf("fake rows = %d, want 2", fake)
	}

	// the features command reproduces the same bytes from the prepared table
	first, err := os.ReadFile(cfg.Output.Features)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if err := application.Execute(context.Background(), CommandFeatures); err != nil {
		t.Fatalf("features: %v", err)
	}
	second, err := os.ReadFile(cfg.Output.Features)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("feature table changed between runs")
	}
}

func TestRunMissingInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Input.Sources = []config.SourceConfig{{Path: filepath.Join(t.TempDir(), "absent.csv")}}

	err := quietApp(cfg).Execute(context.Background(), CommandPrepare)
	if !errors.Is(err, table.ErrMissingInput) {
		t.Fatalf("err = %v, want ErrMissingInput", err)
	}
}

func TestPredictStoresPredictions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Rows [][]float64 `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		preds := make([]domain.Classification, len(req.Rows))
		for i := range preds {
			preds[i] = domain.Classification{Label: 1, Confidence: 0.9}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"predictions": preds})
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Classifier.Endpoint = server.URL
	application := quietApp(cfg)

	ctx := context.Background()
	if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	repo, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for _, url := range []string{"https://news.test/a", "https://news.test/b"} {
		if _, err := repo.SaveArticle(ctx, domain.StoredArticle{URL: url, Title: "Budget talks resume in the capital", Text: longBody}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := application.Execute(ctx, CommandPredict); err != nil {
		t.Fatalf("predict: %v", err)
	}

	repo, err = storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer repo.Close()
	pending, err := repo.PendingArticles(ctx, 0)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after predict = %d", len(pending))
	}
}
