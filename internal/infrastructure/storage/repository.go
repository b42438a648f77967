package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var articleColumns = []string{
	"id", "url", "source", "title", "text", "authors", "publish_date",
	"scraped_at", "is_processed", "verified_label", "label_source",
}

// Repository persists scraped articles, fact-checks and prediction logs in
// Postgres or SQLite. Every statement is built with squirrel so the same code
// serves both placeholder styles.
type Repository struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
}

var _ ports.ArticleRepository = (*Repository)(nil)

// Open connects, pings and migrates the schema.
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	driver, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := NewRepository(db, driver)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewRepository wires an open sql.DB for the given driver.
func NewRepository(db *sql.DB, driver string) *Repository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	return &Repository{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Migrate creates the tables if they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema(r.driver) {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveArticle inserts an article unless its URL is already stored.
// It reports whether a row was written.
func (r *Repository) SaveArticle(ctx context.Context, a domain.StoredArticle) (bool, error) {
	scraped := a.ScrapedAt
	if scraped.IsZero() {
		scraped = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("articles").
		Columns("url", "source", "title", "text", "authors", "publish_date", "scraped_at").
		Values(a.URL, a.Source, a.Title, a.Text, a.Authors, a.PublishDate, scraped).
		Suffix("ON CONFLICT (url) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert article: %w", err)
	}
	return r.execInserted(ctx, query, args)
}

// SaveFactCheck inserts a verdict unless its source URL is already stored.
func (r *Repository) SaveFactCheck(ctx context.Context, c domain.FactCheck) (bool, error) {
	query, args, err := r.sb.Insert("fact_checks").
		Columns("claim", "verdict", "source_url", "checker_site").
		Values(c.Claim, c.Verdict, c.SourceURL, c.CheckerSite).
		Suffix("ON CONFLICT (source_url) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert fact check: %w", err)
	}
	return r.execInserted(ctx, query, args)
}

// PendingArticles returns articles not yet scored, oldest first. A
// non-positive limit returns all of them.
func (r *Repository) PendingArticles(ctx context.Context, limit int) ([]domain.StoredArticle, error) {
	builder := r.sb.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"is_processed": 0}).
		OrderBy("id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return r.queryArticles(ctx, builder)
}

// UnlabeledArticles returns articles without a verified label.
func (r *Repository) UnlabeledArticles(ctx context.Context) ([]domain.StoredArticle, error) {
	builder := r.sb.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"verified_label": nil}).
		OrderBy("id")
	return r.queryArticles(ctx, builder)
}

// FactChecks returns every stored verdict.
func (r *Repository) FactChecks(ctx context.Context) ([]domain.FactCheck, error) {
	query, args, err := r.sb.Select("id", "claim", "verdict", "source_url", "checker_site").
		From("fact_checks").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select fact checks: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fact checks: %w", err)
	}
	defer rows.Close()

	var checks []domain.FactCheck
	for rows.Next() {
		var c domain.FactCheck
		if err := rows.Scan(&c.ID, &c.Claim, &c.Verdict, &c.SourceURL, &c.CheckerSite); err != nil {
			return nil, fmt.Errorf("scan fact check: %w", err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return checks, nil
}

// SetLabel records a verified label and where it came from.
func (r *Repository) SetLabel(ctx context.Context, articleID int64, label int, source string) error {
	query, args, err := r.sb.Update("articles").
		Set("verified_label", label).
		Set("label_source", source).
		Where(sq.Eq{"id": articleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update label: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update label %d: %w", articleID, err)
	}
	return nil
}

// SavePredictions logs every prediction and marks its article processed,
// all in one transaction.
func (r *Repository) SavePredictions(ctx context.Context, predictions []domain.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	for _, p := range predictions {
		created := p.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}

		query, args, err := r.sb.Insert("predictions").
			Columns("article_id", "model_version", "predicted_label", "confidence_score", "run_id", "created_at").
			Values(p.ArticleID, p.ModelVersion, p.PredictedLabel, p.ConfidenceScore, p.RunID, created).
			ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build insert prediction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert prediction for %d: %w", p.ArticleID, err)
		}

		query, args, err = r.sb.Update("articles").
			Set("is_processed", 1).
			Where(sq.Eq{"id": p.ArticleID}).
			ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build mark processed: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("mark processed %d: %w", p.ArticleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit predictions: %w", err)
	}
	return nil
}

func (r *Repository) execInserted(ctx context.Context, query string, args []any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) queryArticles(ctx context.Context, builder sq.SelectBuilder) ([]domain.StoredArticle, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select articles: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var result []domain.StoredArticle
	for rows.Next() {
		var (
			a         domain.StoredArticle
			processed int
			label     sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.URL, &a.Source, &a.Title, &a.Text, &a.Authors,
			&a.PublishDate, &a.ScrapedAt, &processed, &label, &a.LabelSource); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Processed = processed != 0
		if label.Valid {
			v := int(label.Int64)
			a.VerifiedLabel = &v
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

func normalizeDriver(driver string) (string, error) {
	switch driver {
	case DriverPostgres, "postgresql":
		return DriverPostgres, nil
	case DriverSQLite, "sqlite", "":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
