package storage

func schema(driver string) []string {
	if driver == DriverPostgres {
		return []string{
			`CREATE TABLE IF NOT EXISTS articles (
				id BIGSERIAL PRIMARY KEY,
				url TEXT NOT NULL UNIQUE,
				source TEXT NOT NULL DEFAULT '',
				title TEXT NOT NULL DEFAULT '',
				text TEXT NOT NULL DEFAULT '',
				authors TEXT NOT NULL DEFAULT '',
				publish_date TEXT NOT NULL DEFAULT '',
				scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				is_processed INTEGER NOT NULL DEFAULT 0,
				verified_label INTEGER,
				label_source TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS fact_checks (
				id BIGSERIAL PRIMARY KEY,
				claim TEXT NOT NULL,
				verdict TEXT NOT NULL DEFAULT '',
				source_url TEXT NOT NULL UNIQUE,
				checker_site TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS predictions (
				id BIGSERIAL PRIMARY KEY,
				article_id BIGINT NOT NULL REFERENCES articles(id),
				model_version TEXT NOT NULL,
				predicted_label INTEGER NOT NULL,
				confidence_score DOUBLE PRECISION NOT NULL,
				run_id TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_articles_pending ON articles(is_processed)`,
		}
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '',
			publish_date TEXT NOT NULL DEFAULT '',
			scraped_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_processed INTEGER NOT NULL DEFAULT 0,
			verified_label INTEGER,
			label_source TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS fact_checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			claim TEXT NOT NULL,
			verdict TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL UNIQUE,
			checker_site TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL REFERENCES articles(id),
			model_version TEXT NOT NULL,
			predicted_label INTEGER NOT NULL,
			confidence_score REAL NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_pending ON articles(is_processed)`,
	}
}
