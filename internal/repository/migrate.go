package repository

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cases (
		case_id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		file_type TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_size BIGINT NOT NULL DEFAULT 0,
		content_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		uploaded_at TEXT NOT NULL,
		processed_at TEXT,
		raw_text TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		word_count INTEGER NOT NULL DEFAULT 0,
		reading_minutes INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cases_content_hash_key ON cases (content_hash)`,
	`CREATE INDEX IF NOT EXISTS cases_uploaded_at_idx ON cases (uploaded_at)`,
	`CREATE TABLE IF NOT EXISTS summaries (
		case_id TEXT PRIMARY KEY REFERENCES cases (case_id) ON DELETE CASCADE,
		overview TEXT NOT NULL,
		key_points TEXT NOT NULL,
		entities TEXT NOT NULL,
		timeline TEXT NOT NULL,
		processing_ms BIGINT NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id %s,
		case_id TEXT NOT NULL REFERENCES cases (case_id) ON DELETE CASCADE,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comments TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS feedback_case_id_idx ON feedback (case_id)`,
	`CREATE TABLE IF NOT EXISTS analytics (
		id %s,
		metric_name TEXT NOT NULL,
		metric_value DOUBLE PRECISION NOT NULL,
		recorded_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS analytics_metric_name_idx ON analytics (metric_name)`,
}

// Migrate creates the tables if they do not exist. It is safe to run on every start.
func (d *DB) Migrate(ctx context.Context) error {
	idCol := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.Dialect() == dialect.Postgres {
		idCol = "BIGSERIAL PRIMARY KEY"
	}
	for _, stmt := range schemaStatements {
		if strings.Contains(stmt, "%s") {
			stmt = fmt.Sprintf(stmt, idCol)
		}
		if _, err := d.conn().ExecContext(ctx, stmt); err != nil {
			d.logger.Error("migration failed", "error", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	d.logger.Info("database schema ready", "dialect", d.Dialect())
	return nil
}
