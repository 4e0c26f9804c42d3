package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// journalSchema is applied on startup; the journal is the only table the gateway owns.
const journalSchema = `
CREATE TABLE IF NOT EXISTS client_journal (
	id          BIGSERIAL PRIMARY KEY,
	client_id   TEXT        NOT NULL,
	user_id     TEXT,
	action      TEXT        NOT NULL,
	method      TEXT,
	amount      NUMERIC(18, 2),
	reference   TEXT,
	status      TEXT        NOT NULL,
	detail      JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE client_journal ADD COLUMN IF NOT EXISTS user_id TEXT;
CREATE INDEX IF NOT EXISTS client_journal_client_idx ON client_journal (client_id, created_at DESC);
CREATE INDEX IF NOT EXISTS client_journal_user_idx ON client_journal (user_id, created_at DESC);
`

// NewPool creates a PostgreSQL connection pool and makes sure the journal table exists.
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DB_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, journalSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to apply journal schema: %w", err)
	}

	logrus.Info("Database connection established")
	return pool, nil
}
