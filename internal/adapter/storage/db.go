// internal/adapter/storage/db.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DB is the subset of *pgxpool.Pool the stores use
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var _ DB = (*pgxpool.Pool)(nil)

const schema = `
	CREATE TABLE IF NOT EXISTS posts (
		post_id          TEXT,
		post_date        DATE NOT NULL,
		platform         TEXT NOT NULL,
		hashtag          TEXT NOT NULL,
		content_type     TEXT,
		region           TEXT,
		views            BIGINT NOT NULL DEFAULT 0,
		likes            BIGINT NOT NULL DEFAULT 0,
		shares           BIGINT NOT NULL DEFAULT 0,
		comments         BIGINT NOT NULL DEFAULT 0,
		engagement_level TEXT
	);

	CREATE INDEX IF NOT EXISTS posts_platform_date_idx ON posts (LOWER(platform), post_date);

	CREATE TABLE IF NOT EXISTS analyses (
		id                   UUID PRIMARY KEY,
		keyword              TEXT NOT NULL,
		platform             TEXT NOT NULL,
		start_date           DATE NOT NULL,
		end_date             DATE NOT NULL,
		status               TEXT NOT NULL,
		confidence           DOUBLE PRECISION NOT NULL,
		decline_time         TEXT NOT NULL,
		data_source          TEXT NOT NULL,
		signals              JSONB NOT NULL,
		importance           JSONB NOT NULL,
		reasoning            TEXT NOT NULL,
		analyzed_at          TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS analyses_analyzed_at_idx ON analyses (analyzed_at DESC);
`

// Connect opens a connection pool and verifies it with a ping
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the posts and analyses tables when missing
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}
