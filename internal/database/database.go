// Package database provides PostgreSQL connection management using pgx for
// the optional Postgres-backed catalog store.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectAttempts int
	RetryDelay      time.Duration
}

func (c PoolConfig) withDefaults() PoolConfig {
	if c.MaxConns <= 0 {
		c.MaxConns = 20
	}
	if c.MinConns <= 0 {
		c.MinConns = 2
	}
	if c.MaxConnLifetime <= 0 {
		c.MaxConnLifetime = 30 * time.Minute
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = 5 * time.Minute
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = 5
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	return c
}

// NewPool creates and validates a pgxpool connection pool.
// It retries to accommodate containers starting up.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	cfg = cfg.withDefaults()
	logger := log.With().Str("component", "database").Logger()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", cfg.ConnectAttempts).
			Dur("retry_in", cfg.RetryDelay).
			Msg("db connect attempt failed")
		if attempt == cfg.ConnectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryDelay):
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// schema mirrors the gallery's collection layout: a category index and a
// newest-first ordering index.
var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS pandal_entry_ids`,
	`CREATE TABLE IF NOT EXISTS pandal_entries (
		seq        BIGSERIAL UNIQUE,
		id         BIGINT PRIMARY KEY,
		title      TEXT NOT NULL,
		location   TEXT NOT NULL,
		pandal     TEXT NOT NULL,
		category   TEXT NOT NULL,
		image      TEXT NOT NULL,
		rating     DOUBLE PRECISION NOT NULL DEFAULT 0,
		likes      BIGINT NOT NULL DEFAULT 0 CHECK (likes >= 0),
		entry_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pandal_entries_category ON pandal_entries(category)`,
	`CREATE INDEX IF NOT EXISTS idx_pandal_entries_seq ON pandal_entries(seq DESC)`,
}

// Migrate creates the catalog tables and indexes if they don't exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
