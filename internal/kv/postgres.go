package kv

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the keyspace in a single kv_entries table with jsonb
// values, upserting on write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MinConns = 1
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS kv_entries (
    kv_key     text PRIMARY KEY,
    kv_value   jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
  )`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, q)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT kv_value FROM kv_entries WHERE kv_key=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var value []byte
	err := s.pool.QueryRow(ctx, q, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return value, err
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO kv_entries (kv_key, kv_value, updated_at)
  VALUES ($1, $2, now())
  ON CONFLICT (kv_key) DO UPDATE SET kv_value = $2, updated_at = now()`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, q, key, value)
	return err
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_entries WHERE kv_key=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, q, key)
	return err
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
