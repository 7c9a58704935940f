package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/salonbook/libs/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS salon_client_kv (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// Postgres stores entries in one table, partitioned by namespace (one per user profile).
type Postgres struct {
	pool      *db.Pool
	namespace string
}

func NewPostgres(ctx context.Context, pool *db.Pool, namespace string) (*Postgres, error) {
	if pool == nil {
		return nil, errors.New("postgres pool required")
	}
	if namespace == "" {
		namespace = "default"
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, namespace: namespace}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := p.pool.QueryRow(ctx, `
		SELECT value FROM salon_client_kv
		WHERE namespace = $1 AND key = $2
	`, p.namespace, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (p *Postgres) Set(ctx context.Context, entries map[string]string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for k, v := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO salon_client_kv (namespace, key, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (namespace, key)
			DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		`, p.namespace, k, v); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := p.pool.Exec(ctx, `
		DELETE FROM salon_client_kv
		WHERE namespace = $1 AND key = ANY($2)
	`, p.namespace, keys)
	return err
}

// Close leaves the pool open; its owner closes it.
func (p *Postgres) Close() error { return nil }
