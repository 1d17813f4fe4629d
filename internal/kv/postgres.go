package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/example/morning-report/internal/platform/db"
)

// Table `skill_items` must exist:
//
//	CREATE TABLE skill_items (
//	    key        text PRIMARY KEY,
//	    value      text NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);

// pgxQuerier is the subset of *pgxpool.Pool the store uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type postgresStore struct {
	db    pgxQuerier
	close func()
}

func newPostgresStoreFromURL(ctx context.Context, dsn string) (*postgresStore, error) {
	pool, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &postgresStore{db: pool, close: pool.Close}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := s.db.QueryRow(ctx, `SELECT value FROM skill_items WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, unavailable("get", key, err)
	}
	return []byte(v), true, nil
}

func (s *postgresStore) Put(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO skill_items (key, value, updated_at)
	           VALUES ($1, $2, now())
	           ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.Exec(ctx, q, key, string(value)); err != nil {
		return unavailable("put", key, err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM skill_items WHERE key = $1`, key); err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}

func (s *postgresStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT key, value FROM skill_items WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, unavailable("batch get", "", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, unavailable("batch get", "", err)
		}
		out[k] = []byte(v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("batch get", "", err)
	}
	return out, nil
}

func (s *postgresStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *postgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
