// Package kv provides the key-value persistence the skill and the fetcher share.
//
// Backends, in order of preference: Redis (REDIS_URL), Postgres (DATABASE_URL),
// MongoDB (MONGO_URL). If none is configured an in-memory store is used, which
// is only allowed outside production.
package kv

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnavailable wraps backend failures so callers can tell them apart from
// decoding problems.
var ErrUnavailable = errors.New("kv: store unavailable")

// Store is a flat key-value store with single-key atomicity.
type Store interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// BatchGet reads several keys in one round trip. Absent keys are
	// missing from the result.
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	RedisURL    string
	DatabaseURL string
	MongoURL    string
	MongoDB     string
	Production  bool
}

// NewStore creates the best available store: Redis > Postgres > Mongo >
// in-memory. In production the in-memory fallback is refused.
func NewStore(ctx context.Context, opts Options, log *zap.Logger) (Store, error) {
	switch {
	case opts.RedisURL != "":
		s, err := newRedisStore(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("kv: redis: %w", err)
		}
		log.Info("kv store: redis")
		return s, nil
	case opts.DatabaseURL != "":
		s, err := newPostgresStoreFromURL(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("kv: postgres: %w", err)
		}
		log.Info("kv store: postgres")
		return s, nil
	case opts.MongoURL != "":
		s, err := newMongoStore(ctx, opts.MongoURL, opts.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("kv: mongo: %w", err)
		}
		log.Info("kv store: mongo")
		return s, nil
	}
	if opts.Production {
		return nil, errors.New("production requires REDIS_URL, DATABASE_URL or MONGO_URL; in-memory store is not allowed")
	}
	log.Warn("no store configured, using in-memory store (development only)")
	return NewMemory(), nil
}

func unavailable(op, key string, err error) error {
	return &OpError{Op: op, Key: key, Err: err}
}

// OpError records the failed operation and key.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	if e.Key == "" {
		return "kv " + e.Op + ": " + e.Err.Error()
	}
	return "kv " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }
