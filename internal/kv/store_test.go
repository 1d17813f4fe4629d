package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

// exercise runs the contract every backend must satisfy.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := s.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("get missing: found=%v err=%v", found, err)
	}
	if err := s.Put(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("put a: %v", err)
	}
	if err := s.Put(ctx, "a", []byte("2")); err != nil {
		t.Fatalf("overwrite a: %v", err)
	}
	if err := s.Put(ctx, "b", []byte("3")); err != nil {
		t.Fatalf("put b: %v", err)
	}
	v, found, err := s.Get(ctx, "a")
	if err != nil || !found || string(v) != "2" {
		t.Fatalf("get a: %q found=%v err=%v", v, found, err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("batch get: %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "2" || string(got["b"]) != "3" {
		t.Fatalf("unexpected batch result %v", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("second delete must not fail: %v", err)
	}
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Fatal("a should be gone")
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemory()
	buf := []byte("abc")
	_ = s.Put(context.Background(), "k", buf)
	buf[0] = 'z'
	v, _, _ := s.Get(context.Background(), "k")
	if string(v) != "abc" {
		t.Fatalf("store must not alias caller buffers, got %q", v)
	}
}

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := newRedisStore("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestRedisStore_UnavailableWrapsError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	s, _ := newRedisStore(mr.Addr())
	defer s.Close()
	mr.Close()

	_, _, err = s.Get(context.Background(), "k")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestPostgresStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	s := &postgresStore{db: mock}

	mock.ExpectQuery("SELECT value FROM skill_items").
		WithArgs("podcasts").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`[]`))
	mock.ExpectQuery("SELECT value FROM skill_items").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	v, found, err := s.Get(context.Background(), "podcasts")
	if err != nil || !found || string(v) != "[]" {
		t.Fatalf("get: %q found=%v err=%v", v, found, err)
	}
	if _, found, err := s.Get(context.Background(), "missing"); err != nil || found {
		t.Fatalf("get missing: found=%v err=%v", found, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStore_PutDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	s := &postgresStore{db: mock}

	mock.ExpectExec("INSERT INTO skill_items").
		WithArgs("k", "v").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM skill_items").
		WithArgs("k").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := s.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(context.Background(), "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStore_BatchGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	s := &postgresStore{db: mock}

	keys := []string{"morningreport", "podcasts"}
	mock.ExpectQuery("SELECT key, value FROM skill_items").
		WithArgs(keys).
		WillReturnRows(pgxmock.NewRows([]string{"key", "value"}).AddRow("podcasts", "[]"))

	got, err := s.BatchGet(context.Background(), keys)
	if err != nil {
		t.Fatalf("batch get: %v", err)
	}
	if len(got) != 1 || string(got["podcasts"]) != "[]" {
		t.Fatalf("unexpected result %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStore_ErrorIsUnavailable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	s := &postgresStore{db: mock}

	mock.ExpectExec("DELETE FROM skill_items").WithArgs("k").WillReturnError(errors.New("conn reset"))
	if err := s.Delete(context.Background(), "k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewStore_FallsBackToMemory(t *testing.T) {
	s, err := NewStore(context.Background(), Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("expected *Memory when no backend is configured, got %T", s)
	}
}

func TestNewStore_RejectsMemoryInProd(t *testing.T) {
	s, err := NewStore(context.Background(), Options{Production: true}, zap.NewNop())
	if err == nil {
		t.Fatalf("expected error in production without a backend, got %T", s)
	}
	if s != nil {
		t.Fatalf("expected nil store, got %T", s)
	}
}

func TestNewStore_PrefersRedis(t *testing.T) {
	s, err := NewStore(context.Background(), Options{RedisURL: "redis://127.0.0.1:6379/0", DatabaseURL: "postgres://x"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*redisStore); !ok {
		t.Fatalf("expected redis store, got %T", s)
	}
}
