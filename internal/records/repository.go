package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/morning-report/internal/kv"
)

var (
	// ErrNotFound means the record has never been written.
	ErrNotFound = errors.New("records: not found")
	// ErrCorrupt means a stored value could not be decoded.
	ErrCorrupt = errors.New("records: corrupt value")
)

// Repository reads and writes records in a kv.Store. Every method is a single
// store round trip.
type Repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Report(ctx context.Context) (Report, error) {
	var rep Report
	if err := r.get(ctx, ReportKey, &rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}

func (r *Repository) SaveReport(ctx context.Context, rep Report) error {
	return r.put(ctx, ReportKey, rep)
}

// Podcasts returns the stored collection. A collection that was never written
// is ErrNotFound.
func (r *Repository) Podcasts(ctx context.Context) ([]Podcast, error) {
	var list []Podcast
	if err := r.get(ctx, PodcastsKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) SavePodcasts(ctx context.Context, list []Podcast) error {
	if list == nil {
		list = []Podcast{}
	}
	return r.put(ctx, PodcastsKey, list)
}

// Latest is the result of one batched read of the report and the podcasts.
// Each half carries its own error: ErrNotFound when absent, ErrCorrupt when
// undecodable.
type Latest struct {
	Report      Report
	ReportErr   error
	Podcasts    []Podcast
	PodcastsErr error
}

// Latest reads the report and the podcast collection in one batched call. The
// returned error is only set when the batch itself failed.
func (r *Repository) Latest(ctx context.Context) (Latest, error) {
	vals, err := r.store.BatchGet(ctx, []string{ReportKey, PodcastsKey})
	if err != nil {
		return Latest{}, err
	}
	var out Latest
	out.ReportErr = decode(vals, ReportKey, &out.Report)
	out.PodcastsErr = decode(vals, PodcastsKey, &out.Podcasts)
	return out, nil
}

func (r *Repository) Position(ctx context.Context, userID string) (Position, error) {
	var p Position
	if err := r.get(ctx, PositionKey(userID), &p); err != nil {
		return Position{}, err
	}
	return p, nil
}

func (r *Repository) SavePosition(ctx context.Context, p Position) error {
	if p.OffsetMilliseconds < 0 {
		p.OffsetMilliseconds = 0
	}
	return r.put(ctx, PositionKey(p.UserID), p)
}

// DeletePosition removes the user's position; it succeeds when none exists.
func (r *Repository) DeletePosition(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, PositionKey(userID))
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) get(ctx context.Context, key string, dest any) error {
	b, found, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return unmarshal(key, b, dest)
}

func (r *Repository) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("records: encode %s: %w", key, err)
	}
	return r.store.Put(ctx, key, b)
}

func decode(vals map[string][]byte, key string, dest any) error {
	b, ok := vals[key]
	if !ok {
		return ErrNotFound
	}
	return unmarshal(key, b, dest)
}

func unmarshal(key string, b []byte, dest any) error {
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}
