// Package jobs runs the feed refresh and exposes its triggers: the interval
// ticker, the feeds.refresh JetStream consumer and the admin HTTP route.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/morning-report/internal/platform/analytics"
	"github.com/example/morning-report/internal/platform/metrics"
	"github.com/example/morning-report/internal/records"
	"github.com/example/morning-report/services/fetcher/internal/feed"
)

// Feeds fetches one upstream feed.
type Feeds interface {
	Fetch(ctx context.Context, label, url string) (*gofeed.Feed, error)
}

// Store is the write side of records.Repository.
type Store interface {
	SaveReport(ctx context.Context, r records.Report) error
	SavePodcasts(ctx context.Context, list []records.Podcast) error
}

type Events interface {
	Publish(subject, eventName, userID string, props map[string]any)
}

// Runner is anything that can perform a refresh on demand.
type Runner interface {
	Run(ctx context.Context) (Result, error)
}

// Result summarizes one refresh. Each half is reported independently.
type Result struct {
	ReportSaved  bool   `json:"report_saved"`
	ReportTitle  string `json:"report_title,omitempty"`
	ReportError  string `json:"report_error,omitempty"`
	PodcastCount int    `json:"podcast_count"`
	PodcastError string `json:"podcast_error,omitempty"`
}

// Refresh fetches both feeds concurrently and stores what it finds. A failure
// in one half never prevents the other from being saved. Concurrent calls are
// serialized.
type Refresh struct {
	Log    *zap.Logger
	Feeds  Feeds
	Store  Store
	Events Events

	ReportURL    string
	PodcastURL   string
	PodcastLimit int

	Now func() time.Time

	mu sync.Mutex
}

func (j *Refresh) Run(ctx context.Context) (Result, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	start := time.Now()
	defer func() { metrics.RefreshDuration.Observe(time.Since(start).Seconds()) }()

	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	var (
		res                   Result
		reportErr, podcastErr error
		g                     errgroup.Group
	)
	g.Go(func() error {
		reportErr = j.refreshReport(ctx, now, &res)
		return nil
	})
	g.Go(func() error {
		podcastErr = j.refreshPodcasts(ctx, now, &res)
		return nil
	})
	_ = g.Wait()

	if reportErr != nil {
		res.ReportError = reportErr.Error()
		j.Log.Warn("report refresh failed", zap.Error(reportErr))
	}
	if podcastErr != nil {
		res.PodcastError = podcastErr.Error()
		j.Log.Warn("podcast refresh failed", zap.Error(podcastErr))
	}
	j.Log.Info("refresh finished",
		zap.Bool("report_saved", res.ReportSaved),
		zap.Int("podcasts", res.PodcastCount),
		zap.Duration("took", time.Since(start)),
	)
	if j.Events != nil {
		j.Events.Publish(analytics.SubjectFeedsRefreshed, "feeds_refreshed", "", map[string]any{
			"report_saved":  res.ReportSaved,
			"podcast_count": res.PodcastCount,
			"failed":        reportErr != nil || podcastErr != nil,
		})
	}
	return res, errors.Join(reportErr, podcastErr)
}

// The two halves write disjoint Result fields, so they share res without a
// lock.
func (j *Refresh) refreshReport(ctx context.Context, now time.Time, res *Result) error {
	f, err := j.Feeds.Fetch(ctx, "report", j.ReportURL)
	if err != nil {
		return fmt.Errorf("report feed: %w", err)
	}
	rep, ok := feed.ToReport(f, now)
	if !ok {
		j.Log.Info("report feed has no report, keeping the stored one")
		return nil
	}
	if err := j.Store.SaveReport(ctx, rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	res.ReportSaved = true
	res.ReportTitle = rep.Title
	return nil
}

func (j *Refresh) refreshPodcasts(ctx context.Context, now time.Time, res *Result) error {
	f, err := j.Feeds.Fetch(ctx, "podcast", j.PodcastURL)
	if err != nil {
		return fmt.Errorf("podcast feed: %w", err)
	}
	list := feed.ToPodcasts(f, j.PodcastLimit, now)
	if len(list) == 0 {
		j.Log.Info("podcast feed has no episodes, keeping the stored list")
		return nil
	}
	if err := j.Store.SavePodcasts(ctx, list); err != nil {
		return fmt.Errorf("save podcasts: %w", err)
	}
	res.PodcastCount = len(list)
	return nil
}
