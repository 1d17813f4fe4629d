package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/morning-report/internal/kv"
	"github.com/example/morning-report/internal/platform/analytics"
	"github.com/example/morning-report/internal/platform/auth"
	"github.com/example/morning-report/internal/platform/config"
	"github.com/example/morning-report/internal/platform/httpserver"
	"github.com/example/morning-report/internal/platform/logging"
	"github.com/example/morning-report/internal/platform/natsconn"
	"github.com/example/morning-report/internal/platform/ratelimit"
	"github.com/example/morning-report/internal/platform/run"
	"github.com/example/morning-report/internal/records"
	fetchcfg "github.com/example/morning-report/services/fetcher/internal/config"
	"github.com/example/morning-report/services/fetcher/internal/feed"
	"github.com/example/morning-report/services/fetcher/internal/jobs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	fc, err := fetchcfg.Load(cfg.IsProduction())
	if err != nil {
		log.Error("fetcher config", zap.Error(err))
		run.Exit(1)
	}

	store, err := kv.NewStore(context.Background(), fc.Store, log)
	if err != nil {
		log.Error("kv store", zap.Error(err))
		run.Exit(1)
	}
	closers := []func(context.Context) error{func(context.Context) error { return store.Close() }}

	cb := feed.NewBreaker("feeds", fc.CBMaxRequests, fc.CBInterval, fc.CBTimeout, fc.CBFailureThreshold, log)
	client := feed.New(
		feed.WithCircuitBreaker(cb),
		feed.WithLimiter(ratelimit.NewRPS(fc.FeedRPS)),
		feed.WithHTTPClient(&http.Client{Timeout: fc.FeedTimeout}),
		feed.WithUserAgent(fc.UserAgent),
		feed.WithLogger(log),
	)

	job := &jobs.Refresh{
		Log:          log,
		Feeds:        client,
		Store:        records.NewRepository(store),
		Events:       analytics.New(nil, log, cfg.ServiceName),
		ReportURL:    fc.ReportFeedURL,
		PodcastURL:   fc.PodcastFeedURL,
		PodcastLimit: fc.PodcastLimit,
	}

	var worker *jobs.Worker
	if fc.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: fc.NATSURL, Name: cfg.ServiceName})
		if err != nil {
			log.Error("nats connect", zap.Error(err))
			run.Exit(1)
		}
		closers = append(closers, func(context.Context) error { return nc.Drain() })
		worker, err = jobs.NewWorker(log, nc, job)
		if err != nil {
			log.Error("jetstream", zap.Error(err))
			run.Exit(1)
		}
		if err := worker.EnsureStream(); err != nil {
			log.Error("ensure stream", zap.Error(err))
			run.Exit(1)
		}
		if err := analytics.EnsureStream(worker.JS); err != nil {
			log.Warn("analytics stream unavailable", zap.Error(err))
		}
		job.Events = analytics.New(worker.JS, log, cfg.ServiceName)
	} else {
		log.Info("NATS_URL not set, feeds.refresh consumer disabled")
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ServiceName: cfg.ServiceName,
		Logger:      log,
		ReadyFunc:   func() error { return store.Ping(context.Background()) },
	})
	if fc.AdminJWTSecret != "" {
		jobs.Trigger{
			Log:      log,
			Job:      job,
			Verifier: auth.JWTVerifier{Secret: []byte(fc.AdminJWTSecret)},
			Limiter:  ratelimit.NewPerIP(fc.AdminRPS, fc.AdminBurst),
		}.Register(r)
	}

	srv := httpserver.New(httpserver.Options{
		Addr:         cfg.HTTP.Addr,
		ServiceName:  cfg.ServiceName,
		Logger:       log,
		Router:       r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		g.Go(func() error {
			jobs.Every(gctx, fc.RefreshInterval, job, log)
			return nil
		})
		if worker != nil {
			g.Go(func() error { return worker.Run(gctx) })
		}
		return g.Wait()
	})
	runner.Graceful(cfg.HTTP.ShutdownTimeout, append(closers, srv.Shutdown)...)

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
