package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/kv"
	"github.com/example/morning-report/internal/platform/analytics"
	"github.com/example/morning-report/internal/platform/config"
	"github.com/example/morning-report/internal/platform/httpserver"
	"github.com/example/morning-report/internal/platform/logging"
	"github.com/example/morning-report/internal/platform/natsconn"
	"github.com/example/morning-report/internal/platform/run"
	"github.com/example/morning-report/internal/platform/signing"
	"github.com/example/morning-report/internal/records"
	"github.com/example/morning-report/internal/skill"
	skillcfg "github.com/example/morning-report/services/skill/internal/config"
	"github.com/example/morning-report/services/skill/internal/handlers"
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

	sc, err := skillcfg.Load(cfg.IsProduction())
	if err != nil {
		log.Error("skill config", zap.Error(err))
		run.Exit(1)
	}

	ctx := context.Background()
	store, err := kv.NewStore(ctx, sc.Store, log)
	if err != nil {
		log.Error("kv store", zap.Error(err))
		run.Exit(1)
	}

	closers := []func(context.Context) error{func(context.Context) error { return store.Close() }}

	events := analytics.New(nil, log, cfg.ServiceName)
	if sc.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: sc.NATSURL, Name: cfg.ServiceName})
		if err != nil {
			log.Warn("NATS unavailable, analytics events disabled", zap.Error(err))
		} else {
			closers = append(closers, func(context.Context) error { return nc.Drain() })
			js, err := nc.JetStream()
			if err != nil {
				log.Warn("jetstream unavailable, analytics events disabled", zap.Error(err))
			} else {
				if err := analytics.EnsureStream(js); err != nil {
					log.Warn("analytics stream unavailable", zap.Error(err))
				}
				events = analytics.New(js, log, cfg.ServiceName)
			}
		}
	}

	dispatcher := skill.New(records.NewRepository(store), log,
		skill.WithSpeechOptions(sc.Speech),
		skill.WithSilentUnrecognized(sc.SilentUnrecognized),
		skill.WithEvents(events),
	)

	var signer *signing.Signer
	if sc.SigningSecret != "" {
		signer = signing.New(sc.SigningSecret)
		signer.Tolerance = sc.SigningTolerance
	} else {
		log.Warn("SKILL_SIGNING_SECRET not set, request signatures are not verified (development only)")
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ServiceName: cfg.ServiceName,
		Logger:      log,
		ReadyFunc:   func() error { return store.Ping(context.Background()) },
	})
	r.With(signing.Middleware(signer)).Post("/v1/skill", handlers.NewSkillHandler(dispatcher, log).ServeHTTP)

	srv := httpserver.New(httpserver.Options{
		Addr:         cfg.HTTP.Addr,
		ServiceName:  cfg.ServiceName,
		Logger:       log,
		Router:       r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(context.Context) error {
		return srv.Start()
	})
	runner.Graceful(cfg.HTTP.ShutdownTimeout, append(closers, srv.Shutdown)...)

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
