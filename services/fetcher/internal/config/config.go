package config

import (
	"errors"
	"time"

	"github.com/example/morning-report/internal/kv"
	"github.com/example/morning-report/internal/platform/config"
	"github.com/example/morning-report/internal/records"
)

type Config struct {
	Store kv.Options

	ReportFeedURL  string
	PodcastFeedURL string
	PodcastLimit   int

	// RefreshInterval drives the built-in ticker; REFRESH_INTERVAL=off
	// disables it.
	RefreshInterval time.Duration
	FeedTimeout     time.Duration
	FeedRPS         float64
	UserAgent       string

	CBMaxRequests      uint32
	CBInterval         time.Duration
	CBTimeout          time.Duration
	CBFailureThreshold uint32

	// NATSURL enables the feeds.refresh consumer and analytics events.
	NATSURL string
	// AdminJWTSecret enables POST /v1/admin/refresh.
	AdminJWTSecret string
	AdminRPS       float64
	AdminBurst     int
}

func Load(production bool) (Config, error) {
	cfg := Config{
		Store: kv.Options{
			RedisURL:    config.EnvString("REDIS_URL", ""),
			DatabaseURL: config.EnvString("DATABASE_URL", ""),
			MongoURL:    config.EnvString("MONGO_URL", ""),
			MongoDB:     config.EnvString("MONGO_DB", "morning_report"),
			Production:  production,
		},
		ReportFeedURL:   config.EnvString("REPORT_FEED_URL", ""),
		PodcastFeedURL:  config.EnvString("PODCAST_FEED_URL", ""),
		PodcastLimit:    config.EnvInt("PODCAST_LIMIT", records.DefaultPodcastLimit),
		RefreshInterval: config.EnvDuration("REFRESH_INTERVAL", 15*time.Minute),
		FeedTimeout:     config.EnvDuration("FEED_TIMEOUT", 10*time.Second),
		FeedRPS:         config.EnvFloat("FEED_RPS", 1),
		UserAgent:       config.EnvString("FEED_USER_AGENT", "morning-report-fetcher/1.0"),

		CBMaxRequests:      uint32(config.EnvInt("CB_MAX_REQUESTS", 1)),
		CBInterval:         config.EnvDuration("CB_INTERVAL", time.Minute),
		CBTimeout:          config.EnvDuration("CB_TIMEOUT", 30*time.Second),
		CBFailureThreshold: uint32(config.EnvInt("CB_FAILURE_THRESHOLD", 3)),

		NATSURL:        config.EnvString("NATS_URL", ""),
		AdminJWTSecret: config.EnvString("ADMIN_JWT_SECRET", ""),
		AdminRPS:       config.EnvFloat("ADMIN_RPS", 0.2),
		AdminBurst:     config.EnvInt("ADMIN_BURST", 3),
	}
	if cfg.ReportFeedURL == "" {
		return Config{}, errors.New("REPORT_FEED_URL is required")
	}
	if cfg.PodcastFeedURL == "" {
		return Config{}, errors.New("PODCAST_FEED_URL is required")
	}
	if cfg.PodcastLimit <= 0 {
		cfg.PodcastLimit = records.DefaultPodcastLimit
	}
	switch config.EnvString("REFRESH_INTERVAL", "") {
	case "0", "off":
		cfg.RefreshInterval = 0
	}
	if cfg.CBFailureThreshold == 0 {
		cfg.CBFailureThreshold = 3
	}
	return cfg, nil
}
