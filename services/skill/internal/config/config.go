package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/morning-report/internal/kv"
	"github.com/example/morning-report/internal/platform/config"
	"github.com/example/morning-report/internal/speech"
)

type Config struct {
	Store kv.Options
	// SigningSecret enables X-Skill-Signature verification. Required in
	// production. Set via SKILL_SIGNING_SECRET.
	SigningSecret    string
	SigningTolerance time.Duration
	// NATSURL enables analytics events when set.
	NATSURL            string
	Speech             speech.Options
	SilentUnrecognized bool
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
		SigningSecret:    config.EnvString("SKILL_SIGNING_SECRET", ""),
		SigningTolerance: config.EnvDuration("SKILL_SIGNING_TOLERANCE", 5*time.Minute),
		NATSURL:          config.EnvString("NATS_URL", ""),
		Speech: speech.Options{
			PreHeadingPause:  millis("PRE_HEADING_PAUSE_MS"),
			PostHeadingPause: millis("POST_HEADING_PAUSE_MS"),
			BulletPause:      millis("BULLET_PAUSE_MS"),
			MaxLength:        config.EnvInt("SSML_MAX_LENGTH", 0),
		},
		SilentUnrecognized: config.EnvBool("SKILL_UNRECOGNIZED_SILENT"),
	}
	if production && cfg.SigningSecret == "" {
		return Config{}, errors.New("SKILL_SIGNING_SECRET is required in production")
	}
	if err := cfg.Speech.Validate(); err != nil {
		return Config{}, fmt.Errorf("SSML_MAX_LENGTH: %w", err)
	}
	return cfg, nil
}

// millis reads a millisecond count; 0 leaves the renderer default in place.
func millis(key string) time.Duration {
	return time.Duration(config.EnvInt(key, 0)) * time.Millisecond
}
