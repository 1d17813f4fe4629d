// Package config reads the settings every service shares from the
// environment. Service-specific settings live in each service's own config
// package and use the Env* helpers defined here.
package config

import (
	"errors"
	"strings"
	"time"
)

// HTTPConfig sizes the listener. WriteTimeout stays below the voice
// platform's response deadline plus some slack.
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type AppConfig struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTP        HTTPConfig
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c AppConfig) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: EnvString("SERVICE_NAME", ""),
		Env:         EnvString("APP_ENV", "development"),
		LogLevel:    EnvString("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr:            EnvString("HTTP_ADDR", ":8080"),
			ReadTimeout:     EnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    EnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: EnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	return cfg, nil
}
