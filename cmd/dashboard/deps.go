package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"wallet/internal/domain/portfolio"
	"wallet/internal/infrastructure/cache"
	"wallet/internal/infrastructure/sheets"
	httphandlers "wallet/internal/interfaces/http"
	"wallet/internal/shared/auth"
	"wallet/internal/shared/config"
	"wallet/internal/shared/telemetry"
	"wallet/internal/web"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Source *sheets.Source
	Cache  *cache.Redis

	// Handlers
	PageHandler *httphandlers.Handler
	AuthHandler *httphandlers.AuthHandler

	// Auth, nil when the dashboard is open
	JWT *auth.JWT

	shutdownTelemetry func(context.Context) error
}

// NewDependencies initializes all application dependencies. An unreadable
// or invalid credentials file stops the startup.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		})
		if err != nil {
			return nil, err
		}
		deps.shutdownTelemetry = shutdown
	}

	reader, err := sheets.NewReader(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to load Google credentials: %w", err)
	}
	log.Info().Str("credentials", cfg.Sheets.CredentialsFile).Msg("Google Sheets client ready")

	// The cache is optional: the dashboard reads the sheet directly without it.
	var values sheets.ValuesCache
	if cfg.Cache.RedisURL != "" {
		redis, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Cache = redis
		values = redis
		log.Info().Dur("ttl", cfg.Cache.TTL).Msg("Connected to redis")
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	deps.Source = sheets.NewSource(reader, cfg.Sheets, values, metrics)
	for _, ws := range missingWorksheets(deps.Source) {
		log.Warn().Str("worksheet", string(ws)).Msg("worksheet id not configured")
	}

	views, err := httphandlers.NewRenderer(web.FS)
	if err != nil {
		deps.Close()
		return nil, err
	}

	var creds auth.Credentials
	if cfg.Auth.Enabled() {
		deps.JWT = auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
		creds = auth.Credentials{Username: cfg.Auth.Username, PasswordHash: cfg.Auth.PasswordHash}
	} else {
		log.Warn().Msg("DASHBOARD_PASSWORD_HASH not set, dashboard is open")
	}

	deps.PageHandler = httphandlers.NewHandler(deps.Source, views, cfg.Auth.Enabled())
	deps.AuthHandler = httphandlers.NewAuthHandler(creds, deps.JWT, views, cfg.Auth.Enabled())

	return deps, nil
}

// Close releases the cache connection and flushes telemetry.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	if d.shutdownTelemetry != nil {
		errs = append(errs, d.shutdownTelemetry(context.Background()))
	}
	return errors.Join(errs...)
}

// missingWorksheets lists the worksheets without a configured gid. Their
// sections show an error instead of failing the startup.
func missingWorksheets(src *sheets.Source) []portfolio.Worksheet {
	var out []portfolio.Worksheet
	for _, ws := range portfolio.Worksheets {
		if _, ok := src.GID(ws); !ok {
			out = append(out, ws)
		}
	}
	return out
}
