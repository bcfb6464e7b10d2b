// Package bootstrap wires runtime dependencies for the command entrypoints.
package bootstrap

import (
	"context"
	"fmt"

	"hoaxify/internal/cache"
	"hoaxify/internal/config"
	"hoaxify/internal/database"
	"hoaxify/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	Migrate bool
	Tracing bool
}

// Runtime holds the initialized shared dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	// ShutdownTracing flushes and stops the trace exporter. Always non-nil.
	ShutdownTracing func(context.Context) error
}

// InitRuntime connects to DB and Redis and optionally migrates the schema
// and starts tracing. Redis being unreachable is not fatal: caching and rate
// limiting degrade gracefully without it.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.Migrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
	}

	cache.InitRedis(cfg.RedisURL)

	shutdownTracing := func(context.Context) error { return nil }
	if opts.Tracing {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:  "hoaxify-api",
			Environment:  cfg.Env,
			Enabled:      cfg.TracingEnabled,
			Exporter:     cfg.TracingExporter,
			OTLPEndpoint: cfg.OTLPEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("tracing init failed: %w", err)
		}
		shutdownTracing = shutdown
	}

	return &Runtime{
		DB:              db,
		Redis:           cache.GetClient(),
		ShutdownTracing: shutdownTracing,
	}, nil
}
