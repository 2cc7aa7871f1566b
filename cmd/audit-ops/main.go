// Command audit-ops runs the standalone audit ops service: trail
// readback, descriptor inspection, health, and metrics over a
// deployment's audit store, with the audit policy file hot-reloaded.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/godamri/helix-audit/app"
	"github.com/godamri/helix-audit/cache"
	"github.com/godamri/helix-audit/config"
	"github.com/godamri/helix-audit/database"
	"github.com/godamri/helix-audit/engine"
	"github.com/godamri/helix-audit/log"
	"github.com/godamri/helix-audit/pkg/telemetry"
	"github.com/godamri/helix-audit/schema"
	"github.com/godamri/helix-audit/server"
	"github.com/godamri/helix-audit/sink"
	"github.com/godamri/helix-audit/store"
)

const serviceName = "audit-ops"

type serviceConfig struct {
	Log    log.Config
	DB     database.Config
	Redis  redisConfig
	Server server.Config

	PolicyPath     string        `envconfig:"AUDIT_POLICY_PATH" default:""`
	PolicyInterval time.Duration `envconfig:"AUDIT_POLICY_POLL_INTERVAL" default:"5s"`
}

// redisConfig relaxes cache.Config's required Addr: the shared
// descriptor cache is optional for this service.
type redisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func main() {
	var cfg serviceConfig
	if err := app.NewConfigLoader().Load(context.Background(), &cfg, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(telemetry.NewOTelHandler(log.New(cfg.Log).Handler()))
	slog.SetDefault(logger)

	app.NewRunner(logger).Run(func(ctx context.Context) error {
		return run(ctx, cfg, logger)
	})
}

func run(ctx context.Context, cfg serviceConfig, logger *slog.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.DB, serviceName)
	if err != nil {
		return err
	}

	// Descriptors are cached per (type, generation). With Redis the
	// cache is shared across the fleet; without it, per-process.
	var descriptorCache schema.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedis(ctx, cache.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		descriptorCache = schema.NewRedisCache(rdb, "", 0)
	} else {
		descriptorCache = schema.NewMemoryCache()
	}

	resolver := schema.NewResolver(
		store.NewPostgresMetadataStore(db),
		descriptorCache,
		log.ForComponent(logger, "schema"),
	)

	policy := config.NewContainer(engine.DefaultConfig())
	if cfg.PolicyPath != "" {
		loader := config.NewLoader[engine.Config]("", cfg.PolicyPath)
		loaded, err := loader.LoadFrom(engine.DefaultConfig())
		if err != nil {
			return err
		}
		if err := policy.Update(*loaded); err != nil {
			return err
		}

		watcher := config.NewFileWatcher(cfg.PolicyPath, cfg.PolicyInterval, log.ForComponent(logger, "config"))
		go watcher.Watch(ctx, func() {
			loaded, err := loader.LoadFrom(engine.DefaultConfig())
			if err != nil {
				logger.Error("audit policy reload failed", "path", cfg.PolicyPath, "error", err)
				return
			}
			if err := policy.Update(*loaded); err != nil {
				logger.Error("audit policy rejected", "path", cfg.PolicyPath, "error", err)
			}
		})
	}

	trail, err := sink.NewPostgres(db, policy.Get().DestinationTable)
	if err != nil {
		return err
	}

	router := server.NewRouter(serviceName, trail, db, log.ForComponent(logger, "server"))
	server.NewDescriptorHandler(resolver).RegisterRoutes(router)

	return server.New(cfg.Server, log.ForComponent(logger, "server"), router, nil).Start(ctx)
}
