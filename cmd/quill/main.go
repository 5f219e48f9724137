package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/config"
	"github.com/quillhq/quill/pkg/directory"
	"github.com/quillhq/quill/pkg/documents"
	"github.com/quillhq/quill/pkg/httputil"
	"github.com/quillhq/quill/pkg/identity"
	"github.com/quillhq/quill/pkg/observability"
	"github.com/quillhq/quill/pkg/rooms"
	"github.com/quillhq/quill/pkg/views"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *observability.Logger) error {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	store, db, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	dirClient, err := directory.NewClient(
		cfg.Directory.BaseURL,
		cfg.Directory.SecretKey,
		cfg.Directory.CacheSize,
		directory.WithLookupTimeout(cfg.Directory.Timeout),
	)
	if err != nil {
		return err
	}
	resolver := directory.NewResolver(dirClient)

	invalidator, redisClient, err := buildInvalidator(cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	service := documents.NewService(store, resolver, invalidator, logger, metrics)

	var verifier identity.TokenVerifier
	if cfg.Identity.Enabled {
		authenticator, err := identity.NewAuthenticator(ctx, identity.Config{
			IssuerURL: cfg.Identity.IssuerURL,
			ClientID:  cfg.Identity.ClientID,
		})
		if err != nil {
			return err
		}
		verifier = authenticator
	} else {
		logger.Warn("OIDC verification disabled; requests must be authenticated upstream")
	}

	apiServer := api.NewServer(service, logger, verifier)
	handler := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.MaxBytesMiddleware(1<<20),
		metrics.HTTPMiddleware,
	)(apiServer)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient))
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.WithField("addr", server.Addr).Info("starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("starting health server")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("API server shutdown failed")
		}
		return healthServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// buildStore selects the room store backend from configuration. The
// returned *sql.DB is nil for the hosted backend.
func buildStore(cfg *config.Config, logger *observability.Logger) (rooms.Store, *sql.DB, error) {
	switch cfg.Rooms.StoreType {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.Rooms.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres room store")
		return rooms.NewPostgresStore(db), db, nil
	default:
		client, err := rooms.NewClient(
			cfg.Rooms.BaseURL,
			cfg.Rooms.SecretKey,
			rooms.WithRequestTimeout(cfg.Rooms.Timeout),
		)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("base_url", cfg.Rooms.BaseURL).Info("using hosted room store")
		return client, nil, nil
	}
}

// buildInvalidator wires Redis-backed view invalidation when a Redis
// URL is configured and falls back to a no-op otherwise.
func buildInvalidator(cfg *config.Config, logger *observability.Logger) (views.Invalidator, *redis.Client, error) {
	if cfg.Views.RedisURL == "" {
		logger.Info("no Redis configured; view invalidation disabled")
		return views.Nop{}, nil, nil
	}

	invalidator, err := views.NewRedisInvalidator(cfg.Views.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using Redis view invalidation")
	return invalidator, invalidator.Client(), nil
}
