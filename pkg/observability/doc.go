// Package observability provides structured logging, Prometheus metrics, and health checks.
//
// # Overview
//
// This package centralizes observability infrastructure for the document
// service: JSON logging over slog, metrics collection, and dependency
// health probes.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("room_id", roomID).Info("document created")
//
// Context-aware logging:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	observability.FromContext(ctx).Warn("invalidation failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.ObserveRoomOperation("create", err, elapsed)
//	metrics.ObserveViewInvalidation("listing", err)
//
// Expose the scrape endpoint:
//
//	mux.Handle("/metrics", metrics.Handler())
//
// # Health Checks
//
// The health checker probes Postgres and Redis when configured. A Redis
// outage only degrades the service because views are derived state; a
// database outage makes it unhealthy.
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
package observability
