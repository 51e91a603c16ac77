package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	Session   *SessionMiddleware
	Logging   *LoggingMiddleware
	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	sessionService ports.SessionService,
	rateLimitRepo ports.RateLimitRepository,
	rateLimitCfg *config.RateLimitConfig,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		Session:   NewSessionMiddleware(sessionService, logger),
		Logging:   NewLoggingMiddleware(logger),
		RateLimit: NewRateLimitMiddleware(rateLimitRepo, rateLimitCfg, logger),
		Metrics:   NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
