package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
)

const healthTimeout = 2 * time.Second

type HealthHandler interface {
	Health(c echo.Context) error
}

type healthHandler struct {
	conn   driver.PostgresPool
	cache  *redis.Client
	logger *zap.Logger
}

func NewHealthHandler(conn driver.PostgresPool, cache *redis.Client, logger *zap.Logger) HealthHandler {
	return &healthHandler{
		conn:   conn,
		cache:  cache,
		logger: logger,
	}
}

// Health handles GET /health
func (hh *healthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if hh.conn != nil {
		checks["postgres"] = "ok"
		if err := hh.conn.Ping(ctx); err != nil {
			hh.logger.Warn("postgres health check failed", zap.Error(err))
			checks["postgres"] = "unavailable"
			healthy = false
		}
	}

	if hh.cache != nil {
		checks["redis"] = "ok"
		if err := hh.cache.Ping(ctx).Err(); err != nil {
			hh.logger.Warn("redis health check failed", zap.Error(err))
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, Result{Success: false, Data: checks, Error: "dependency unavailable"})
	}
	return success(c, http.StatusOK, checks)
}
