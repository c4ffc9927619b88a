package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/nairamart/storefront-backend/api/responses"
	"github.com/nairamart/storefront-backend/pkg/config"
	"github.com/nairamart/storefront-backend/pkg/logger"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-NairaMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes Redis and the catalog. Redis being down degrades
// persistence but the cart still works in memory, so only the catalog is a
// hard readiness failure.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient, catalogClient Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		w.Header().Set("X-NairaMart-Env", cfg.App.Env)
		status := map[string]string{"status": "ready", "redis": "ok", "catalog": "ok"}

		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				status["redis"] = "unavailable"
				if logg != nil {
					logg.Warn(ctx, "readiness: redis unavailable")
				}
			}
		}

		if catalogClient != nil {
			if err := catalogClient.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status["catalog"] = "unavailable"
				if logg != nil {
					logg.Warn(ctx, "readiness: catalog unavailable")
				}
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
				return
			}
		}

		responses.WriteSuccess(w, status)
	}
}
