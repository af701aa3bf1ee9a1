package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"talenta-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

// startServices checks the dependencies and starts the health endpoint.
func startServices(c *container.Container, healthAddr string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Redis.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	log.Info().Msg("Redis connection OK")

	srv := &http.Server{
		Addr:              healthAddr,
		Handler:           healthMux(c),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", healthAddr).Msg("Health server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("Health server failed")
		}
	}()
	return nil
}

func healthMux(c *container.Container) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services := c.Health(ctx)
		status, code := "UP", http.StatusOK
		for _, s := range services {
			if s != "up" {
				status, code = "DEGRADED", http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   status,
			"service":  "talenta-worker",
			"services": services,
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"READY"}`))
	})
	return mux
}
