package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 2 * time.Second

func apiHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.APIHealth{Status: "ok", Message: "RentEase API is running"})
	}
}

// healthzHandler runs every probe concurrently. A failing probe degrades the
// report; the endpoint answers 503 only when every dependency is down.
func healthzHandler(backend string, probes []Probe, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		results := make([]domain.ServiceHealth, len(probes))
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range probes {
			g.Go(func() error {
				start := time.Now()
				err := p.Check(gctx)
				res := domain.ServiceHealth{
					Name:        p.Name,
					Status:      "healthy",
					LatencyMs:   time.Since(start).Milliseconds(),
					LastChecked: time.Now().UTC().Format(time.RFC3339),
				}
				if err != nil {
					res.Status = "unhealthy"
					res.Error = err.Error()
					logger.Warn("health probe failed", zap.String("probe", p.Name), zap.Error(err))
				}
				results[i] = res
				return nil // never cancel sibling probes
			})
		}
		_ = g.Wait()

		overall := "healthy"
		down := 0
		for _, s := range results {
			if s.Status != "healthy" {
				overall = "degraded"
				down++
			}
		}
		status := http.StatusOK
		if len(results) > 0 && down == len(results) {
			overall = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, domain.HealthStatus{
			Status:   overall,
			Backend:  backend,
			Services: results,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
