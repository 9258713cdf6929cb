package router

import (
	"net/http"
	"strconv"

	"github.com/shandysiswandi/notekeep/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in
// app.maintenance.endpoints, or for every route except health checks when
// app.maintenance.enabled is set. Settings are read once at startup.
func middlewareMaintenance(cfg config.Config) Middleware {
	if cfg == nil {
		return nil
	}

	all := cfg.GetBool("app.maintenance.enabled")
	blocked := newRouteSet(cfg.GetArray("app.maintenance.endpoints")...)
	exempt := newRouteSet("GET /", "GET /health")
	retryAfter := cfg.GetSecond("app.maintenance.retry_after_seconds")

	if !all && len(blocked) == 0 {
		return nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if (all && !exempt.match(r)) || blocked.match(r) {
				if retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				}
				writeJSON(w, errorResponse{Message: "Service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
