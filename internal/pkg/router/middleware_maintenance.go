package router

import (
	"net/http"
	"sync/atomic"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

// maintenance answers 503 for the routes listed in app.maintenance.endpoints.
// The list is re-read when the config file changes.
func maintenance(cfg config.Config) Middleware {
	var blocked atomic.Pointer[map[string]struct{}]

	load := func() {
		set := make(map[string]struct{})
		if cfg != nil {
			for _, route := range cfg.GetArray("app.maintenance.endpoints") {
				set[route] = struct{}{}
			}
		}
		blocked.Store(&set)
	}

	load()
	if cfg != nil {
		cfg.OnChange(load)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := (*blocked.Load())[matchedRoutePath(r)]; ok {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
