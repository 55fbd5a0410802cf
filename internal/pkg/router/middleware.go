package router

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// Middleware wraps an http.Handler.
type Middleware func(next http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// routeSet holds "METHOD /route" keys.
type routeSet map[string]struct{}

func newRouteSet(routes []string) routeSet {
	set := make(routeSet, len(routes))
	for _, r := range routes {
		method, path, ok := strings.Cut(strings.TrimSpace(r), " ")
		if !ok {
			continue
		}
		set[strings.ToUpper(method)+" "+strings.TrimSpace(path)] = struct{}{}
	}
	return set
}

func (s routeSet) has(method, route string) bool {
	_, ok := s[method+" "+route]
	return ok
}

// matchedRoutePath returns the route pattern ("/api/v1/otp/verify/:otp") so
// logs and metrics do not carry the raw parameter values.
func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}
