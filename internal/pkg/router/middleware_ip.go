package router

import (
	"net"
	"net/http"
	"strings"
)

// clientIP rewrites RemoteAddr to the first valid proxy-reported address.
func clientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := realIP(r); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

func realIP(r *http.Request) string {
	xff, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")

	for _, candidate := range []string{
		r.Header.Get("True-Client-IP"),
		r.Header.Get("X-Real-IP"),
		xff,
	} {
		if ip := strings.TrimSpace(candidate); net.ParseIP(ip) != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}
