// Package router is a thin layer over httprouter that turns application
// handlers (func(*Request) (any, error)) into JSON responses, and carries the
// standard middleware chain: panic recovery, client IP, correlation id,
// tracing/metrics/access logs, maintenance switch and bearer authentication.
package router
