// Package instrument wires OpenTelemetry tracing, metrics and logs, and
// installs the process-wide slog logger.
//
// When instrumentation is disabled the tracer and meter are noops but the
// JSON logger (with masking and correlation ids) is still installed.
package instrument
