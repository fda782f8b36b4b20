// Package observability provides OpenTelemetry tracing and metrics for
// permkit.
//
// InitTracer and InitMeter configure OTLP HTTP exporters and register
// global providers. Metrics holds the instruments the permission engine
// records: decision counts and durations, cache hits and misses, and
// collaborator failures. All instruments are optional — an engine without
// metrics records nothing.
package observability
