// Package tracing is a thin wrapper around OpenTelemetry so that the rest of
// the code-base can start and finish spans without importing the upstream
// packages directly. Instrumentation is kept separate so applications that do
// not require tracing carry no setup cost.
package tracing
