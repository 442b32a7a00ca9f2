// Package server provides the MCP server context, health checks, and
// the dedicated Prometheus metrics server for the tasklist application.
//
// # Key Components
//
// ServerContext bundles the dependencies tool handlers need: the SQLite
// task store, the operation dispatcher, and optional instrumentation
// (metrics recorder and audit logger). Shutting it down cancels the
// server context and closes the store.
//
// HealthChecker serves Kubernetes-style probes:
//   - /healthz: liveness, always ok while the process runs
//   - /readyz: readiness, includes a store ping
//   - /healthz/detailed: readiness plus uptime
//
// MetricsServer exposes /metrics on its own port so operational metrics
// stay off the main MCP transport.
package server
