// Package common provides shared utilities for MCP tool implementations.
// It contains argument decoding helpers and the instrumentation wrapper
// used across all tool packages to ensure consistent behavior.
package common
