// Package logging provides structured logging utilities for the tasklist application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (owner identity anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "tasks.list")
//	logger.Info("listing tasks",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("user operation",
//	    logging.OwnerHash(owner))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Owner identities are hashed to prevent PII leakage while allowing correlation
//   - Log lines never carry another owner's task content
package logging
