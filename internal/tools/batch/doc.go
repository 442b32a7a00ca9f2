// Package batch provides common utilities for batch operations across MCP tools.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single task ids and arrays
//   - Formatting batch results in a consistent structure
//   - Processing batch operations with partial failure handling
package batch
