package instrumentation

import "strconv"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with user identifiers.

// BucketOwner maps an owner identifier to a small, fixed label space.
// Per-owner metric labels would grow without bound; a hash bucket keeps
// rough per-cohort visibility without the explosion.
//
// Example:
//
//	BucketOwner(7)   // "bucket-7"
//	BucketOwner(23)  // "bucket-7"
//	BucketOwner(0)   // "unknown"
func BucketOwner(owner int64) string {
	if owner <= 0 {
		return "unknown"
	}
	return "bucket-" + strconv.FormatInt(owner%16, 10)
}

// Common operation types for store and dispatch metrics.
// Status and component constants are defined in config.go.
const (
	OperationAdd      = "add"
	OperationList     = "list"
	OperationComplete = "complete"
	OperationDelete   = "delete"
	OperationUpdate   = "update"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationPatch    = "patch"
	OperationReplace  = "replace"
	OperationQuery    = "query"
	OperationAppend   = "append"
	OperationWindow   = "window"
)
