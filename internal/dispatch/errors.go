package dispatch

// Code classifies a failed operation. The set is closed: every failure
// envelope carries exactly one of these values.
type Code string

const (
	// CodeValidation marks malformed or missing input, caught before any
	// store call is made.
	CodeValidation Code = "validation-error"
	// CodeNotFound marks a task reference that resolved to nothing.
	CodeNotFound Code = "not-found"
	// CodePermissionDenied marks a resolved task owned by someone else.
	CodePermissionDenied Code = "permission-denied"
	// CodeStorage marks an unexpected persistence failure. The detail is
	// logged, never surfaced to the caller.
	CodeStorage Code = "storage-error"
)
