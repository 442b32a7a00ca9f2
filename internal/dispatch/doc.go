// Package dispatch routes task operations. Each operation is a typed
// parameter struct from a closed set; Dispatch validates it, resolves
// the target task, checks ownership and executes against the store,
// always returning the same result envelope shape.
package dispatch
