// Package errors provides unified error handling for permkit.
// It implements a structured error type with error codes, HTTP status
// mapping, and retryable detection, so that authorization failures are
// always distinguishable from authorization denials.
package errors
