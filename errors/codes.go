package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidLevel indicates a permission level outside the closed set.
	ErrCodeInvalidLevel ErrorCode = "INVALID_LEVEL"
)

// Authentication/Authorization errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the request is forbidden.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeInvalidToken indicates the authentication token is invalid.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Collaborator/Internal errors
const (
	// ErrCodeCollaboratorFailure indicates a permission collaborator
	// (matrix provider, resolver, loader) failed.
	ErrCodeCollaboratorFailure ErrorCode = "COLLABORATOR_FAILURE"
	// ErrCodeNotConfigured indicates a required collaborator is missing.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCollaboratorFailure: true,
	ErrCodeInternal:            false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
