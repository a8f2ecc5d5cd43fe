package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Set errors
	ErrCodePINAllocationFailed = "pin_allocation_failed"

	// Generation errors
	ErrCodeUpstreamRejected = "upstream_rejected"
	ErrCodeUpstreamError    = "upstream_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeTimeout            = "timeout"
)
