// Package errors provides standardized error types and error handling
// utilities for the WallFrame platform. It defines common error categories,
// error codes, and helper functions for creating, wrapping, and inspecting
// errors across all platform services.
//
// # Error Categories
//
//   - Validation errors: Invalid input, missing required fields
//   - Authentication errors: Missing, invalid, expired, or revoked credentials
//   - Authorization errors: Insufficient role, access denied
//   - Rate errors: Request rate or invalid-attempt limits exceeded
//   - NotFound errors: Resource does not exist
//   - Conflict errors: Resource already exists
//   - Internal errors: Unexpected system failures
//   - Unavailable errors: Service or dependency temporarily unavailable
//   - Timeout errors: Operation exceeded time limit
//
// # Error Codes
//
// Each error includes a machine-readable code (e.g., "AUTH_003") that can be
// used for error tracking, alerting, and client-side error handling. Error
// codes follow the pattern CATEGORY_XXX where CATEGORY is a short identifier
// and XXX is a numeric code.
//
// # Usage
//
// Create a new error with context:
//
//	err := errors.New(errors.CodeAuthenticationInvalid, "token signature is invalid")
//
// Wrap an existing error:
//
//	err := errors.Wrap(err, errors.CodeInternalDatabase, "failed to load user")
//
// Check error category:
//
//	if errors.IsRateLimit(err) {
//	    // respond 429 Too Many Requests
//	}
//
// Extract error details for logging:
//
//	if e, ok := errors.AsError(err); ok {
//	    slog.Warn("authentication failed", "code", e.Code, "message", e.Message)
//	}
package errors
