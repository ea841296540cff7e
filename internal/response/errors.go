package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation         ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload     ErrCode = "INVALID_PAYLOAD"
	ErrDeleteNotConfirmed ErrCode = "DELETE_NOT_CONFIRMED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrRouteNotFound    ErrCode = "ROUTE_NOT_FOUND"
	ErrMethodNotAllowed ErrCode = "METHOD_NOT_ALLOWED"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstream        ErrCode = "UPSTREAM_ERROR"
	ErrUpstreamTimeout ErrCode = "UPSTREAM_TIMEOUT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// Success messages shared by handlers.
const (
	MsgOperationSuccessful = "Operation successful"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed"
	case ErrInvalidPayload:
		return "Invalid request"
	case ErrDeleteNotConfirmed:
		return "Delete confirmation required. Send X-Confirm-Delete: true header"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found"
	case ErrConflict:
		return "Resource already exists"
	case ErrRouteNotFound:
		return "No endpoint matches the request path"
	case ErrMethodNotAllowed:
		return "Request method is not supported for this endpoint"

	// ─── Upstream ──────────────────────────────────────────────────────
	case ErrUpstream:
		return "Upstream service failed"
	case ErrUpstreamTimeout:
		return "Upstream service timed out"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An unexpected error occurred"
	default:
		return "An unexpected error occurred"
	}
}
