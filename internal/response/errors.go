package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrActionForbidden  ErrCode = "ACTION_FORBIDDEN"

	// ─── Studio-specific ───────────────────────────────────────────────
	ErrReviewLinkInvalid  ErrCode = "REVIEW_LINK_INVALID"
	ErrDuplicateRSVP      ErrCode = "DUPLICATE_RSVP"
	ErrRSVPTargetRequired ErrCode = "RSVP_TARGET_REQUIRED"
	ErrDateInPast         ErrCode = "DATE_IN_PAST"
	ErrInvalidTransition  ErrCode = "INVALID_STATUS_TRANSITION"
	ErrClassUnavailable   ErrCode = "CLASS_UNAVAILABLE"

	// ─── Integrations ──────────────────────────────────────────────────
	ErrNotConfigured    ErrCode = "INTEGRATION_NOT_CONFIGURED"
	ErrUpstream         ErrCode = "UPSTREAM_ERROR"
	ErrInvalidSignature ErrCode = "INVALID_SIGNATURE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrAdminAccessOnly:
		return "This resource is restricted to studio staff."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "This record is still referenced by other data and cannot be deleted."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Studio-specific ───────────────────────────────────────────────
	case ErrReviewLinkInvalid:
		return "This review link is no longer valid."
	case ErrDuplicateRSVP:
		return "You have already RSVP'd for this."
	case ErrRSVPTargetRequired:
		return "An RSVP needs a class or an event."
	case ErrDateInPast:
		return "The class date cannot be in the past."
	case ErrInvalidTransition:
		return "The requested status change is not allowed."
	case ErrClassUnavailable:
		return "This class is not currently on the schedule."

	// ─── Integrations ──────────────────────────────────────────────────
	case ErrNotConfigured:
		return "This integration is not configured."
	case ErrUpstream:
		return "An external service returned an error. Please try again later."
	case ErrInvalidSignature:
		return "Request signature is invalid."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
