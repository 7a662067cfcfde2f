package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrStudentNotFound ErrCode = "STUDENT_NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrNoResults       ErrCode = "NO_RESULTS"

	// ─── Eligibility ───────────────────────────────────────────────────
	ErrPreconditionFailed ErrCode = "PRECONDITION_FAILED"
	ErrMajorUnsupported   ErrCode = "MAJOR_UNSUPPORTED"
	ErrCampusUnavailable  ErrCode = "CAMPUS_UNAVAILABLE"
	ErrReceiptInvalid     ErrCode = "RECEIPT_INVALID"
	ErrAdvisorDisabled    ErrCode = "ADVISOR_DISABLED"
	ErrAdvisorFailed      ErrCode = "ADVISOR_FAILED"

	// ─── Transcript import ─────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrImportFailed    ErrCode = "IMPORT_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrStudentNotFound:
		return "Student profile not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrNoResults:
		return "No eligibility results yet. Run a verification first."

	// ─── Eligibility ───────────────────────────────────────────────────
	case ErrPreconditionFailed:
		return "The student profile is not ready for verification."
	case ErrMajorUnsupported:
		return "Requirements for this major are not available yet."
	case ErrCampusUnavailable:
		return "This campus is not available for verification yet."
	case ErrReceiptInvalid:
		return "The receipt is invalid or has expired."
	case ErrAdvisorDisabled:
		return "The advisor summary is not configured on this server."
	case ErrAdvisorFailed:
		return "The advisor summary could not be generated."

	// ─── Transcript import ─────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrImportFailed:
		return "The transcript file could not be imported."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
