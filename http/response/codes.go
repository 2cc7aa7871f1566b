package response

import "net/http"

const (
	ErrSystem         = "SYS_INTERNAL_ERROR"
	ErrBadRequest     = "SYS_BAD_REQUEST"
	ErrServiceUnavail = "SYS_SERVICE_UNAVAILABLE"

	ErrValidation = "VAL_INVALID_INPUT"

	ErrNotFound = "RES_NOT_FOUND"

	// Audit subsystem faults surfaced through the ops API.
	ErrAuditMetadata = "AUDIT_METADATA_FAULT"
	ErrAuditSink     = "AUDIT_SINK_UNAVAILABLE"
)

func MapStatus(code string) int {
	switch code {
	case ErrBadRequest, ErrValidation:
		return http.StatusBadRequest

	case ErrNotFound:
		return http.StatusNotFound

	case ErrServiceUnavail, ErrAuditSink:
		return http.StatusServiceUnavailable

	case ErrAuditMetadata:
		fallthrough
	case ErrSystem:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}
