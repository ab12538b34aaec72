package dto

import (
	"net/http"

	"github.com/invoicebook/backend/internal/domain/shared"
)

// Error codes returned in the response envelope.
// Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when the request body cannot be decoded
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
	ErrCodeInvalidState     = "ERR_INVALID_STATE"

	// ErrCodeTransaction is used when an atomic write was rolled back
	ErrCodeTransaction = "ERR_TRANSACTION"
	// ErrCodeUnavailable is used when the store cannot be reached
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,

	ErrCodeTransaction: http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to response codes
var domainCodeMapping = map[string]string{
	shared.CodeValidation:       ErrCodeValidation,
	shared.CodeNotFound:         ErrCodeNotFound,
	shared.CodeTransaction:      ErrCodeTransaction,
	shared.CodeTransient:        ErrCodeUnavailable,
	shared.CodeDuplicateRequest: ErrCodeDuplicateRequest,
	shared.CodeInvalidState:     ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to its response code.
// Codes that are already response codes, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	return code
}
