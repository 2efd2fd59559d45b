package dto

import (
	"net/http"

	"github.com/retail/backoffice/internal/domain/shared"
)

// InternalErrorMessage is the redacted message returned for unexpected errors
const InternalErrorMessage = "Internal server error"

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here are treated as unexpected and redacted to 500.
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:          http.StatusUnprocessableEntity,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeInvalidTransition:   http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeUnauthorized:        http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
