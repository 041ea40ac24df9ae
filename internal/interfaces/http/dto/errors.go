package dto

import (
	"net/http"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/shared"
)

// Transport-level error codes. Domain codes pass through unchanged.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP statuses
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	shared.ErrInvalidInput.Code:  http.StatusBadRequest,
	shared.ErrNotFound.Code:      http.StatusNotFound,
	shared.ErrAlreadyExists.Code: http.StatusConflict,

	customer.CodeNotFound:                http.StatusNotFound,
	customer.CodeAlreadyExistsEmailPhone: http.StatusConflict,
	customer.CodeNameEmpty:               http.StatusBadRequest,
	customer.CodeEmailInvalid:            http.StatusBadRequest,
	customer.CodePhoneNumberInvalid:      http.StatusBadRequest,
	customer.CodeAvailableCreditNegative: http.StatusBadRequest,
	customer.CodeIDPositive:              http.StatusBadRequest,
	customer.CodeAvailableCreditPositive: http.StatusBadRequest,
}

// GetHTTPStatus returns the status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
