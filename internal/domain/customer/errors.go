package customer

import (
	"fmt"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes exposed to the transport boundary.
const (
	CodeNotFound                = "CUSTOMER_NOT_FOUND"
	CodeNameEmpty               = "CUSTOMER_NAME_EMPTY"
	CodeEmailInvalid            = "CUSTOMER_EMAIL_INVALID"
	CodePhoneNumberInvalid      = "CUSTOMER_PHONE_NUMBER_INVALID"
	CodeAvailableCreditNegative = "CUSTOMER_AVAILABLE_CREDIT_NEGATIVE"
	CodeIDPositive              = "CUSTOMER_ID_POSITIVE"
	CodeAlreadyExistsEmailPhone = "CUSTOMER_ALREADY_EXISTS_EMAIL_PHONE_NUMBER"
	CodeAvailableCreditPositive = "CUSTOMER_AVAILABLE_CREDIT_POSITIVE"
)

// Sentinels for errors.Is checks. They match any DomainError with the same code.
var (
	ErrNotFound                = shared.NewDomainError(CodeNotFound, "customer not found")
	ErrNameEmpty               = shared.NewDomainError(CodeNameEmpty, "customer name cannot be empty")
	ErrEmailInvalid            = shared.NewDomainError(CodeEmailInvalid, "invalid email address")
	ErrPhoneNumberInvalid      = shared.NewDomainError(CodePhoneNumberInvalid, "invalid phone number")
	ErrAvailableCreditNegative = shared.NewDomainError(CodeAvailableCreditNegative, "available credit cannot be negative")
	ErrIDPositive              = shared.NewDomainError(CodeIDPositive, "customer id must be a positive integer")
	ErrAlreadyExists           = shared.NewDomainError(CodeAlreadyExistsEmailPhone, "customer already exists")
	ErrAvailableCreditPositive = shared.NewDomainError(CodeAvailableCreditPositive, "available credit must be positive")
)

// DomainError is a failure raised by the customer domain. Value holds the
// offending input (id, raw email, resulting balance...) for kinds that carry one.
type DomainError struct {
	*shared.DomainError
	Value any
}

// Unwrap exposes the coded base error to errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.DomainError
}

func newError(code string, value any, format string, args ...any) *DomainError {
	return &DomainError{
		DomainError: shared.NewDomainError(code, fmt.Sprintf(format, args...)),
		Value:       value,
	}
}

// NewNotFoundError reports that no live customer has the given id.
func NewNotFoundError(id CustomerID) *DomainError {
	return newError(CodeNotFound, id.Value(), "Customer with id %d not found", id.Value())
}

// NewNameEmptyError reports an empty or whitespace-only name.
func NewNameEmptyError() *DomainError {
	return newError(CodeNameEmpty, nil, "Customer name cannot be empty")
}

// NewEmailInvalidError reports a malformed email address.
func NewEmailInvalidError(raw string) *DomainError {
	return newError(CodeEmailInvalid, raw, "Invalid email address: %s", raw)
}

// NewPhoneNumberInvalidError reports a malformed phone number.
func NewPhoneNumberInvalidError(raw string) *DomainError {
	return newError(CodePhoneNumberInvalid, raw, "Invalid phone number: %s", raw)
}

// NewAvailableCreditNegativeError reports a balance that would be below zero.
func NewAvailableCreditNegativeError(value decimal.Decimal) *DomainError {
	return newError(CodeAvailableCreditNegative, value, "Available credit cannot be negative: %s", value.String())
}

// NewIDPositiveError reports an id that is not a positive integer.
func NewIDPositiveError(raw any) *DomainError {
	return newError(CodeIDPositive, raw, "Customer ID must be positive integer: %v", raw)
}

// NewAlreadyExistsError reports a live customer with the same email and phone number.
func NewAlreadyExistsError(email Email, phone PhoneNumber) *DomainError {
	return newError(CodeAlreadyExistsEmailPhone, [2]string{email.Value(), phone.Value()},
		"Customer with email %s and phone number %s already exists", email.Value(), phone.Value())
}

// NewAvailableCreditPositiveError reports a credit increase that is zero or negative.
func NewAvailableCreditPositiveError(delta decimal.Decimal) *DomainError {
	return newError(CodeAvailableCreditPositive, delta, "Available credit must be positive: %s", delta.String())
}
