package customer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneNumberPattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// CustomerID is the storage-assigned identity of a customer. Always > 0.
type CustomerID struct {
	value int64
}

// NewCustomerID validates n as a customer identity.
func NewCustomerID(n int64) (CustomerID, error) {
	if n <= 0 {
		return CustomerID{}, NewIDPositiveError(n)
	}
	return CustomerID{value: n}, nil
}

// ParseCustomerID parses a decimal integer string such as a path parameter.
// Anything that is not a positive base-10 integer is rejected with CUSTOMER_ID_POSITIVE.
func ParseCustomerID(raw string) (CustomerID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return CustomerID{}, NewIDPositiveError(raw)
	}
	return NewCustomerID(n)
}

// Value returns the underlying integer.
func (id CustomerID) Value() int64 {
	return id.value
}

// String returns the decimal representation.
func (id CustomerID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// Email is a syntactically valid email address.
type Email struct {
	value string
}

// NewEmail validates s against a simple local@domain.tld shape.
func NewEmail(s string) (Email, error) {
	if !emailPattern.MatchString(s) {
		return Email{}, NewEmailInvalidError(s)
	}
	return Email{value: s}, nil
}

// Value returns the address.
func (e Email) Value() string {
	return e.value
}

// String implements fmt.Stringer
func (e Email) String() string {
	return e.value
}

// PhoneNumber is an E.164-like phone number: optional "+", 2 to 15 digits, no leading zero.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber validates s.
func NewPhoneNumber(s string) (PhoneNumber, error) {
	if !phoneNumberPattern.MatchString(s) {
		return PhoneNumber{}, NewPhoneNumberInvalidError(s)
	}
	return PhoneNumber{value: s}, nil
}

// Value returns the number as given.
func (p PhoneNumber) Value() string {
	return p.value
}

// String implements fmt.Stringer
func (p PhoneNumber) String() string {
	return p.value
}

// AvailableCredit is a non-negative credit balance.
// It is immutable - Add returns a new instance.
// The zero value is a valid balance of 0.
type AvailableCredit struct {
	value decimal.Decimal
}

// NewAvailableCredit validates that amount is not negative.
func NewAvailableCredit(amount decimal.Decimal) (AvailableCredit, error) {
	if amount.IsNegative() {
		return AvailableCredit{}, NewAvailableCreditNegativeError(amount)
	}
	return AvailableCredit{value: amount}, nil
}

// NewAvailableCreditFromFloat is a convenience for literal amounts.
func NewAvailableCreditFromFloat(amount float64) (AvailableCredit, error) {
	return NewAvailableCredit(decimal.NewFromFloat(amount))
}

// ZeroAvailableCredit returns a balance of 0.
func ZeroAvailableCredit() AvailableCredit {
	return AvailableCredit{value: decimal.Zero}
}

// Value returns the balance.
func (c AvailableCredit) Value() decimal.Decimal {
	return c.value
}

// Add returns a new balance of c + delta. delta may be negative as long as
// the result stays at or above zero; otherwise the error carries the resulting value.
func (c AvailableCredit) Add(delta decimal.Decimal) (AvailableCredit, error) {
	return NewAvailableCredit(c.value.Add(delta))
}

// Equal compares balances numerically (10 == 10.00).
func (c AvailableCredit) Equal(other AvailableCredit) bool {
	return c.value.Equal(other.value)
}

// String returns the decimal representation.
func (c AvailableCredit) String() string {
	return c.value.String()
}
