package customer

import (
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/shopspring/decimal"
)

// List defaults applied when a field is left empty.
const (
	DefaultSortBy    = customer.SortByCreatedAt
	DefaultSortOrder = customer.SortAsc
	DefaultPage      = 1
	DefaultPageSize  = 10
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name                   string
	Email                  string
	PhoneNumber            string
	InitialAvailableCredit decimal.Decimal
}

// UpdateCustomerRequest represents a partial update. Nil fields are left untouched.
type UpdateCustomerRequest struct {
	Name            *string
	Email           *string
	PhoneNumber     *string
	AvailableCredit *decimal.Decimal
}

// FindAllCustomersRequest selects a page of customers
type FindAllCustomersRequest struct {
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// AddAvailableCreditRequest adjusts a customer's balance by a signed amount
type AddAvailableCreditRequest struct {
	ID     int64
	Amount decimal.Decimal
}

// CustomerResponse is the output record for a customer
type CustomerResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	PhoneNumber     string          `json:"phoneNumber"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       *time.Time      `json:"deletedAt"`
}

// FindAllCustomersResponse is one page of customers plus the unpaginated total
type FindAllCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Total     int64              `json:"total"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse.
// A transient customer maps to ID 0.
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	var id int64
	if cid, ok := c.ID(); ok {
		id = cid.Value()
	}
	return CustomerResponse{
		ID:              id,
		Name:            c.Name(),
		Email:           c.Email().Value(),
		PhoneNumber:     c.PhoneNumber().Value(),
		AvailableCredit: c.AvailableCredit().Value(),
		CreatedAt:       c.CreatedAt(),
		UpdatedAt:       c.UpdatedAt(),
		DeletedAt:       c.DeletedAt(),
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []*customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses
}
