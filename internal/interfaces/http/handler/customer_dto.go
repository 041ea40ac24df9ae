package handler

import (
	appcustomer "github.com/hitzu/taxdown-tech-challenge/internal/application/customer"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest is the body of POST /customers
// @Description Request body for creating a customer
type CreateCustomerRequest struct {
	Name                   string   `json:"name" binding:"required" example:"Ada Lovelace"`
	Email                  string   `json:"email" binding:"required,email" example:"ada@example.com"`
	PhoneNumber            string   `json:"phoneNumber" binding:"required" example:"+34600000000"`
	InitialAvailableCredit *float64 `json:"initialAvailableCredit" binding:"required,gt=0" example:"1500.50"`
}

func (r CreateCustomerRequest) toServiceRequest() appcustomer.CreateCustomerRequest {
	return appcustomer.CreateCustomerRequest{
		Name:                   r.Name,
		Email:                  r.Email,
		PhoneNumber:            r.PhoneNumber,
		InitialAvailableCredit: decimal.NewFromFloat(*r.InitialAvailableCredit),
	}
}

// UpdateCustomerRequest is the body of PUT /customers/{id}. Omitted fields are left unchanged.
// @Description Request body for a partial customer update
type UpdateCustomerRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=1" example:"Ada King"`
	Email           *string  `json:"email" binding:"omitempty,email" example:"ada.king@example.com"`
	PhoneNumber     *string  `json:"phoneNumber" binding:"omitempty,min=1" example:"+34611111111"`
	AvailableCredit *float64 `json:"availableCredit" binding:"omitempty,gte=0" example:"200"`
}

func (r UpdateCustomerRequest) toServiceRequest() appcustomer.UpdateCustomerRequest {
	req := appcustomer.UpdateCustomerRequest{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
	if r.AvailableCredit != nil {
		credit := decimal.NewFromFloat(*r.AvailableCredit)
		req.AvailableCredit = &credit
	}
	return req
}

// AvailableCreditRequest is the body of PATCH /customers/{id}/available-credit.
// The amount is signed; a negative value debits the balance.
// @Description Signed amount added to the customer's available credit
type AvailableCreditRequest struct {
	AvailableCredit *float64 `json:"availableCredit" binding:"required" example:"250.75"`
}

// ListCustomersQuery holds the raw list query. Page and page size stay strings
// so malformed values fall back to their defaults instead of failing the request.
type ListCustomersQuery struct {
	SortBy    string `form:"sortBy" example:"createdAt"`
	SortOrder string `form:"sortOrder" example:"asc"`
	Page      string `form:"page" example:"1"`
	PageSize  string `form:"pageSize" example:"10"`
}

func (q ListCustomersQuery) toServiceRequest() appcustomer.FindAllCustomersRequest {
	return appcustomer.FindAllCustomersRequest{
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      positiveIntOrZero(q.Page),
		PageSize:  positiveIntOrZero(q.PageSize),
	}
}

// positiveIntOrZero accepts only plain digit strings with a value of at least one
func positiveIntOrZero(raw string) int {
	if raw == "" || len(raw) > 9 {
		return 0
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// CustomerListResponse is the data payload of GET /customers
type CustomerListResponse = appcustomer.FindAllCustomersResponse

// CustomerResponse is the customer record returned by the API
type CustomerResponse = appcustomer.CustomerResponse
