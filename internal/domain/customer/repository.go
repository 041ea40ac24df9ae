package customer

import (
	"context"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SortField is a column customers can be listed by.
type SortField string

const (
	SortByAvailableCredit SortField = "availableCredit"
	SortByName            SortField = "name"
	SortByCreatedAt       SortField = "createdAt"
)

// SortOrder is the list direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether f is a known sort field.
func (f SortField) IsValid() bool {
	switch f {
	case SortByAvailableCredit, SortByName, SortByCreatedAt:
		return true
	}
	return false
}

// IsValid reports whether o is a known direction.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// ListQuery selects one page of live customers.
type ListQuery struct {
	SortBy    SortField
	SortOrder SortOrder
	Page      int // 1-based
	PageSize  int
}

// Offset returns the number of rows to skip.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// ListResult is one page plus the unpaginated count.
type ListResult struct {
	Customers []*Customer
	Total     int64
}

// Patch carries the fields of a partial update. Absent fields are left untouched.
type Patch struct {
	Name            shared.Optional[string]
	Email           shared.Optional[Email]
	PhoneNumber     shared.Optional[PhoneNumber]
	AvailableCredit shared.Optional[AvailableCredit]
}

// IsEmpty reports whether no field is present.
func (p Patch) IsEmpty() bool {
	return !p.Name.IsPresent() && !p.Email.IsPresent() &&
		!p.PhoneNumber.IsPresent() && !p.AvailableCredit.IsPresent()
}

// ApplyTo merges the present fields into c through the aggregate's own rules.
// An email or phone number given alone keeps the other half of the contact.
func (p Patch) ApplyTo(c *Customer) error {
	if name, ok := p.Name.Get(); ok {
		if err := c.UpdateName(name); err != nil {
			return err
		}
	}
	if p.Email.IsPresent() || p.PhoneNumber.IsPresent() {
		c.UpdateContact(p.Email.OrElse(c.Email()), p.PhoneNumber.OrElse(c.PhoneNumber()))
	}
	if credit, ok := p.AvailableCredit.Get(); ok {
		c.ReplaceAvailableCredit(credit)
	}
	return nil
}

// Repository defines the persistence contract for customers.
// Finders never return soft-deleted customers.
type Repository interface {
	// FindByID returns nil, nil when no live customer has the id
	FindByID(ctx context.Context, id CustomerID) (*Customer, error)

	// FindAll returns one sorted page and the total number of live customers
	FindAll(ctx context.Context, query ListQuery) (*ListResult, error)

	// FindByEmailAndPhoneNumber returns nil, nil when there is no match
	FindByEmailAndPhoneNumber(ctx context.Context, email Email, phoneNumber PhoneNumber) (*Customer, error)

	// Save inserts a transient customer or updates a persisted one
	Save(ctx context.Context, customer *Customer) (*Customer, error)

	// Delete soft-deletes a customer
	Delete(ctx context.Context, id CustomerID) error

	// Update merges a partial patch; fails with CUSTOMER_NOT_FOUND when absent
	Update(ctx context.Context, id CustomerID, patch Patch) (*Customer, error)

	// AddAvailableCredit adds a signed amount; fails with CUSTOMER_NOT_FOUND when absent
	AddAvailableCredit(ctx context.Context, id CustomerID, amount decimal.Decimal) (*Customer, error)
}
