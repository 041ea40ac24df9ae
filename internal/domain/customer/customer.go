package customer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Identity is either Transient (not yet stored) or Persisted (id assigned by storage).
type Identity interface {
	isIdentity()
}

// Transient is the identity of a customer that has not been saved yet.
type Transient struct{}

// Persisted is the identity of a stored customer.
type Persisted struct {
	ID CustomerID
}

func (Transient) isIdentity() {}
func (Persisted) isIdentity() {}

// Customer is the aggregate root for customer data and credit balance.
// Name is never empty after trimming.
type Customer struct {
	identity        Identity
	name            string
	email           Email
	phoneNumber     PhoneNumber
	availableCredit AvailableCredit
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewCustomer creates a transient customer with a zero credit balance.
func NewCustomer(name string, email Email, phoneNumber PhoneNumber) (*Customer, error) {
	return NewCustomerWithCredit(name, email, phoneNumber, ZeroAvailableCredit())
}

// NewCustomerWithCredit creates a transient customer with an initial balance.
func NewCustomerWithCredit(name string, email Email, phoneNumber PhoneNumber, initialCredit AvailableCredit) (*Customer, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Customer{
		identity:        Transient{},
		name:            name,
		email:           email,
		phoneNumber:     phoneNumber,
		availableCredit: initialCredit,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// RestoreParams is the full persisted state of a customer.
type RestoreParams struct {
	ID              CustomerID
	Name            string
	Email           Email
	PhoneNumber     PhoneNumber
	AvailableCredit AvailableCredit
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// RestoreCustomer rebuilds a persisted customer from storage.
func RestoreCustomer(p RestoreParams) (*Customer, error) {
	if err := ValidateName(p.Name); err != nil {
		return nil, err
	}

	return &Customer{
		identity:        Persisted{ID: p.ID},
		name:            p.Name,
		email:           p.Email,
		phoneNumber:     p.PhoneNumber,
		availableCredit: p.AvailableCredit,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		deletedAt:       p.DeletedAt,
	}, nil
}

// ValidateName enforces the non-empty-after-trim name rule.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewNameEmptyError()
	}
	return nil
}

// UpdateName replaces the name with its trimmed form.
func (c *Customer) UpdateName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	c.name = strings.TrimSpace(name)
	c.touch()
	return nil
}

// UpdateContact replaces email and phone number together.
func (c *Customer) UpdateContact(email Email, phoneNumber PhoneNumber) {
	c.email = email
	c.phoneNumber = phoneNumber
	c.touch()
}

// ReplaceAvailableCredit overwrites the balance. Used by partial updates that set
// the credit outright rather than adjusting it.
func (c *Customer) ReplaceAvailableCredit(credit AvailableCredit) {
	c.availableCredit = credit
	c.touch()
}

// IncreaseAvailableCredit adds a strictly positive delta to the balance.
func (c *Customer) IncreaseAvailableCredit(delta decimal.Decimal) error {
	if !delta.IsPositive() {
		return NewAvailableCreditPositiveError(delta)
	}

	credit, err := c.availableCredit.Add(delta)
	if err != nil {
		return err
	}
	c.availableCredit = credit
	c.touch()
	return nil
}

// AdjustAvailableCredit applies a signed amount to the balance. Unlike
// IncreaseAvailableCredit it accepts debits; the balance still cannot go below zero.
func (c *Customer) AdjustAvailableCredit(amount decimal.Decimal) error {
	credit, err := c.availableCredit.Add(amount)
	if err != nil {
		return err
	}
	c.availableCredit = credit
	c.touch()
	return nil
}

// MarkDeleted records a soft delete. It does not lock the aggregate.
func (c *Customer) MarkDeleted() {
	now := time.Now()
	c.deletedAt = &now
}

// AssignID moves a transient customer to the persisted state.
// Storage adapters call it after the row has been inserted.
func (c *Customer) AssignID(id CustomerID) {
	c.identity = Persisted{ID: id}
}

func (c *Customer) touch() {
	c.updatedAt = time.Now()
}

// Identity returns the Transient or Persisted variant.
func (c *Customer) Identity() Identity {
	return c.identity
}

// ID returns the id and true when the customer is persisted.
func (c *Customer) ID() (CustomerID, bool) {
	if p, ok := c.identity.(Persisted); ok {
		return p.ID, true
	}
	return CustomerID{}, false
}

// IsPersisted reports whether storage has assigned an id.
func (c *Customer) IsPersisted() bool {
	_, ok := c.identity.(Persisted)
	return ok
}

func (c *Customer) Name() string                     { return c.name }
func (c *Customer) Email() Email                     { return c.email }
func (c *Customer) PhoneNumber() PhoneNumber         { return c.phoneNumber }
func (c *Customer) AvailableCredit() AvailableCredit { return c.availableCredit }
func (c *Customer) CreatedAt() time.Time             { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time             { return c.updatedAt }

// DeletedAt returns nil unless the customer was soft-deleted.
func (c *Customer) DeletedAt() *time.Time {
	return c.deletedAt
}

// IsDeleted reports whether a soft-delete marker is set.
func (c *Customer) IsDeleted() bool {
	return c.deletedAt != nil
}
