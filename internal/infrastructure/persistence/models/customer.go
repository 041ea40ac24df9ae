package models

import (
	"fmt"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	SoftDeleteModel
	Name            string          `gorm:"type:varchar(255);not null"`
	Email           string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_unique_email_phone_number,priority:1"`
	PhoneNumber     string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_unique_email_phone_number,priority:2"`
	AvailableCredit decimal.Decimal `gorm:"type:numeric;not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
// Stored values are re-validated; a row that no longer satisfies the
// value-object rules is reported rather than silently loaded.
func (m *CustomerModel) ToDomain() (*customer.Customer, error) {
	id, err := customer.NewCustomerID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("customer row %d: %w", m.ID, err)
	}
	email, err := customer.NewEmail(m.Email)
	if err != nil {
		return nil, fmt.Errorf("customer row %d: %w", m.ID, err)
	}
	phone, err := customer.NewPhoneNumber(m.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("customer row %d: %w", m.ID, err)
	}
	credit, err := customer.NewAvailableCredit(m.AvailableCredit)
	if err != nil {
		return nil, fmt.Errorf("customer row %d: %w", m.ID, err)
	}

	return customer.RestoreCustomer(customer.RestoreParams{
		ID:              id,
		Name:            m.Name,
		Email:           email,
		PhoneNumber:     phone,
		AvailableCredit: credit,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       m.DeletedAtPtr(),
	})
}

// FromDomain populates the persistence model from a domain Customer.
// A transient customer leaves ID at zero so the database assigns one.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	if id, ok := c.ID(); ok {
		m.ID = id.Value()
	}
	m.Name = c.Name()
	m.Email = c.Email().Value()
	m.PhoneNumber = c.PhoneNumber().Value()
	m.AvailableCredit = c.AvailableCredit().Value()
	m.CreatedAt = c.CreatedAt()
	m.UpdatedAt = c.UpdatedAt()
	m.SetDeletedAt(c.DeletedAt())
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
