package models

import (
	"testing"
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCustomerModel_TableName(t *testing.T) {
	assert.Equal(t, "customers", CustomerModel{}.TableName())
}

func TestCustomerModel_ToDomain(t *testing.T) {
	now := time.Now()

	t.Run("maps a live row", func(t *testing.T) {
		m := &CustomerModel{
			SoftDeleteModel: SoftDeleteModel{ID: 12, CreatedAt: now, UpdatedAt: now},
			Name:            "John Doe",
			Email:           "john@example.com",
			PhoneNumber:     "+34600123456",
			AvailableCredit: decimal.NewFromInt(100),
		}

		c, err := m.ToDomain()
		require.NoError(t, err)

		id, ok := c.ID()
		require.True(t, ok)
		assert.Equal(t, int64(12), id.Value())
		assert.Equal(t, "John Doe", c.Name())
		assert.Equal(t, "john@example.com", c.Email().Value())
		assert.Equal(t, "+34600123456", c.PhoneNumber().Value())
		assert.Equal(t, "100", c.AvailableCredit().String())
		assert.Nil(t, c.DeletedAt())
	})

	t.Run("maps the soft delete column", func(t *testing.T) {
		m := &CustomerModel{
			SoftDeleteModel: SoftDeleteModel{ID: 1, DeletedAt: gorm.DeletedAt{Time: now, Valid: true}},
			Name:            "Gone",
			Email:           "gone@example.com",
			PhoneNumber:     "+34600000000",
		}

		c, err := m.ToDomain()
		require.NoError(t, err)
		require.NotNil(t, c.DeletedAt())
		assert.True(t, c.DeletedAt().Equal(now))
	})

	t.Run("reports rows that break value object rules", func(t *testing.T) {
		m := &CustomerModel{
			SoftDeleteModel: SoftDeleteModel{ID: 5},
			Name:            "Bad",
			Email:           "not-an-email",
			PhoneNumber:     "+34600000000",
		}

		_, err := m.ToDomain()
		assert.ErrorIs(t, err, customer.ErrEmailInvalid)
		assert.Contains(t, err.Error(), "customer row 5")
	})
}

func TestCustomerModelFromDomain(t *testing.T) {
	email, _ := customer.NewEmail("jane@example.com")
	phone, _ := customer.NewPhoneNumber("+34600000001")
	credit, _ := customer.NewAvailableCreditFromFloat(42.5)

	t.Run("transient customer leaves id unset", func(t *testing.T) {
		c, err := customer.NewCustomerWithCredit("Jane", email, phone, credit)
		require.NoError(t, err)

		m := CustomerModelFromDomain(c)
		assert.Zero(t, m.ID)
		assert.Equal(t, "Jane", m.Name)
		assert.Equal(t, "jane@example.com", m.Email)
		assert.Equal(t, "+34600000001", m.PhoneNumber)
		assert.True(t, m.AvailableCredit.Equal(decimal.NewFromFloat(42.5)))
		assert.False(t, m.DeletedAt.Valid)
	})

	t.Run("persisted customer keeps id and delete marker", func(t *testing.T) {
		id, _ := customer.NewCustomerID(3)
		c, err := customer.RestoreCustomer(customer.RestoreParams{
			ID: id, Name: "Jane", Email: email, PhoneNumber: phone, AvailableCredit: credit,
		})
		require.NoError(t, err)
		c.MarkDeleted()

		m := CustomerModelFromDomain(c)
		assert.Equal(t, int64(3), m.ID)
		assert.True(t, m.DeletedAt.Valid)
	})
}
