// Package testutil provides common test utilities for the customers API.
// It contains builders for domain customers, a sqlmock-backed GORM handle
// and small polling helpers shared by the integration suites.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a mock postgres-dialect database closed on test cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// ExpectationsWereMet asserts all sqlmock expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unfulfilled sqlmock expectations")
}

// CustomerParams describes a customer to build. Zero fields get defaults.
type CustomerParams struct {
	Name        string
	Email       string
	PhoneNumber string
	Credit      float64
}

// NewCustomer builds a transient customer, failing the test on invalid input.
func NewCustomer(t *testing.T, params CustomerParams) *customer.Customer {
	t.Helper()

	if params.Name == "" {
		params.Name = "Test Customer"
	}
	if params.Email == "" {
		params.Email = "test@example.com"
	}
	if params.PhoneNumber == "" {
		params.PhoneNumber = "+34600000000"
	}

	email, err := customer.NewEmail(params.Email)
	require.NoError(t, err)
	phone, err := customer.NewPhoneNumber(params.PhoneNumber)
	require.NoError(t, err)
	credit, err := customer.NewAvailableCreditFromFloat(params.Credit)
	require.NoError(t, err)

	c, err := customer.NewCustomerWithCredit(params.Name, email, phone, credit)
	require.NoError(t, err)
	return c
}

// SaveCustomer persists a customer and returns its assigned id.
func SaveCustomer(t *testing.T, repo customer.Repository, c *customer.Customer) customer.CustomerID {
	t.Helper()

	saved, err := repo.Save(context.Background(), c)
	require.NoError(t, err)
	id, ok := saved.ID()
	require.True(t, ok, "saved customer has no id")
	return id
}

// CustomerID converts n to a CustomerID, failing the test when n is not positive.
func CustomerID(t *testing.T, n int64) customer.CustomerID {
	t.Helper()
	id, err := customer.NewCustomerID(n)
	require.NoError(t, err)
	return id
}

// ContextWithTimeout creates a context cancelled on test cleanup or after timeout.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually polls condition until it holds or the timeout elapses.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
