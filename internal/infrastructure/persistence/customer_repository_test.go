package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var customerColumns = []string{
	"id", "created_at", "updated_at", "deleted_at", "name", "email", "phone_number", "available_credit",
}

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

// newSQLiteCustomerRepository creates a GormCustomerRepository over a private in-memory database
func newSQLiteCustomerRepository(t *testing.T) customer.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.CustomerModel{}))
	return NewGormCustomerRepository(db)
}

func TestGormCustomerRepository_SQLite(t *testing.T) {
	testCustomerRepositoryContract(t, newSQLiteCustomerRepository)
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	id, _ := customer.NewCustomerID(7)
	now := time.Now()

	t.Run("finds a live customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows(customerColumns).
			AddRow(7, now, now, nil, "John Doe", "john@example.com", "+34600123456", "100.50")
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 AND "customers"."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(int64(7), 1).
			WillReturnRows(rows)

		found, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "John Doe", found.Name())
		assert.Equal(t, "100.5", found.AvailableCredit().String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1`).
			WithArgs(int64(7), 1).
			WillReturnRows(sqlmock.NewRows(customerColumns))

		found, err := repo.FindByID(context.Background(), id)
		assert.NoError(t, err)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps driver failures", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "customers"`).WillReturnError(sql.ErrConnDone)

		found, err := repo.FindByID(context.Background(), id)
		assert.Nil(t, found)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Contains(t, err.Error(), "failed to find customer")
	})
}

func TestGormCustomerRepository_FindByEmailAndPhoneNumber(t *testing.T) {
	repo, mock, mockDB := newMockCustomerRepository(t)
	defer mockDB.Close()

	now := time.Now()
	email, _ := customer.NewEmail("john@example.com")
	phone, _ := customer.NewPhoneNumber("+34600123456")

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE \(email = \$1 AND phone_number = \$2\) AND "customers"."deleted_at" IS NULL`).
		WithArgs("john@example.com", "+34600123456", 1).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(3, now, now, nil, "John", "john@example.com", "+34600123456", "0"))

	found, err := repo.FindByEmailAndPhoneNumber(context.Background(), email, phone)
	require.NoError(t, err)
	require.NotNil(t, found)
	got, _ := found.ID()
	assert.Equal(t, int64(3), got.Value())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_FindAll(t *testing.T) {
	t.Run("orders by the whitelisted column with an id tiebreaker", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE "customers"."deleted_at" IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE "customers"."deleted_at" IS NULL ORDER BY available_credit DESC,id DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(5, 5).
			WillReturnRows(sqlmock.NewRows(customerColumns).
				AddRow(2, now, now, nil, "B", "b@example.com", "+34600000002", "20").
				AddRow(1, now, now, nil, "A", "a@example.com", "+34600000001", "10"))

		result, err := repo.FindAll(context.Background(), customer.ListQuery{
			SortBy: customer.SortByAvailableCredit, SortOrder: customer.SortDesc, Page: 2, PageSize: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12), result.Total)
		assert.Equal(t, []string{"20", "10"}, creditsOf(result.Customers))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count failure is reported", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).WillReturnError(errors.New("db down"))

		_, err := repo.FindAll(context.Background(), customer.ListQuery{Page: 1, PageSize: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count customers")
	})
}

func TestGormCustomerRepository_Save(t *testing.T) {
	t.Run("inserts a transient customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO "customers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		saved, err := repo.Save(context.Background(),
			newTransientCustomer(t, "John Doe", "john@example.com", "+34600123456", 100))
		require.NoError(t, err)
		id, ok := saved.ID()
		require.True(t, ok)
		assert.Equal(t, int64(42), id.Value())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps constraint violations", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO "customers"`).
			WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_unique_email_phone_number"`))

		_, err := repo.Save(context.Background(),
			newTransientCustomer(t, "John Doe", "john@example.com", "+34600123456", 100))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save customer")
	})
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	repo, mock, mockDB := newMockCustomerRepository(t)
	defer mockDB.Close()

	id, _ := customer.NewCustomerID(7)
	mock.ExpectExec(`UPDATE "customers" SET "deleted_at"=\$1 WHERE "customers"."id" = \$2 AND "customers"."deleted_at" IS NULL`).
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_AddAvailableCredit(t *testing.T) {
	id, _ := customer.NewCustomerID(7)
	now := time.Now()

	t.Run("updates in a single guarded statement", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "customers" SET "available_credit"=available_credit \+ \$1,"updated_at"=\$2 WHERE id = \$3 AND available_credit \+ \$4 >= 0`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(7), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1`).
			WithArgs(int64(7), 1).
			WillReturnRows(sqlmock.NewRows(customerColumns).
				AddRow(7, now, now, nil, "John", "john@example.com", "+34600123456", "150"))

		updated, err := repo.AddAvailableCredit(context.Background(), id, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, "150", updated.AvailableCredit().String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no affected row on a live customer means the balance would go negative", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "customers"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "customers"`).
			WillReturnRows(sqlmock.NewRows(customerColumns).
				AddRow(7, now, now, nil, "John", "john@example.com", "+34600123456", "100"))

		_, err := repo.AddAvailableCredit(context.Background(), id, decimal.NewFromInt(-150))
		require.ErrorIs(t, err, customer.ErrAvailableCreditNegative)
		var domainErr *customer.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "-50", domainErr.Value.(decimal.Decimal).String())
	})
}
