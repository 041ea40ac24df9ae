package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransientCustomer(t *testing.T, name, email, phone string, credit float64) *customer.Customer {
	t.Helper()
	e, err := customer.NewEmail(email)
	require.NoError(t, err)
	p, err := customer.NewPhoneNumber(phone)
	require.NoError(t, err)
	c, err := customer.NewAvailableCreditFromFloat(credit)
	require.NoError(t, err)
	cust, err := customer.NewCustomerWithCredit(name, e, p, c)
	require.NoError(t, err)
	return cust
}

func mustSave(t *testing.T, repo customer.Repository, c *customer.Customer) customer.CustomerID {
	t.Helper()
	saved, err := repo.Save(context.Background(), c)
	require.NoError(t, err)
	id, ok := saved.ID()
	require.True(t, ok)
	return id
}

func creditsOf(customers []*customer.Customer) []string {
	out := make([]string, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.AvailableCredit().Value().StringFixed(0))
	}
	return out
}

func namesOf(customers []*customer.Customer) []string {
	out := make([]string, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.Name())
	}
	return out
}

// testCustomerRepositoryContract runs the behaviour every customer.Repository
// adapter must share against a fresh repository per subtest.
func testCustomerRepositoryContract(t *testing.T, newRepo func(t *testing.T) customer.Repository) {
	ctx := context.Background()

	t.Run("save assigns an id and find returns the stored state", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "John Doe", "john@example.com", "+34600123456", 100))

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "John Doe", found.Name())
		assert.Equal(t, "john@example.com", found.Email().Value())
		assert.Equal(t, "+34600123456", found.PhoneNumber().Value())
		assert.True(t, found.AvailableCredit().Value().Equal(decimal.NewFromInt(100)))
		assert.Nil(t, found.DeletedAt())
	})

	t.Run("timestamps survive a round trip", func(t *testing.T) {
		repo := newRepo(t)
		before := time.Now().Add(-time.Second)
		saved, err := repo.Save(ctx, newTransientCustomer(t, "Ada", "ada@example.com", "+34600000001", 1))
		require.NoError(t, err)
		id, _ := saved.ID()

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.CreatedAt().After(before))
		assert.True(t, found.CreatedAt().Equal(saved.CreatedAt()))
		assert.True(t, found.UpdatedAt().Equal(saved.UpdatedAt()))
		assert.Nil(t, found.DeletedAt())
	})

	t.Run("find by id returns nil for an unknown id", func(t *testing.T) {
		repo := newRepo(t)
		id, _ := customer.NewCustomerID(999)

		found, err := repo.FindByID(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("find by email and phone number", func(t *testing.T) {
		repo := newRepo(t)
		mustSave(t, repo, newTransientCustomer(t, "John", "john@example.com", "+34600123456", 1))

		email, _ := customer.NewEmail("john@example.com")
		phone, _ := customer.NewPhoneNumber("+34600123456")
		otherPhone, _ := customer.NewPhoneNumber("+34600000000")

		found, err := repo.FindByEmailAndPhoneNumber(ctx, email, phone)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "John", found.Name())

		missing, err := repo.FindByEmailAndPhoneNumber(ctx, email, otherPhone)
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("find all sorts by available credit descending", func(t *testing.T) {
		repo := newRepo(t)
		mustSave(t, repo, newTransientCustomer(t, "Low", "low@example.com", "+34600000001", 10))
		mustSave(t, repo, newTransientCustomer(t, "High", "high@example.com", "+34600000002", 20))

		result, err := repo.FindAll(ctx, customer.ListQuery{
			SortBy: customer.SortByAvailableCredit, SortOrder: customer.SortDesc, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Equal(t, []string{"20", "10"}, creditsOf(result.Customers))
	})

	t.Run("find all sorts by name ascending and paginates", func(t *testing.T) {
		repo := newRepo(t)
		mustSave(t, repo, newTransientCustomer(t, "Carol", "carol@example.com", "+34600000003", 1))
		mustSave(t, repo, newTransientCustomer(t, "Alice", "alice@example.com", "+34600000001", 1))
		mustSave(t, repo, newTransientCustomer(t, "Bob", "bob@example.com", "+34600000002", 1))

		first, err := repo.FindAll(ctx, customer.ListQuery{
			SortBy: customer.SortByName, SortOrder: customer.SortAsc, Page: 1, PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), first.Total)
		assert.Equal(t, []string{"Alice", "Bob"}, namesOf(first.Customers))

		second, err := repo.FindAll(ctx, customer.ListQuery{
			SortBy: customer.SortByName, SortOrder: customer.SortAsc, Page: 2, PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), second.Total)
		assert.Equal(t, []string{"Carol"}, namesOf(second.Customers))

		beyond, err := repo.FindAll(ctx, customer.ListQuery{
			SortBy: customer.SortByName, SortOrder: customer.SortAsc, Page: 5, PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), beyond.Total)
		assert.NotNil(t, beyond.Customers)
		assert.Empty(t, beyond.Customers)
	})

	t.Run("find all with no customers", func(t *testing.T) {
		repo := newRepo(t)
		result, err := repo.FindAll(ctx, customer.ListQuery{
			SortBy: customer.SortByCreatedAt, SortOrder: customer.SortAsc, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Total)
		assert.Empty(t, result.Customers)
	})

	t.Run("delete hides the customer from every read", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "Gone", "gone@example.com", "+34600000009", 5))
		mustSave(t, repo, newTransientCustomer(t, "Kept", "kept@example.com", "+34600000008", 5))

		require.NoError(t, repo.Delete(ctx, id))

		found, err := repo.FindByID(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, found)

		email, _ := customer.NewEmail("gone@example.com")
		phone, _ := customer.NewPhoneNumber("+34600000009")
		byContact, err := repo.FindByEmailAndPhoneNumber(ctx, email, phone)
		assert.NoError(t, err)
		assert.Nil(t, byContact)

		result, err := repo.FindAll(ctx, customer.ListQuery{
			SortBy: customer.SortByCreatedAt, SortOrder: customer.SortAsc, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, []string{"Kept"}, namesOf(result.Customers))
	})

	t.Run("the contact pair stays unique after a soft delete", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "First", "dup@example.com", "+34600000010", 5))
		require.NoError(t, repo.Delete(ctx, id))

		_, err := repo.Save(ctx, newTransientCustomer(t, "Second", "dup@example.com", "+34600000010", 5))
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.NotErrorAs(t, err, &domainErr)
	})

	t.Run("update applies only present fields", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "John", "john@example.com", "+34600123456", 100))
		before, err := repo.FindByID(ctx, id)
		require.NoError(t, err)

		newEmail, _ := customer.NewEmail("johnny@example.com")
		newCredit, _ := customer.NewAvailableCreditFromFloat(250)
		time.Sleep(5 * time.Millisecond)

		updated, err := repo.Update(ctx, id, customer.Patch{
			Name:            shared.Some("  Johnny  "),
			Email:           shared.Some(newEmail),
			AvailableCredit: shared.Some(newCredit),
		})
		require.NoError(t, err)
		assert.Equal(t, "Johnny", updated.Name())
		assert.Equal(t, "johnny@example.com", updated.Email().Value())
		assert.Equal(t, "+34600123456", updated.PhoneNumber().Value())
		assert.True(t, updated.AvailableCredit().Value().Equal(decimal.NewFromInt(250)))
		assert.True(t, updated.UpdatedAt().After(before.UpdatedAt()))

		reloaded, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Johnny", reloaded.Name())
		assert.Equal(t, "johnny@example.com", reloaded.Email().Value())
	})

	t.Run("update to another customer's contact pair fails", func(t *testing.T) {
		repo := newRepo(t)
		mustSave(t, repo, newTransientCustomer(t, "Ada", "a@example.com", "+34600000001", 1))
		deletedID := mustSave(t, repo, newTransientCustomer(t, "Gone", "gone@example.com", "+34600000003", 1))
		require.NoError(t, repo.Delete(ctx, deletedID))
		id := mustSave(t, repo, newTransientCustomer(t, "Bob", "b@example.com", "+34600000002", 1))

		for _, pair := range [][2]string{
			{"a@example.com", "+34600000001"},
			{"gone@example.com", "+34600000003"},
		} {
			email, _ := customer.NewEmail(pair[0])
			phone, _ := customer.NewPhoneNumber(pair[1])

			_, err := repo.Update(ctx, id, customer.Patch{Email: shared.Some(email), PhoneNumber: shared.Some(phone)})
			require.Error(t, err, pair[0])
			var domainErr *shared.DomainError
			assert.NotErrorAs(t, err, &domainErr)
		}

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", found.Email().Value())
		assert.Equal(t, "+34600000002", found.PhoneNumber().Value())

		email, _ := customer.NewEmail("a@example.com")
		moved, err := repo.Update(ctx, id, customer.Patch{Email: shared.Some(email)})
		require.NoError(t, err, "only the full pair is unique")
		assert.Equal(t, "a@example.com", moved.Email().Value())
	})

	t.Run("update of an unknown id is not found", func(t *testing.T) {
		repo := newRepo(t)
		id, _ := customer.NewCustomerID(404)

		_, err := repo.Update(ctx, id, customer.Patch{Name: shared.Some("X")})
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})

	t.Run("update rejects an empty name", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "John", "john@example.com", "+34600123456", 1))

		_, err := repo.Update(ctx, id, customer.Patch{Name: shared.Some("   ")})
		assert.ErrorIs(t, err, customer.ErrNameEmpty)

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "John", found.Name())
	})

	t.Run("add available credit accepts credits and debits", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "John", "john@example.com", "+34600123456", 100))

		credited, err := repo.AddAvailableCredit(ctx, id, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.True(t, credited.AvailableCredit().Value().Equal(decimal.NewFromInt(150)))

		debited, err := repo.AddAvailableCredit(ctx, id, decimal.NewFromInt(-150))
		require.NoError(t, err)
		assert.True(t, debited.AvailableCredit().Value().IsZero())
	})

	t.Run("add available credit refuses a negative balance", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "John", "john@example.com", "+34600123456", 100))

		_, err := repo.AddAvailableCredit(ctx, id, decimal.NewFromInt(-150))
		assert.ErrorIs(t, err, customer.ErrAvailableCreditNegative)

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, found.AvailableCredit().Value().Equal(decimal.NewFromInt(100)))
	})

	t.Run("add available credit to an unknown id is not found", func(t *testing.T) {
		repo := newRepo(t)
		id, _ := customer.NewCustomerID(404)

		_, err := repo.AddAvailableCredit(ctx, id, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})

	t.Run("deleted customers cannot be updated", func(t *testing.T) {
		repo := newRepo(t)
		id := mustSave(t, repo, newTransientCustomer(t, "John", "john@example.com", "+34600123456", 100))
		require.NoError(t, repo.Delete(ctx, id))

		_, err := repo.AddAvailableCredit(ctx, id, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, customer.ErrNotFound)
		_, err = repo.Update(ctx, id, customer.Patch{Name: shared.Some("X")})
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})
}
