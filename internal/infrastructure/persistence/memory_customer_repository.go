package persistence

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
)

var errDuplicateContact = errors.New(`duplicate key value violates unique constraint "idx_unique_email_phone_number"`)

// RepositoryCall is one recorded invocation of a repository method
type RepositoryCall struct {
	Method string
	Args   []any
}

// CallRecorder collects repository invocations. It is safe for concurrent use.
type CallRecorder struct {
	mu    sync.Mutex
	calls []RepositoryCall
}

// NewCallRecorder creates an empty CallRecorder
func NewCallRecorder() *CallRecorder {
	return &CallRecorder{}
}

// Record appends a call
func (r *CallRecorder) Record(method string, args ...any) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, RepositoryCall{Method: method, Args: args})
}

// Calls returns a copy of every recorded call in order
func (r *CallRecorder) Calls() []RepositoryCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Count returns how many times method was called
func (r *CallRecorder) Count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls
func (r *CallRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// MemoryCustomerRepository is an in-process customer.Repository.
// Rows are kept as persistence models so stored state never aliases a
// customer handed out to callers. Ids are assigned sequentially from 1.
type MemoryCustomerRepository struct {
	mu       sync.RWMutex
	rows     map[int64]models.CustomerModel
	nextID   int64
	recorder *CallRecorder
}

// NewMemoryCustomerRepository creates an empty repository. recorder may be nil.
func NewMemoryCustomerRepository(recorder *CallRecorder) *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		rows:     make(map[int64]models.CustomerModel),
		nextID:   1,
		recorder: recorder,
	}
}

func (r *MemoryCustomerRepository) liveRow(id int64) (models.CustomerModel, bool) {
	row, ok := r.rows[id]
	if !ok || row.DeletedAt.Valid {
		return models.CustomerModel{}, false
	}
	return row, true
}

// FindByID returns the live customer with id, or nil when absent
func (r *MemoryCustomerRepository) FindByID(ctx context.Context, id customer.CustomerID) (*customer.Customer, error) {
	r.recorder.Record("FindByID", id)
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.liveRow(id.Value())
	if !ok {
		return nil, nil
	}
	return row.ToDomain()
}

// FindByEmailAndPhoneNumber returns the live customer with the contact pair, or nil
func (r *MemoryCustomerRepository) FindByEmailAndPhoneNumber(ctx context.Context, email customer.Email, phoneNumber customer.PhoneNumber) (*customer.Customer, error) {
	r.recorder.Record("FindByEmailAndPhoneNumber", email, phoneNumber)
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.DeletedAt.Valid {
			continue
		}
		if row.Email == email.Value() && row.PhoneNumber == phoneNumber.Value() {
			return row.ToDomain()
		}
	}
	return nil, nil
}

// FindAll sorts and paginates live customers
func (r *MemoryCustomerRepository) FindAll(ctx context.Context, query customer.ListQuery) (*customer.ListResult, error) {
	r.recorder.Record("FindAll", query)
	r.mu.RLock()
	live := make([]models.CustomerModel, 0, len(r.rows))
	for _, row := range r.rows {
		if !row.DeletedAt.Valid {
			live = append(live, row)
		}
	}
	r.mu.RUnlock()

	desc := ValidateSortOrder(string(query.SortOrder)) == "DESC"
	column := ValidateSortField(string(query.SortBy), CustomerSortFields, "created_at")
	slices.SortStableFunc(live, func(a, b models.CustomerModel) int {
		c := compareColumn(column, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})

	total := int64(len(live))
	start := min(query.Offset(), len(live))
	end := len(live)
	if query.PageSize > 0 {
		end = min(start+query.PageSize, len(live))
	}

	customers := make([]*customer.Customer, 0, end-start)
	for i := start; i < end; i++ {
		c, err := live[i].ToDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return &customer.ListResult{Customers: customers, Total: total}, nil
}

func compareColumn(column string, a, b models.CustomerModel) int {
	switch column {
	case "available_credit":
		return a.AvailableCredit.Cmp(b.AvailableCredit)
	case "name":
		return cmp.Compare(a.Name, b.Name)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// Save inserts a transient customer or replaces a persisted one.
// The (email, phone_number) pair is unique across all rows, deleted or not.
func (r *MemoryCustomerRepository) Save(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	r.recorder.Record("Save", c)
	r.mu.Lock()
	defer r.mu.Unlock()

	row := *models.CustomerModelFromDomain(c)
	if err := r.checkContactUnique(row); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	if row.ID == 0 {
		row.ID = r.nextID
		r.nextID++
	} else if _, ok := r.rows[row.ID]; !ok {
		return nil, fmt.Errorf("failed to save customer: row %d does not exist", row.ID)
	}
	r.rows[row.ID] = row

	return row.ToDomain()
}

// Delete soft-deletes the customer with id. Deleting an absent id is a no-op.
func (r *MemoryCustomerRepository) Delete(ctx context.Context, id customer.CustomerID) error {
	r.recorder.Record("Delete", id)
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.liveRow(id.Value())
	if !ok {
		return nil
	}
	now := time.Now()
	row.SetDeletedAt(&now)
	r.rows[row.ID] = row
	return nil
}

// Update merges the present patch fields into the stored customer
func (r *MemoryCustomerRepository) Update(ctx context.Context, id customer.CustomerID, patch customer.Patch) (*customer.Customer, error) {
	r.recorder.Record("Update", id, patch)
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.liveRow(id.Value())
	if !ok {
		return nil, customer.NewNotFoundError(id)
	}
	c, err := row.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := patch.ApplyTo(c); err != nil {
		return nil, err
	}

	row.FromDomain(c)
	if err := r.checkContactUnique(row); err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", row.ID, err)
	}
	r.rows[row.ID] = row
	return row.ToDomain()
}

// AddAvailableCredit adjusts the stored balance by a signed amount
func (r *MemoryCustomerRepository) AddAvailableCredit(ctx context.Context, id customer.CustomerID, amount decimal.Decimal) (*customer.Customer, error) {
	r.recorder.Record("AddAvailableCredit", id, amount)
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.liveRow(id.Value())
	if !ok {
		return nil, customer.NewNotFoundError(id)
	}
	c, err := row.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := c.AdjustAvailableCredit(amount); err != nil {
		return nil, err
	}

	row.FromDomain(c)
	r.rows[row.ID] = row
	return row.ToDomain()
}

// checkContactUnique mirrors idx_unique_email_phone_number: no other row,
// deleted or not, may hold the same (email, phone_number) pair.
func (r *MemoryCustomerRepository) checkContactUnique(row models.CustomerModel) error {
	for id, existing := range r.rows {
		if id != row.ID && existing.Email == row.Email && existing.PhoneNumber == row.PhoneNumber {
			return errDuplicateContact
		}
	}
	return nil
}

// Ensure MemoryCustomerRepository implements customer.Repository
var _ customer.Repository = (*MemoryCustomerRepository)(nil)
