// Package customer implements the customer use cases on top of the repository port.
package customer

import (
	"context"
	"fmt"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/shared"
)

// CustomerService orchestrates the customer use cases. Every method validates
// its input through the value objects, performs its business check, and calls
// the repository exactly as needed; it has no other side effects.
type CustomerService struct {
	customerRepo customer.Repository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.Repository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create registers a new customer unless one with the same email and phone number exists
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	email, err := customer.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}
	phone, err := customer.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	credit, err := customer.NewAvailableCredit(req.InitialAvailableCredit)
	if err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.FindByEmailAndPhoneNumber(ctx, email, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, customer.NewAlreadyExistsError(email, phone)
	}

	c, err := customer.NewCustomerWithCredit(req.Name, email, phone, credit)
	if err != nil {
		return nil, err
	}

	saved, err := s.customerRepo.Save(ctx, c)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(saved)
	return &response, nil
}

// FindByID returns the customer or nil when none exists. Absence is not an error.
func (s *CustomerService) FindByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customerID, err := customer.NewCustomerID(id)
	if err != nil {
		return nil, err
	}

	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// FindAll lists one page of customers. Empty fields fall back to createdAt/asc/1/10.
func (s *CustomerService) FindAll(ctx context.Context, req FindAllCustomersRequest) (*FindAllCustomersResponse, error) {
	query, err := toListQuery(req)
	if err != nil {
		return nil, err
	}

	result, err := s.customerRepo.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}

	return &FindAllCustomersResponse{
		Customers: ToCustomerResponses(result.Customers),
		Total:     result.Total,
	}, nil
}

// Update applies a partial update. Only the supplied fields are validated and
// forwarded; the repository performs the merge.
func (s *CustomerService) Update(ctx context.Context, id int64, req UpdateCustomerRequest) error {
	customerID, err := customer.NewCustomerID(id)
	if err != nil {
		return err
	}

	found, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if found == nil {
		return customer.NewNotFoundError(customerID)
	}

	patch, err := toPatch(req)
	if err != nil {
		return err
	}

	_, err = s.customerRepo.Update(ctx, customerID, patch)
	return err
}

// Delete soft-deletes a customer. The repository is not called when the customer is absent.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	customerID, err := customer.NewCustomerID(id)
	if err != nil {
		return err
	}

	found, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if found == nil {
		return customer.NewNotFoundError(customerID)
	}

	return s.customerRepo.Delete(ctx, customerID)
}

// AddAvailableCredit delegates a signed balance adjustment to the repository.
// The amount may be negative (a debit); the repository keeps the balance non-negative.
func (s *CustomerService) AddAvailableCredit(ctx context.Context, req AddAvailableCreditRequest) error {
	customerID, err := customer.NewCustomerID(req.ID)
	if err != nil {
		return err
	}

	found, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if found == nil {
		return customer.NewNotFoundError(customerID)
	}

	_, err = s.customerRepo.AddAvailableCredit(ctx, customerID, req.Amount)
	return err
}

func toListQuery(req FindAllCustomersRequest) (customer.ListQuery, error) {
	query := customer.ListQuery{
		SortBy:    DefaultSortBy,
		SortOrder: DefaultSortOrder,
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
	}

	if req.SortBy != "" {
		query.SortBy = customer.SortField(req.SortBy)
		if !query.SortBy.IsValid() {
			return query, shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("sortBy must be one of availableCredit, name, createdAt: %s", req.SortBy))
		}
	}
	if req.SortOrder != "" {
		query.SortOrder = customer.SortOrder(req.SortOrder)
		if !query.SortOrder.IsValid() {
			return query, shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("sortOrder must be asc or desc: %s", req.SortOrder))
		}
	}
	if req.Page >= 1 {
		query.Page = req.Page
	}
	if req.PageSize >= 1 {
		query.PageSize = req.PageSize
	}

	return query, nil
}

func toPatch(req UpdateCustomerRequest) (customer.Patch, error) {
	var patch customer.Patch

	if req.Name != nil {
		if err := customer.ValidateName(*req.Name); err != nil {
			return patch, err
		}
		patch.Name = shared.Some(*req.Name)
	}
	if req.Email != nil {
		email, err := customer.NewEmail(*req.Email)
		if err != nil {
			return patch, err
		}
		patch.Email = shared.Some(email)
	}
	if req.PhoneNumber != nil {
		phone, err := customer.NewPhoneNumber(*req.PhoneNumber)
		if err != nil {
			return patch, err
		}
		patch.PhoneNumber = shared.Some(phone)
	}
	if req.AvailableCredit != nil {
		credit, err := customer.NewAvailableCredit(*req.AvailableCredit)
		if err != nil {
			return patch, err
		}
		patch.AvailableCredit = shared.Some(credit)
	}

	return patch, nil
}
