package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.Repository using GORM.
// Soft-deleted rows are invisible to every read through the gorm.DeletedAt column.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a live customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id customer.CustomerID) (*customer.Customer, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id.Value()))
}

// FindByEmailAndPhoneNumber finds a live customer by its contact pair
func (r *GormCustomerRepository) FindByEmailAndPhoneNumber(ctx context.Context, email customer.Email, phoneNumber customer.PhoneNumber) (*customer.Customer, error) {
	return r.findOne(r.db.WithContext(ctx).
		Where("email = ? AND phone_number = ?", email.Value(), phoneNumber.Value()))
}

func (r *GormCustomerRepository) findOne(query *gorm.DB) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return model.ToDomain()
}

// FindAll returns one sorted page of live customers and their total count
func (r *GormCustomerRepository) FindAll(ctx context.Context, query customer.ListQuery) (*customer.ListResult, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	column := ValidateSortField(string(query.SortBy), CustomerSortFields, "created_at")
	direction := ValidateSortOrder(string(query.SortOrder))

	var customerModels []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Order(column + " " + direction).
		Order("id " + direction).
		Offset(query.Offset()).
		Limit(query.PageSize).
		Find(&customerModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]*customer.Customer, 0, len(customerModels))
	for i := range customerModels {
		c, err := customerModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return &customer.ListResult{Customers: customers, Total: total}, nil
}

// Save inserts a transient customer or updates a persisted one
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	model := models.CustomerModelFromDomain(c)

	db := r.db.WithContext(ctx)
	var err error
	if c.IsPersisted() {
		err = db.Model(model).
			Select("name", "email", "phone_number", "available_credit", "updated_at", "deleted_at").
			Updates(model).Error
	} else {
		err = db.Create(model).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	return model.ToDomain()
}

// Delete soft-deletes a customer by setting deleted_at
func (r *GormCustomerRepository) Delete(ctx context.Context, id customer.CustomerID) error {
	if err := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, id.Value()).Error; err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id.Value(), err)
	}
	return nil
}

// Update merges the present patch fields into the stored customer
func (r *GormCustomerRepository) Update(ctx context.Context, id customer.CustomerID, patch customer.Patch) (*customer.Customer, error) {
	var updated *customer.Customer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.CustomerModel
		if err := tx.Where("id = ?", id.Value()).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customer.NewNotFoundError(id)
			}
			return fmt.Errorf("failed to load customer %d: %w", id.Value(), err)
		}

		c, err := model.ToDomain()
		if err != nil {
			return err
		}
		if err := patch.ApplyTo(c); err != nil {
			return err
		}

		model.FromDomain(c)
		if err := tx.Model(&model).
			Select("name", "email", "phone_number", "available_credit", "updated_at").
			Updates(&model).Error; err != nil {
			return fmt.Errorf("failed to update customer %d: %w", id.Value(), err)
		}

		updated, err = model.ToDomain()
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddAvailableCredit adjusts the balance by a signed amount in a single
// conditional UPDATE, so concurrent adjustments cannot drive it below zero.
func (r *GormCustomerRepository) AddAvailableCredit(ctx context.Context, id customer.CustomerID, amount decimal.Decimal) (*customer.Customer, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", id.Value()).
		Where("available_credit + ? >= 0", amount).
		Updates(map[string]any{
			"available_credit": gorm.Expr("available_credit + ?", amount),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to add available credit to customer %d: %w", id.Value(), result.Error)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, customer.NewNotFoundError(id)
	}
	if result.RowsAffected == 0 {
		return nil, customer.NewAvailableCreditNegativeError(current.AvailableCredit().Value().Add(amount))
	}
	return current, nil
}

// Ensure GormCustomerRepository implements customer.Repository
var _ customer.Repository = (*GormCustomerRepository)(nil)
