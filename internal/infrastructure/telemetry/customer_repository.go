package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Repository call outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// InstrumentedCustomerRepository wraps every call of a customer.Repository
// in a span and records it on RepositoryMetrics. Results pass through untouched.
type InstrumentedCustomerRepository struct {
	inner   customer.Repository
	metrics *RepositoryMetrics
}

// NewInstrumentedCustomerRepository decorates inner. metrics may be nil.
func NewInstrumentedCustomerRepository(inner customer.Repository, metrics *RepositoryMetrics) *InstrumentedCustomerRepository {
	return &InstrumentedCustomerRepository{inner: inner, metrics: metrics}
}

// Outcome classifies a repository result for metrics
func Outcome(err error) string {
	var domainErr *shared.DomainError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, customer.ErrNotFound):
		return OutcomeNotFound
	case errors.As(err, &domainErr):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func (r *InstrumentedCustomerRepository) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	begin := time.Now()
	ctx, span := StartSpan(ctx, "customer_repository."+operation, attrs...)

	return ctx, func(err error) {
		outcome := Outcome(err)
		span.SetAttributes(AttrOutcome.String(outcome))
		if outcome == OutcomeError {
			RecordError(span, err)
		}
		span.End()
		if r.metrics != nil {
			r.metrics.Record(ctx, operation, outcome, time.Since(begin))
		}
	}
}

func customerIDAttr(id customer.CustomerID) attribute.KeyValue {
	return attribute.Int64("customer.id", id.Value())
}

// FindByID traces the inner call
func (r *InstrumentedCustomerRepository) FindByID(ctx context.Context, id customer.CustomerID) (c *customer.Customer, err error) {
	ctx, done := r.observe(ctx, "find_by_id", customerIDAttr(id))
	defer func() { done(err) }()
	return r.inner.FindByID(ctx, id)
}

// FindAll traces the inner call
func (r *InstrumentedCustomerRepository) FindAll(ctx context.Context, query customer.ListQuery) (result *customer.ListResult, err error) {
	ctx, done := r.observe(ctx, "find_all",
		attribute.String("customer.sort_by", string(query.SortBy)),
		attribute.Int("customer.page", query.Page),
	)
	defer func() { done(err) }()
	return r.inner.FindAll(ctx, query)
}

// FindByEmailAndPhoneNumber traces the inner call
func (r *InstrumentedCustomerRepository) FindByEmailAndPhoneNumber(ctx context.Context, email customer.Email, phoneNumber customer.PhoneNumber) (c *customer.Customer, err error) {
	ctx, done := r.observe(ctx, "find_by_email_and_phone_number")
	defer func() { done(err) }()
	return r.inner.FindByEmailAndPhoneNumber(ctx, email, phoneNumber)
}

// Save traces the inner call
func (r *InstrumentedCustomerRepository) Save(ctx context.Context, c *customer.Customer) (saved *customer.Customer, err error) {
	ctx, done := r.observe(ctx, "save", attribute.Bool("customer.persisted", c.IsPersisted()))
	defer func() { done(err) }()
	return r.inner.Save(ctx, c)
}

// Delete traces the inner call
func (r *InstrumentedCustomerRepository) Delete(ctx context.Context, id customer.CustomerID) (err error) {
	ctx, done := r.observe(ctx, "delete", customerIDAttr(id))
	defer func() { done(err) }()
	return r.inner.Delete(ctx, id)
}

// Update traces the inner call
func (r *InstrumentedCustomerRepository) Update(ctx context.Context, id customer.CustomerID, patch customer.Patch) (c *customer.Customer, err error) {
	ctx, done := r.observe(ctx, "update", customerIDAttr(id))
	defer func() { done(err) }()
	return r.inner.Update(ctx, id, patch)
}

// AddAvailableCredit traces the inner call
func (r *InstrumentedCustomerRepository) AddAvailableCredit(ctx context.Context, id customer.CustomerID, amount decimal.Decimal) (c *customer.Customer, err error) {
	ctx, done := r.observe(ctx, "add_available_credit", customerIDAttr(id), attribute.String("customer.amount", amount.String()))
	defer func() { done(err) }()
	return r.inner.AddAvailableCredit(ctx, id, amount)
}

var _ customer.Repository = (*InstrumentedCustomerRepository)(nil)
