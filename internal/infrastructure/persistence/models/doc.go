// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// - base.go: SoftDeleteModel (serial id, timestamps, deleted_at)
// - customer.go: CustomerModel and its mappers to and from customer.Customer
package models
