package models

import (
	"time"

	"gorm.io/gorm"
)

// SoftDeleteModel provides the serial id, timestamps and soft-delete column
// shared by persisted aggregates. GORM excludes rows with deleted_at set from
// every query and turns Delete into an UPDATE of deleted_at.
type SoftDeleteModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// DeletedAtPtr returns the soft-delete time or nil.
func (m *SoftDeleteModel) DeletedAtPtr() *time.Time {
	if !m.DeletedAt.Valid {
		return nil
	}
	t := m.DeletedAt.Time
	return &t
}

// SetDeletedAt copies a nullable soft-delete time into the model.
func (m *SoftDeleteModel) SetDeletedAt(t *time.Time) {
	if t == nil {
		m.DeletedAt = gorm.DeletedAt{}
		return
	}
	m.DeletedAt = gorm.DeletedAt{Time: *t, Valid: true}
}
