package models

import (
	"time"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// Stamp sets both timestamps to now. Services call it with their injected
// clock so records never depend on the database's notion of time.
func (b *Base) Stamp(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}
