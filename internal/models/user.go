package models

import "time"

// User is a staff member or visitor known to the engine.
// ParkID is set for park-scoped roles (finance officers, park managers).
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        Role       `gorm:"not null" json:"role"`
	ParkID      *string    `gorm:"type:uuid;index" json:"park_id,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Park is a public park whose finances are managed by the engine.
type Park struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Currency    string `gorm:"size:3;not null;default:'USD'" json:"currency"`
}
