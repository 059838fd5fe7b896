package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingRequest asks for money beyond an approved budget. Approval records
// the granted amount only; allocating it happens outside the engine.
type FundingRequest struct {
	Base
	ParkID          string              `gorm:"type:uuid;not null;index" json:"park_id"`
	BudgetID        string              `gorm:"type:uuid;not null;index" json:"budget_id"`
	RequestedAmount decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"requested_amount"`
	ApprovedAmount  decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"approved_amount"`
	RequestType     FundingRequestType  `gorm:"not null" json:"request_type"`
	Reason          string              `gorm:"not null" json:"reason"`
	Status          RequestStatus       `gorm:"not null;default:'PENDING'" json:"status"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	RequestedBy     string              `gorm:"type:uuid;not null" json:"requested_by"`
	ReviewedBy      *string             `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time          `json:"reviewed_at,omitempty"`
}
