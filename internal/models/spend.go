package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpendRequest holds the columns shared by expenses and withdraw requests.
// ParkID and FiscalYear are copied from the budget at creation so audits can
// select a park-year without joining.
type SpendRequest struct {
	BudgetID        string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	CategoryID      string          `gorm:"type:uuid;not null;index" json:"category_id"`
	ParkID          string          `gorm:"type:uuid;not null;index:,composite:park_year" json:"park_id"`
	FiscalYear      int             `gorm:"not null;index:,composite:park_year" json:"fiscal_year"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status          RequestStatus   `gorm:"not null;default:'PENDING'" json:"status"`
	AuditStatus     AuditStatus     `gorm:"not null;default:'UNJUSTIFIED'" json:"audit_status"`
	ReceiptRef      string          `json:"receipt_ref,omitempty"`
	RequestedBy     string          `gorm:"type:uuid;not null" json:"requested_by"`
	ApprovedBy      *string         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
}

// IsPending reports whether the request still awaits a decision.
func (s *SpendRequest) IsPending() bool {
	return s.Status == RequestStatusPending
}

// Expense is a debit against a budget category for a purchase or service.
type Expense struct {
	Base
	SpendRequest
	Description string `gorm:"not null" json:"description"`
}

// TableName pins the table used by the shared spend workflow.
func (Expense) TableName() string { return "expenses" }

// Spend exposes the shared spend columns.
func (e *Expense) Spend() *SpendRequest { return &e.SpendRequest }

// RecordID returns the primary key.
func (e *Expense) RecordID() string { return e.ID }

// WithdrawRequest is a request by park management to withdraw category funds.
type WithdrawRequest struct {
	Base
	SpendRequest
	Reason string `gorm:"not null" json:"reason"`
}

// TableName pins the table used by the shared spend workflow.
func (WithdrawRequest) TableName() string { return "withdraw_requests" }

// Spend exposes the shared spend columns.
func (w *WithdrawRequest) Spend() *SpendRequest { return &w.SpendRequest }

// RecordID returns the primary key.
func (w *WithdrawRequest) RecordID() string { return w.ID }
