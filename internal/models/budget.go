package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a park's monetary envelope for one fiscal year.
// Balance is the part of TotalAmount not yet allocated to any category.
type Budget struct {
	Base
	ParkID          string          `gorm:"type:uuid;not null;uniqueIndex:uq_budgets_park_year" json:"park_id"`
	FiscalYear      int             `gorm:"not null;uniqueIndex:uq_budgets_park_year" json:"fiscal_year"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_amount"`
	Balance         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance"`
	Status          BudgetStatus    `gorm:"not null;default:'DRAFT'" json:"status"`
	Description     string          `json:"description"`
	CreatedBy       string          `gorm:"type:uuid;not null" json:"created_by"`
	ApprovedBy      *string         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`

	// Relationships
	Categories    []BudgetCategory `gorm:"foreignKey:BudgetID" json:"categories,omitempty"`
	IncomeStreams []IncomeStream   `gorm:"foreignKey:BudgetID" json:"income_streams,omitempty"`
}

// IsDraft reports whether the budget can still be restructured.
func (b *Budget) IsDraft() bool {
	return b.Status == BudgetStatusDraft
}

// BudgetCategory is a named sub-pool of a Budget.
// Balance always equals AllocatedAmount - UsedAmount and never goes below zero.
// Percentage is the share of the budget balance requested at creation; moving
// the allocation later leaves it unchanged.
type BudgetCategory struct {
	Base
	BudgetID        string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name            string          `gorm:"not null" json:"name"`
	Percentage      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"allocated_amount"`
	UsedAmount      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"used_amount"`
	Balance         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance"`
	CreatedBy       string          `gorm:"type:uuid;not null" json:"created_by"`
}

// IncomeStream is a declared funding source of a Budget.
type IncomeStream struct {
	Base
	BudgetID          string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name              string          `gorm:"not null" json:"name"`
	Percentage        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	TotalContribution decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_contribution"`
	ActualBalance     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"actual_balance"`
	CreatedBy         string          `gorm:"type:uuid;not null" json:"created_by"`
}
