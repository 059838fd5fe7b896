package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

// expenseService handles expenses drawn against budget categories.
type expenseService struct {
	ledger *spendLedger[models.Expense, *models.Expense]
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, now Clock) ExpenseServicer {
	return &expenseService{ledger: newSpendLedger[models.Expense](db, now, apperrors.ErrExpenseNotFound)}
}

// CreateExpense records a PENDING expense against an APPROVED budget's category.
func (s *expenseService) CreateExpense(
	caller identity.Caller,
	budgetID, categoryID string,
	amount decimal.Decimal,
	description, receiptRef string,
) (*models.Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	spend, err := s.ledger.prepare(caller, budgetID, categoryID, amount, receiptRef,
		models.RoleFinanceOfficer, models.RoleParkManager, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{SpendRequest: spend, Description: description}
	if err := s.ledger.create(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpenseByID returns an expense by ID.
func (s *expenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	return s.ledger.find(s.ledger.db, expenseID)
}

// ListBudgetExpenses returns a budget's expenses, newest first.
func (s *expenseService) ListBudgetExpenses(budgetID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.Expense], error) {
	return s.ledger.list("budget_id", budgetID, page, filter)
}

// ListCategoryExpenses returns a category's expenses, newest first.
func (s *expenseService) ListCategoryExpenses(categoryID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.Expense], error) {
	return s.ledger.list("category_id", categoryID, page, filter)
}

// ListParkExpenses returns a park's expenses across all budgets, newest first.
func (s *expenseService) ListParkExpenses(parkID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.Expense], error) {
	return s.ledger.list("park_id", parkID, page, filter)
}

// ApproveExpense approves a PENDING expense and debits its category.
func (s *expenseService) ApproveExpense(caller identity.Caller, expenseID string) (*models.Expense, error) {
	return s.ledger.approve(caller, expenseID)
}

// RejectExpense rejects a PENDING expense.
func (s *expenseService) RejectExpense(caller identity.Caller, expenseID, reason string) (*models.Expense, error) {
	return s.ledger.reject(caller, expenseID, reason)
}

// UpdateExpenseAuditStatus records whether an expense was justified.
func (s *expenseService) UpdateExpenseAuditStatus(caller identity.Caller, expenseID string, status models.AuditStatus) (*models.Expense, error) {
	return s.ledger.setAuditStatus(caller, expenseID, status)
}

// AttachExpenseReceipt sets the receipt reference of a PENDING expense.
func (s *expenseService) AttachExpenseReceipt(caller identity.Caller, expenseID, receiptRef string) (*models.Expense, error) {
	return s.ledger.attachReceipt(caller, expenseID, receiptRef)
}
