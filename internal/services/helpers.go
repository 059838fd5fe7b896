package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

// Clock returns the current time. Services take one so tests can pin timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return systemClock
	}
	return now
}

// requireRole fails with ErrForbidden unless the caller holds one of roles.
func requireRole(caller identity.Caller, roles ...models.Role) error {
	if !caller.HasRole(roles...) {
		return apperrors.ErrForbidden
	}
	return nil
}

// requireParkAccess fails with ErrParkScope when a park-scoped caller acts on
// a park they are not assigned to.
func requireParkAccess(caller identity.Caller, parkID string) error {
	if !caller.CanActOnPark(parkID) {
		return apperrors.ErrParkScope
	}
	return nil
}

// invalidInput converts a ledger validation error into a BadRequest AppError.
func invalidInput(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// lookupError maps gorm.ErrRecordNotFound to notFound and wraps anything else.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// findBudget loads a budget without locking it.
func findBudget(db *gorm.DB, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := db.Where("id = ?", budgetID).Take(&budget).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// lockBudget loads a budget holding a row lock until tx ends. Every mutation
// of a DRAFT budget's categories or income streams goes through it, which
// serializes writers per budget.
func lockBudget(tx *gorm.DB, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", budgetID).
		Take(&budget).Error
	if err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// categoryTotals aggregates the live categories of a budget.
type categoryTotals struct {
	Allocated decimal.Decimal
	Used      decimal.Decimal
	Balance   decimal.Decimal
	Count     int64
}

func sumCategories(db *gorm.DB, budgetID string) (*categoryTotals, error) {
	var totals categoryTotals
	err := db.Model(&models.BudgetCategory{}).
		Select("COALESCE(SUM(allocated_amount), 0) AS allocated, COALESCE(SUM(used_amount), 0) AS used, COALESCE(SUM(balance), 0) AS balance, COUNT(*) AS count").
		Where("budget_id = ?", budgetID).
		Scan(&totals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totals.Allocated = ledger.Round(totals.Allocated)
	totals.Used = ledger.Round(totals.Used)
	totals.Balance = ledger.Round(totals.Balance)
	return &totals, nil
}

// streamTotals aggregates the live income streams of a budget.
type streamTotals struct {
	Percentage   decimal.Decimal
	Contribution decimal.Decimal
	Count        int64
}

// sumStreams aggregates the budget's income streams, skipping excludeID when set.
func sumStreams(db *gorm.DB, budgetID, excludeID string) (*streamTotals, error) {
	query := db.Model(&models.IncomeStream{}).
		Select("COALESCE(SUM(percentage), 0) AS percentage, COALESCE(SUM(total_contribution), 0) AS contribution, COUNT(*) AS count").
		Where("budget_id = ?", budgetID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var totals streamTotals
	if err := query.Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totals.Percentage = ledger.Round(totals.Percentage)
	totals.Contribution = ledger.Round(totals.Contribution)
	return &totals, nil
}
