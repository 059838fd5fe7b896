package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

// budgetService handles the budget lifecycle.
type budgetService struct {
	db  *gorm.DB
	now Clock
}

// NewBudgetService creates a new BudgetServicer. A nil clock uses the system time.
func NewBudgetService(db *gorm.DB, now Clock) BudgetServicer {
	return &budgetService{db: db, now: clockOrDefault(now)}
}

// CreateBudget proposes a DRAFT budget for a park's fiscal year.
func (s *budgetService) CreateBudget(
	caller identity.Caller,
	parkID string,
	fiscalYear int,
	totalAmount decimal.Decimal,
	description string,
) (*models.Budget, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := requireParkAccess(caller, parkID); err != nil {
		return nil, err
	}
	if err := ledger.ValidateFiscalYear(fiscalYear); err != nil {
		return nil, invalidInput(err)
	}
	if err := ledger.ValidatePositive(totalAmount); err != nil {
		return nil, invalidInput(err)
	}

	var park models.Park
	if err := s.db.Where("id = ?", parkID).Take(&park).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrParkNotFound)
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("park_id = ? AND fiscal_year = ?", parkID, fiscalYear).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	amount := ledger.Round(totalAmount)
	budget := &models.Budget{
		ParkID:      parkID,
		FiscalYear:  fiscalYear,
		TotalAmount: amount,
		Balance:     amount,
		Status:      models.BudgetStatusDraft,
		Description: description,
		CreatedBy:   caller.UserID,
	}
	budget.Stamp(s.now())

	if err := s.db.Create(budget).Error; err != nil {
		// Lost a race with a concurrent create for the same park-year.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateBudget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgetByID returns a budget with its categories and income streams.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Categories").Preload("IncomeStreams").
		Where("id = ?", budgetID).
		Take(&budget).Error
	if err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// GetBudgetByParkAndYear returns the park's budget for a fiscal year.
func (s *budgetService) GetBudgetByParkAndYear(parkID string, fiscalYear int) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Categories").Preload("IncomeStreams").
		Where("park_id = ? AND fiscal_year = ?", parkID, fiscalYear).
		Take(&budget).Error
	if err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// ListParkBudgets returns a park's budgets, newest fiscal year first.
func (s *budgetService) ListParkBudgets(
	parkID string,
	page pagination.PageRequest,
	status *models.BudgetStatus,
) (*pagination.PageResponse[models.Budget], error) {
	base := s.db.Model(&models.Budget{}).Where("park_id = ?", parkID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	result, err := pagination.Fetch[models.Budget](base, page, "fiscal_year DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// UpdateBudget edits a DRAFT budget. A new total must still cover everything
// already allocated; the balance becomes the new total minus allocations.
func (s *budgetService) UpdateBudget(caller identity.Caller, budgetID string, input UpdateBudgetInput) (*models.Budget, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if input.Status != nil && *input.Status != models.BudgetStatusDraft {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status can only be set to DRAFT; use approve or reject")
	}
	if input.TotalAmount != nil {
		if err := ledger.ValidatePositive(*input.TotalAmount); err != nil {
			return nil, invalidInput(err)
		}
	}

	var updated models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := lockBudget(tx, budgetID)
		if err != nil {
			return err
		}
		if err := requireParkAccess(caller, budget.ParkID); err != nil {
			return err
		}
		if !budget.IsDraft() {
			return apperrors.ErrBudgetNotDraft
		}

		updates := map[string]interface{}{"updated_at": s.now()}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.TotalAmount != nil {
			totals, err := sumCategories(tx, budget.ID)
			if err != nil {
				return err
			}
			total := ledger.Round(*input.TotalAmount)
			if total.LessThan(totals.Allocated) {
				return apperrors.ErrBudgetBelowAlloc
			}
			updates["total_amount"] = total
			updates["balance"] = total.Sub(totals.Allocated)
		}

		if err := tx.Model(budget).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", budget.ID).Take(&updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ApproveBudget moves a DRAFT budget to APPROVED.
func (s *budgetService) ApproveBudget(caller identity.Caller, budgetID string) (*models.Budget, error) {
	return s.decide(caller, budgetID, models.BudgetStatusApproved, "", "only DRAFT budgets can be approved")
}

// RejectBudget moves a DRAFT budget to REJECTED. The reason is optional.
func (s *budgetService) RejectBudget(caller identity.Caller, budgetID, reason string) (*models.Budget, error) {
	return s.decide(caller, budgetID, models.BudgetStatusRejected, reason, "only DRAFT budgets can be rejected")
}

// decide applies a terminal status with a compare-and-set on DRAFT so two
// concurrent decisions cannot both win.
func (s *budgetService) decide(
	caller identity.Caller,
	budgetID string,
	status models.BudgetStatus,
	reason, notDraftMsg string,
) (*models.Budget, error) {
	if err := requireRole(caller, models.RoleGovernmentOfficer); err != nil {
		return nil, err
	}

	budget, err := findBudget(s.db, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.IsDraft() {
		return nil, apperrors.WithMessage(apperrors.ErrBudgetNotDraft, notDraftMsg)
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":      status,
		"approved_by": caller.UserID,
		"approved_at": now,
		"updated_at":  now,
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	result := s.db.Model(&models.Budget{}).
		Where("id = ? AND status = ?", budget.ID, models.BudgetStatusDraft).
		Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrBudgetNotDraft, notDraftMsg)
	}

	return findBudget(s.db, budget.ID)
}

// DeleteBudget removes a DRAFT budget together with its categories and
// income streams. Rows are hard-deleted so the park-year can be proposed again.
func (s *budgetService) DeleteBudget(caller identity.Caller, budgetID string) error {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := lockBudget(tx, budgetID)
		if err != nil {
			return err
		}
		if err := requireParkAccess(caller, budget.ParkID); err != nil {
			return err
		}
		if !budget.IsDraft() {
			return apperrors.ErrBudgetNotDraft
		}

		if err := tx.Unscoped().Where("budget_id = ?", budget.ID).Delete(&models.BudgetCategory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("budget_id = ?", budget.ID).Delete(&models.IncomeStream{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetBudgetSummary reports the allocation and funding totals of a budget.
func (s *budgetService) GetBudgetSummary(budgetID string) (*BudgetSummary, error) {
	budget, err := findBudget(s.db, budgetID)
	if err != nil {
		return nil, err
	}

	categories, err := sumCategories(s.db, budget.ID)
	if err != nil {
		return nil, err
	}
	streams, err := sumStreams(s.db, budget.ID, "")
	if err != nil {
		return nil, err
	}

	return &BudgetSummary{
		BudgetID:           budget.ID,
		Status:             budget.Status,
		TotalAmount:        budget.TotalAmount,
		Balance:            budget.Balance,
		Allocated:          categories.Allocated,
		Unallocated:        budget.TotalAmount.Sub(categories.Allocated),
		Used:               categories.Used,
		CategoryBalance:    categories.Balance,
		IncomePercentage:   streams.Percentage,
		IncomeContribution: streams.Contribution,
		CategoryCount:      categories.Count,
		IncomeStreamCount:  streams.Count,
	}, nil
}
