package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

// budgetCategoryService allocates DRAFT budgets into categories. Every
// mutation locks the parent budget row, so the sum of allocations can never
// exceed the budget total even under concurrent writers.
type budgetCategoryService struct {
	db  *gorm.DB
	now Clock
}

// NewBudgetCategoryService creates a new BudgetCategoryServicer.
func NewBudgetCategoryService(db *gorm.DB, now Clock) BudgetCategoryServicer {
	return &budgetCategoryService{db: db, now: clockOrDefault(now)}
}

// CreateCategory allocates percentage of the budget's current balance to a new
// category. The base is the remaining balance, not the total, so the order in
// which categories are created changes their amounts.
func (s *budgetCategoryService) CreateCategory(
	caller identity.Caller,
	budgetID, name string,
	percentage decimal.Decimal,
) (*models.BudgetCategory, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if err := ledger.ValidatePercentage(percentage); err != nil {
		return nil, invalidInput(err)
	}

	var category *models.BudgetCategory
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
		if err := s.ensureUniqueName(tx, budget.ID, name, ""); err != nil {
			return err
		}

		totals, err := sumCategories(tx, budget.ID)
		if err != nil {
			return err
		}
		allocated := ledger.Share(budget.Balance, percentage)
		if !allocated.IsPositive() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "allocation rounds to zero")
		}
		if allocated.GreaterThan(budget.TotalAmount.Sub(totals.Allocated)) {
			return apperrors.ErrAllocationExceeded
		}

		now := s.now()
		category = &models.BudgetCategory{
			BudgetID:        budget.ID,
			Name:            name,
			Percentage:      percentage,
			AllocatedAmount: allocated,
			UsedAmount:      decimal.Zero,
			Balance:         allocated,
			CreatedBy:       caller.UserID,
		}
		category.Stamp(now)
		if err := tx.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return adjustBudgetBalance(tx, budget, allocated.Neg(), now)
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategoryByID returns a category by ID.
func (s *budgetCategoryService) GetCategoryByID(categoryID string) (*models.BudgetCategory, error) {
	return findCategory(s.db, categoryID)
}

// GetCategoriesByBudget returns a budget's categories in creation order.
func (s *budgetCategoryService) GetCategoriesByBudget(budgetID string) ([]models.BudgetCategory, error) {
	if _, err := findBudget(s.db, budgetID); err != nil {
		return nil, err
	}

	var categories []models.BudgetCategory
	if err := s.db.Where("budget_id = ?", budgetID).Order("created_at ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// UpdateCategory renames a category or moves its allocation. Increases draw
// from the budget's unallocated amount; decreases return to it. The creation
// percentage is kept as recorded.
func (s *budgetCategoryService) UpdateCategory(
	caller identity.Caller,
	categoryID string,
	name *string,
	allocatedAmount *decimal.Decimal,
) (*models.BudgetCategory, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
	}
	if allocatedAmount != nil {
		if err := ledger.ValidateNonNegative(*allocatedAmount); err != nil {
			return nil, invalidInput(err)
		}
	}

	var updated models.BudgetCategory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, budget, err := s.lockForCategory(tx, caller, categoryID)
		if err != nil {
			return err
		}

		now := s.now()
		updates := map[string]interface{}{"updated_at": now}
		if name != nil {
			trimmed := strings.TrimSpace(*name)
			if trimmed != category.Name {
				if err := s.ensureUniqueName(tx, budget.ID, trimmed, category.ID); err != nil {
					return err
				}
				updates["name"] = trimmed
			}
		}

		if allocatedAmount != nil {
			newAllocated := ledger.Round(*allocatedAmount)
			if newAllocated.LessThan(category.UsedAmount) {
				return apperrors.ErrAllocationBelowUsed
			}
			delta := newAllocated.Sub(category.AllocatedAmount)
			if delta.IsPositive() {
				totals, err := sumCategories(tx, budget.ID)
				if err != nil {
					return err
				}
				if delta.GreaterThan(budget.TotalAmount.Sub(totals.Allocated)) {
					return apperrors.ErrAllocationExceeded
				}
			}
			updates["allocated_amount"] = newAllocated
			updates["balance"] = newAllocated.Sub(category.UsedAmount)

			if !delta.IsZero() {
				if err := adjustBudgetBalance(tx, budget, delta.Neg(), now); err != nil {
					return err
				}
			}
		}

		if err := tx.Model(category).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", category.ID).Take(&updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteCategory soft-deletes a category and returns its allocation to the budget.
func (s *budgetCategoryService) DeleteCategory(caller identity.Caller, categoryID string) error {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		category, budget, err := s.lockForCategory(tx, caller, categoryID)
		if err != nil {
			return err
		}

		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return adjustBudgetBalance(tx, budget, category.AllocatedAmount, s.now())
	})
}

// lockForCategory locks the category's budget, checks the caller may edit it
// and re-reads the category under the lock.
func (s *budgetCategoryService) lockForCategory(
	tx *gorm.DB,
	caller identity.Caller,
	categoryID string,
) (*models.BudgetCategory, *models.Budget, error) {
	category, err := findCategory(tx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	budget, err := lockBudget(tx, category.BudgetID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireParkAccess(caller, budget.ParkID); err != nil {
		return nil, nil, err
	}
	if !budget.IsDraft() {
		return nil, nil, apperrors.ErrBudgetNotDraft
	}

	category, err = findCategory(tx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	return category, budget, nil
}

func (s *budgetCategoryService) ensureUniqueName(tx *gorm.DB, budgetID, name, excludeID string) error {
	query := tx.Model(&models.BudgetCategory{}).Where("budget_id = ? AND name = ?", budgetID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategoryName
	}
	return nil
}

func findCategory(db *gorm.DB, categoryID string) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := db.Where("id = ?", categoryID).Take(&category).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// adjustBudgetBalance adds delta to a budget locked by the caller's transaction.
func adjustBudgetBalance(tx *gorm.DB, budget *models.Budget, delta decimal.Decimal, now time.Time) error {
	balance := budget.Balance.Add(delta)
	err := tx.Model(&models.Budget{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": now,
		}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Balance = balance
	return nil
}
