package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

// incomeStreamService tracks the declared funding sources of DRAFT budgets.
type incomeStreamService struct {
	db  *gorm.DB
	now Clock
}

// NewIncomeStreamService creates a new IncomeStreamServicer.
func NewIncomeStreamService(db *gorm.DB, now Clock) IncomeStreamServicer {
	return &incomeStreamService{db: db, now: clockOrDefault(now)}
}

// CreateIncomeStream declares a funding source for a DRAFT budget.
func (s *incomeStreamService) CreateIncomeStream(
	caller identity.Caller,
	budgetID, name string,
	percentage, totalContribution decimal.Decimal,
) (*models.IncomeStream, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income stream name is required")
	}
	if err := ledger.ValidateStreamPercentage(percentage); err != nil {
		return nil, invalidInput(err)
	}
	if err := ledger.ValidateNonNegative(totalContribution); err != nil {
		return nil, invalidInput(err)
	}

	var stream *models.IncomeStream
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := s.lockDraftBudget(tx, caller, budgetID)
		if err != nil {
			return err
		}

		contribution := ledger.Round(totalContribution)
		if err := checkStreamCapacity(tx, budget, "", percentage, contribution); err != nil {
			return err
		}

		stream = &models.IncomeStream{
			BudgetID:          budget.ID,
			Name:              name,
			Percentage:        percentage,
			TotalContribution: contribution,
			ActualBalance:     decimal.Zero,
			CreatedBy:         caller.UserID,
		}
		stream.Stamp(s.now())
		if err := tx.Create(stream).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stream, nil
}

// GetIncomeStreamByID returns an income stream by ID.
func (s *incomeStreamService) GetIncomeStreamByID(streamID string) (*models.IncomeStream, error) {
	return findIncomeStream(s.db, streamID)
}

// GetIncomeStreamsByBudget returns a budget's income streams in creation order.
func (s *incomeStreamService) GetIncomeStreamsByBudget(budgetID string) ([]models.IncomeStream, error) {
	if _, err := findBudget(s.db, budgetID); err != nil {
		return nil, err
	}

	var streams []models.IncomeStream
	if err := s.db.Where("budget_id = ?", budgetID).Order("created_at ASC, id ASC").Find(&streams).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return streams, nil
}

// UpdateIncomeStream adjusts a stream in place. Capacity checks exclude the
// stream's own prior values.
func (s *incomeStreamService) UpdateIncomeStream(
	caller identity.Caller,
	streamID string,
	input UpdateIncomeStreamInput,
) (*models.IncomeStream, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income stream name cannot be empty")
	}
	if input.Percentage != nil {
		if err := ledger.ValidateStreamPercentage(*input.Percentage); err != nil {
			return nil, invalidInput(err)
		}
	}
	for _, amount := range []*decimal.Decimal{input.TotalContribution, input.ActualBalance} {
		if amount == nil {
			continue
		}
		if err := ledger.ValidateNonNegative(*amount); err != nil {
			return nil, invalidInput(err)
		}
	}

	var updated models.IncomeStream
	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := findIncomeStream(tx, streamID)
		if err != nil {
			return err
		}
		budget, err := s.lockDraftBudget(tx, caller, current.BudgetID)
		if err != nil {
			return err
		}
		if current, err = findIncomeStream(tx, streamID); err != nil {
			return err
		}

		percentage := current.Percentage
		if input.Percentage != nil {
			percentage = *input.Percentage
		}
		contribution := current.TotalContribution
		if input.TotalContribution != nil {
			contribution = ledger.Round(*input.TotalContribution)
		}
		actual := current.ActualBalance
		if input.ActualBalance != nil {
			actual = ledger.Round(*input.ActualBalance)
		}
		if actual.GreaterThan(contribution) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "actual balance cannot exceed the total contribution")
		}
		if err := checkStreamCapacity(tx, budget, current.ID, percentage, contribution); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"percentage":         percentage,
			"total_contribution": contribution,
			"actual_balance":     actual,
			"updated_at":         s.now(),
		}
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if err := tx.Model(current).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", current.ID).Take(&updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteIncomeStream removes a stream from a DRAFT budget. Only finance
// officers may delete streams.
func (s *incomeStreamService) DeleteIncomeStream(caller identity.Caller, streamID string) error {
	if err := requireRole(caller, models.RoleFinanceOfficer); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		stream, err := findIncomeStream(tx, streamID)
		if err != nil {
			return err
		}
		if _, err := s.lockDraftBudget(tx, caller, stream.BudgetID); err != nil {
			return err
		}
		if err := tx.Delete(stream).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func (s *incomeStreamService) lockDraftBudget(tx *gorm.DB, caller identity.Caller, budgetID string) (*models.Budget, error) {
	budget, err := lockBudget(tx, budgetID)
	if err != nil {
		return nil, err
	}
	if err := requireParkAccess(caller, budget.ParkID); err != nil {
		return nil, err
	}
	if !budget.IsDraft() {
		return nil, apperrors.ErrBudgetNotDraft
	}
	return budget, nil
}

// checkStreamCapacity verifies that the other streams of budget plus the
// given values stay within 100 percent and the budget total.
func checkStreamCapacity(tx *gorm.DB, budget *models.Budget, excludeID string, percentage, contribution decimal.Decimal) error {
	others, err := sumStreams(tx, budget.ID, excludeID)
	if err != nil {
		return err
	}
	if !ledger.WithinPercentageCap(others.Percentage, percentage) {
		return apperrors.ErrPercentageExceeded
	}
	if others.Contribution.Add(contribution).GreaterThan(budget.TotalAmount) {
		return apperrors.ErrContributionExceeded
	}
	return nil
}

func findIncomeStream(db *gorm.DB, streamID string) (*models.IncomeStream, error) {
	var stream models.IncomeStream
	if err := db.Where("id = ?", streamID).Take(&stream).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrIncomeStreamNotFound)
	}
	return &stream, nil
}
