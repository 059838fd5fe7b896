package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

// spendRecord is implemented by *models.Expense and *models.WithdrawRequest.
type spendRecord[T any] interface {
	*T
	Spend() *models.SpendRequest
	RecordID() string
	TableName() string
	Stamp(now time.Time)
}

// spendLedger holds the workflow shared by every record that debits a
// budget category: PENDING -> APPROVED | REJECTED, with approval being the
// only path that moves category money.
type spendLedger[T any, P spendRecord[T]] struct {
	db       *gorm.DB
	now      Clock
	notFound *apperrors.AppError
}

func newSpendLedger[T any, P spendRecord[T]](db *gorm.DB, now Clock, notFound *apperrors.AppError) *spendLedger[T, P] {
	return &spendLedger[T, P]{db: db, now: clockOrDefault(now), notFound: notFound}
}

// model returns an empty record usable with tx.Model.
func (l *spendLedger[T, P]) model() P {
	return P(new(T))
}

// prepare validates a new spend request against its budget and category and
// returns the shared columns. The balance check here is a pre-check only;
// nothing is debited until approval.
func (l *spendLedger[T, P]) prepare(
	caller identity.Caller,
	budgetID, categoryID string,
	amount decimal.Decimal,
	receiptRef string,
	roles ...models.Role,
) (models.SpendRequest, error) {
	if err := requireRole(caller, roles...); err != nil {
		return models.SpendRequest{}, err
	}
	if err := ledger.ValidatePositive(amount); err != nil {
		return models.SpendRequest{}, invalidInput(err)
	}

	budget, err := findBudget(l.db, budgetID)
	if err != nil {
		return models.SpendRequest{}, err
	}
	if err := requireParkAccess(caller, budget.ParkID); err != nil {
		return models.SpendRequest{}, err
	}
	if budget.Status != models.BudgetStatusApproved {
		return models.SpendRequest{}, apperrors.ErrBudgetNotApproved
	}

	category, err := findCategory(l.db, categoryID)
	if err != nil {
		return models.SpendRequest{}, err
	}
	if category.BudgetID != budget.ID {
		return models.SpendRequest{}, apperrors.ErrCategoryBudgetMismatch
	}

	amount = ledger.Round(amount)
	if amount.GreaterThan(category.Balance) {
		return models.SpendRequest{}, apperrors.ErrInsufficientBalance
	}

	return models.SpendRequest{
		BudgetID:    budget.ID,
		CategoryID:  category.ID,
		ParkID:      budget.ParkID,
		FiscalYear:  budget.FiscalYear,
		Amount:      amount,
		Status:      models.RequestStatusPending,
		AuditStatus: models.AuditStatusUnjustified,
		ReceiptRef:  strings.TrimSpace(receiptRef),
		RequestedBy: caller.UserID,
	}, nil
}

func (l *spendLedger[T, P]) create(record P) error {
	record.Stamp(l.now())
	if err := l.db.Create(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (l *spendLedger[T, P]) find(db *gorm.DB, id string) (P, error) {
	record := l.model()
	if err := db.Where("id = ?", id).Take(record).Error; err != nil {
		return nil, lookupError(err, l.notFound)
	}
	return record, nil
}

// list pages through records matching column = value, newest first.
func (l *spendLedger[T, P]) list(
	column, value string,
	page pagination.PageRequest,
	filter SpendFilter,
) (*pagination.PageResponse[T], error) {
	base := l.db.Model(l.model()).Where(column+" = ?", value)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.AuditStatus != nil {
		base = base.Where("audit_status = ?", *filter.AuditStatus)
	}

	result, err := pagination.Fetch[T](base, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// approve debits the record's category and marks it APPROVED in one
// transaction. The debit is a conditional decrement, so two approvals racing
// for the same balance cannot both succeed; the loser rolls back its status
// change and gets ErrInsufficientBalance.
func (l *spendLedger[T, P]) approve(caller identity.Caller, id string) (P, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		record, err := l.find(tx, id)
		if err != nil {
			return err
		}
		spend := record.Spend()

		budget, err := findBudget(tx, spend.BudgetID)
		if err != nil {
			return err
		}
		if err := requireParkAccess(caller, budget.ParkID); err != nil {
			return err
		}
		if budget.Status != models.BudgetStatusApproved {
			return apperrors.ErrBudgetNotApproved
		}
		if !spend.IsPending() {
			return apperrors.ErrRequestNotPending
		}

		now := l.now()
		result := tx.Model(l.model()).
			Where("id = ? AND status = ?", record.RecordID(), models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":      models.RequestStatusApproved,
				"approved_by": caller.UserID,
				"approved_at": now,
				"updated_at":  now,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrRequestNotPending
		}

		debit := tx.Model(&models.BudgetCategory{}).
			Where("id = ? AND balance >= ?", spend.CategoryID, spend.Amount).
			Updates(map[string]interface{}{
				"balance":     gorm.Expr("balance - ?", spend.Amount),
				"used_amount": gorm.Expr("used_amount + ?", spend.Amount),
				"updated_at":  now,
			})
		if debit.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, debit.Error)
		}
		if debit.RowsAffected == 0 {
			logger.Get().Warnw("spend approval rejected: insufficient category balance",
				"resource", record.TableName(),
				"id", record.RecordID(),
				"category_id", spend.CategoryID,
				"amount", spend.Amount.String(),
				"approver", caller.UserID,
			)
			return apperrors.ErrInsufficientBalance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l.find(l.db, id)
}

// reject marks a PENDING record REJECTED. No money moves.
func (l *spendLedger[T, P]) reject(caller identity.Caller, id, reason string) (P, error) {
	if err := requireRole(caller, models.RoleFinanceOfficer, models.RoleAdmin); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.ErrReasonRequired
	}

	record, err := l.find(l.db, id)
	if err != nil {
		return nil, err
	}
	if err := requireParkAccess(caller, record.Spend().ParkID); err != nil {
		return nil, err
	}
	if !record.Spend().IsPending() {
		return nil, apperrors.ErrRequestNotPending
	}

	now := l.now()
	result := l.db.Model(l.model()).
		Where("id = ? AND status = ?", record.RecordID(), models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":           models.RequestStatusRejected,
			"rejection_reason": reason,
			"approved_by":      caller.UserID,
			"approved_at":      now,
			"updated_at":       now,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrRequestNotPending
	}

	return l.find(l.db, id)
}

// setAuditStatus records an auditor's verdict on a record.
func (l *spendLedger[T, P]) setAuditStatus(caller identity.Caller, id string, status models.AuditStatus) (P, error) {
	if err := requireRole(caller, models.RoleAuditor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "audit status must be PASSED, FAILED or UNJUSTIFIED")
	}

	record, err := l.find(l.db, id)
	if err != nil {
		return nil, err
	}
	err = l.db.Model(l.model()).
		Where("id = ?", record.RecordID()).
		Updates(map[string]interface{}{"audit_status": status, "updated_at": l.now()}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return l.find(l.db, id)
}

// attachReceipt lets the requester reference a receipt while the record is PENDING.
func (l *spendLedger[T, P]) attachReceipt(caller identity.Caller, id, receiptRef string) (P, error) {
	receiptRef = strings.TrimSpace(receiptRef)
	if receiptRef == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt reference is required")
	}

	record, err := l.find(l.db, id)
	if err != nil {
		return nil, err
	}
	spend := record.Spend()
	if spend.RequestedBy != caller.UserID {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "only the requester can attach a receipt")
	}
	if !spend.IsPending() {
		return nil, apperrors.ErrRequestNotPending
	}

	err = l.db.Model(l.model()).
		Where("id = ?", record.RecordID()).
		Updates(map[string]interface{}{"receipt_ref": receiptRef, "updated_at": l.now()}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return l.find(l.db, id)
}
