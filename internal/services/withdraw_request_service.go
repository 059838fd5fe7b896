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

// withdrawRequestService handles park management requests to withdraw category funds.
type withdrawRequestService struct {
	ledger *spendLedger[models.WithdrawRequest, *models.WithdrawRequest]
}

// NewWithdrawRequestService creates a new WithdrawRequestServicer.
func NewWithdrawRequestService(db *gorm.DB, now Clock) WithdrawRequestServicer {
	return &withdrawRequestService{ledger: newSpendLedger[models.WithdrawRequest](db, now, apperrors.ErrWithdrawRequestNotFound)}
}

// CreateWithdrawRequest records a PENDING withdraw request. Only park
// managers and admins may ask to withdraw.
func (s *withdrawRequestService) CreateWithdrawRequest(
	caller identity.Caller,
	budgetID, categoryID string,
	amount decimal.Decimal,
	reason, receiptRef string,
) (*models.WithdrawRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reason is required")
	}

	spend, err := s.ledger.prepare(caller, budgetID, categoryID, amount, receiptRef,
		models.RoleParkManager, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	request := &models.WithdrawRequest{SpendRequest: spend, Reason: reason}
	if err := s.ledger.create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetWithdrawRequestByID returns a withdraw request by ID.
func (s *withdrawRequestService) GetWithdrawRequestByID(requestID string) (*models.WithdrawRequest, error) {
	return s.ledger.find(s.ledger.db, requestID)
}

func (s *withdrawRequestService) ListBudgetWithdrawRequests(budgetID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
	return s.ledger.list("budget_id", budgetID, page, filter)
}

func (s *withdrawRequestService) ListCategoryWithdrawRequests(categoryID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
	return s.ledger.list("category_id", categoryID, page, filter)
}

func (s *withdrawRequestService) ListParkWithdrawRequests(parkID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
	return s.ledger.list("park_id", parkID, page, filter)
}

// ApproveWithdrawRequest approves a PENDING request and debits its category.
func (s *withdrawRequestService) ApproveWithdrawRequest(caller identity.Caller, requestID string) (*models.WithdrawRequest, error) {
	return s.ledger.approve(caller, requestID)
}

// RejectWithdrawRequest rejects a PENDING request.
func (s *withdrawRequestService) RejectWithdrawRequest(caller identity.Caller, requestID, reason string) (*models.WithdrawRequest, error) {
	return s.ledger.reject(caller, requestID, reason)
}

func (s *withdrawRequestService) UpdateWithdrawRequestAuditStatus(caller identity.Caller, requestID string, status models.AuditStatus) (*models.WithdrawRequest, error) {
	return s.ledger.setAuditStatus(caller, requestID, status)
}

func (s *withdrawRequestService) AttachWithdrawRequestReceipt(caller identity.Caller, requestID, receiptRef string) (*models.WithdrawRequest, error) {
	return s.ledger.attachReceipt(caller, requestID, receiptRef)
}
