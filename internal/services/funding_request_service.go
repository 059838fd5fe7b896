package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

// fundingRequestService handles requests for money beyond an approved budget.
// Decisions never touch budget or category balances.
type fundingRequestService struct {
	db  *gorm.DB
	now Clock
}

// NewFundingRequestService creates a new FundingRequestServicer.
func NewFundingRequestService(db *gorm.DB, now Clock) FundingRequestServicer {
	return &fundingRequestService{db: db, now: clockOrDefault(now)}
}

// CreateFundingRequest files a PENDING request against an APPROVED budget of
// the caller's own park.
func (s *fundingRequestService) CreateFundingRequest(
	caller identity.Caller,
	parkID, budgetID string,
	requestedAmount decimal.Decimal,
	requestType models.FundingRequestType,
	reason string,
) (*models.FundingRequest, error) {
	if !caller.HasRole(models.RoleFinanceOfficer) || !caller.AssignedTo(parkID) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "only a finance officer assigned to the park can request funding")
	}
	if !requestType.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "request type must be EXTRA_FUNDS or EMERGENCY_RELIEF")
	}
	if err := ledger.ValidatePositive(requestedAmount); err != nil {
		return nil, invalidInput(err)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reason is required")
	}

	budget, err := findBudget(s.db, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.ParkID != parkID {
		return nil, apperrors.ErrBudgetParkMismatch
	}
	if budget.Status != models.BudgetStatusApproved {
		return nil, apperrors.ErrBudgetNotApproved
	}

	request := &models.FundingRequest{
		ParkID:          parkID,
		BudgetID:        budget.ID,
		RequestedAmount: ledger.Round(requestedAmount),
		RequestType:     requestType,
		Reason:          reason,
		Status:          models.RequestStatusPending,
		RequestedBy:     caller.UserID,
	}
	request.Stamp(s.now())
	if err := s.db.Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return request, nil
}

// GetFundingRequestByID returns a funding request by ID.
func (s *fundingRequestService) GetFundingRequestByID(requestID string) (*models.FundingRequest, error) {
	return findFundingRequest(s.db, requestID)
}

// ListParkFundingRequests returns a park's funding requests, newest first.
func (s *fundingRequestService) ListParkFundingRequests(
	parkID string,
	page pagination.PageRequest,
	status *models.RequestStatus,
) (*pagination.PageResponse[models.FundingRequest], error) {
	base := s.db.Model(&models.FundingRequest{}).Where("park_id = ?", parkID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}
	return s.page(base, page, "created_at DESC, id DESC")
}

// ListApprovedFundingRequests returns every APPROVED request across parks,
// oldest decision first, for the downstream allocation step.
func (s *fundingRequestService) ListApprovedFundingRequests(page pagination.PageRequest) (*pagination.PageResponse[models.FundingRequest], error) {
	base := s.db.Model(&models.FundingRequest{}).Where("status = ?", models.RequestStatusApproved)
	return s.page(base, page, "reviewed_at ASC, id ASC")
}

func (s *fundingRequestService) page(base *gorm.DB, page pagination.PageRequest, order string) (*pagination.PageResponse[models.FundingRequest], error) {
	result, err := pagination.Fetch[models.FundingRequest](base, page, order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// ApproveFundingRequest grants approvedAmount, which may differ from the
// amount requested.
func (s *fundingRequestService) ApproveFundingRequest(
	caller identity.Caller,
	requestID string,
	approvedAmount decimal.Decimal,
) (*models.FundingRequest, error) {
	if err := ledger.ValidateNonNegative(approvedAmount); err != nil {
		return nil, invalidInput(err)
	}
	return s.decide(caller, requestID, map[string]interface{}{
		"status":          models.RequestStatusApproved,
		"approved_amount": decimal.NewNullDecimal(ledger.Round(approvedAmount)),
	})
}

// RejectFundingRequest rejects a PENDING request with a mandatory reason.
func (s *fundingRequestService) RejectFundingRequest(caller identity.Caller, requestID, reason string) (*models.FundingRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.ErrReasonRequired
	}
	return s.decide(caller, requestID, map[string]interface{}{
		"status":           models.RequestStatusRejected,
		"rejection_reason": reason,
	})
}

// decide moves a PENDING request to its final state with a compare-and-set
// on status, so concurrent reviewers cannot both decide it.
func (s *fundingRequestService) decide(caller identity.Caller, requestID string, updates map[string]interface{}) (*models.FundingRequest, error) {
	if err := requireRole(caller, models.RoleGovernmentOfficer); err != nil {
		return nil, err
	}

	request, err := findFundingRequest(s.db, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending {
		return nil, apperrors.ErrRequestNotPending
	}

	now := s.now()
	updates["reviewed_by"] = caller.UserID
	updates["reviewed_at"] = now
	updates["updated_at"] = now

	result := s.db.Model(&models.FundingRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrRequestNotPending
	}

	return findFundingRequest(s.db, request.ID)
}

func findFundingRequest(db *gorm.DB, requestID string) (*models.FundingRequest, error) {
	var request models.FundingRequest
	if err := db.Where("id = ?", requestID).Take(&request).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrFundingRequestNotFound)
	}
	return &request, nil
}
