package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// WithdrawRequestHandler handles withdraw requests.
type WithdrawRequestHandler struct {
	withdrawService services.WithdrawRequestServicer
	activity        services.ActivityLogger
}

// NewWithdrawRequestHandler creates a new WithdrawRequestHandler.
func NewWithdrawRequestHandler(withdrawService services.WithdrawRequestServicer, activity services.ActivityLogger) *WithdrawRequestHandler {
	return &WithdrawRequestHandler{withdrawService: withdrawService, activity: activity}
}

// CreateWithdrawRequestRequest represents the request payload for requesting a withdrawal.
type CreateWithdrawRequestRequest struct {
	CategoryID string          `json:"category_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"money_positive" swaggertype:"string" example:"5000.00"`
	Reason     string          `json:"reason" binding:"required,max=2000"`
	ReceiptRef string          `json:"receipt_ref" binding:"max=500"`
}

// CreateWithdrawRequest handles recording a PENDING withdraw request against a category.
// @Summary     Create a withdraw request
// @Tags        withdraw-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                       true "Budget ID"
// @Param       request body CreateWithdrawRequestRequest true "Withdraw request details"
// @Success     201 {object} models.WithdrawRequest "Withdraw request created"
// @Failure     400 {object} ErrorResponse "Invalid input, budget not APPROVED or insufficient balance"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Router      /budgets/{id}/withdraw-requests [post]
func (h *WithdrawRequestHandler) CreateWithdrawRequest(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWithdrawRequestRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.withdrawService.CreateWithdrawRequest(caller, budgetID, req.CategoryID, req.Amount, req.Reason, req.ReceiptRef)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_WITHDRAW_REQUEST", "withdraw_request", request.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "category_id": req.CategoryID, "amount": request.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"withdraw_request": request})
}

// GetBudgetWithdrawRequests handles listing a budget's withdraw requests.
// @Summary     List budget withdraw requests
// @Tags        withdraw-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true  "Budget ID"
// @Param       status       query string false "Filter by status (PENDING/APPROVED/REJECTED)"
// @Param       audit_status query string false "Filter by audit status (PASSED/FAILED/UNJUSTIFIED)"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.WithdrawRequest] "Paginated withdraw requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/withdraw-requests [get]
func (h *WithdrawRequestHandler) GetBudgetWithdrawRequests(c *gin.Context) {
	listSpend(c, h.withdrawService.ListBudgetWithdrawRequests)
}

// GetCategoryWithdrawRequests handles listing a category's withdraw requests.
// @Summary     List category withdraw requests
// @Tags        withdraw-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true  "Category ID"
// @Param       status       query string false "Filter by status"
// @Param       audit_status query string false "Filter by audit status"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.WithdrawRequest] "Paginated withdraw requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/withdraw-requests [get]
func (h *WithdrawRequestHandler) GetCategoryWithdrawRequests(c *gin.Context) {
	listSpend(c, h.withdrawService.ListCategoryWithdrawRequests)
}

// GetParkWithdrawRequests handles listing a park's withdraw requests.
// @Summary     List park withdraw requests
// @Tags        withdraw-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true  "Park ID"
// @Param       status       query string false "Filter by status"
// @Param       audit_status query string false "Filter by audit status"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.WithdrawRequest] "Paginated withdraw requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Park not found"
// @Router      /parks/{id}/withdraw-requests [get]
func (h *WithdrawRequestHandler) GetParkWithdrawRequests(c *gin.Context) {
	listSpend(c, h.withdrawService.ListParkWithdrawRequests)
}

// GetWithdrawRequest handles retrieving a single request.
// @Summary     Get withdraw request by ID
// @Tags        withdraw-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Withdraw request ID"
// @Success     200 {object} models.WithdrawRequest "Withdraw request"
// @Failure     400 {object} ErrorResponse "Invalid withdraw request ID"
// @Failure     404 {object} ErrorResponse "Withdraw request not found"
// @Router      /withdraw-requests/{id} [get]
func (h *WithdrawRequestHandler) GetWithdrawRequest(c *gin.Context) {
	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.withdrawService.GetWithdrawRequestByID(requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdraw_request": request})
}

// ApproveWithdrawRequest handles approving a PENDING withdraw request and debiting its category.
// @Summary     Approve withdraw request
// @Tags        withdraw-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Withdraw request ID"
// @Success     200 {object} models.WithdrawRequest "Approved withdraw request"
// @Failure     400 {object} ErrorResponse "Not pending or insufficient balance"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Withdraw request not found"
// @Router      /withdraw-requests/{id}/approve [post]
func (h *WithdrawRequestHandler) ApproveWithdrawRequest(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.withdrawService.ApproveWithdrawRequest(caller, requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "APPROVE_WITHDRAW_REQUEST", "withdraw_request", requestID, c.ClientIP(),
		map[string]interface{}{"amount": request.Amount.String(), "category_id": request.CategoryID})

	c.JSON(http.StatusOK, gin.H{"withdraw_request": request})
}

// RejectWithdrawRequest handles rejecting a PENDING request.
// @Summary     Reject withdraw request
// @Tags        withdraw-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Withdraw request ID"
// @Param       request body RejectSpendRequest true "Rejection reason"
// @Success     200 {object} models.WithdrawRequest "Rejected withdraw request"
// @Failure     400 {object} ErrorResponse "Reason required or not pending"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Withdraw request not found"
// @Router      /withdraw-requests/{id}/reject [post]
func (h *WithdrawRequestHandler) RejectWithdrawRequest(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectSpendRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.withdrawService.RejectWithdrawRequest(caller, requestID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "REJECT_WITHDRAW_REQUEST", "withdraw_request", requestID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"withdraw_request": request})
}

// UpdateWithdrawRequestAuditStatus handles an auditor's verdict on an request.
// @Summary     Set withdraw request audit status
// @Tags        withdraw-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Withdraw request ID"
// @Param       request body AuditStatusRequest true "Audit status"
// @Success     200 {object} models.WithdrawRequest "Updated withdraw request"
// @Failure     400 {object} ErrorResponse "Invalid audit status"
// @Failure     403 {object} ErrorResponse "Auditors only"
// @Failure     404 {object} ErrorResponse "Withdraw request not found"
// @Router      /withdraw-requests/{id}/audit-status [put]
func (h *WithdrawRequestHandler) UpdateWithdrawRequestAuditStatus(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AuditStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.withdrawService.UpdateWithdrawRequestAuditStatus(caller, requestID, req.AuditStatus)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "UPDATE_WITHDRAW_REQUEST_AUDIT_STATUS", "withdraw_request", requestID, c.ClientIP(),
		map[string]interface{}{"audit_status": req.AuditStatus})

	c.JSON(http.StatusOK, gin.H{"withdraw_request": request})
}

// AttachWithdrawRequestReceipt handles attaching a receipt reference to a PENDING request.
// @Summary     Attach withdraw request receipt
// @Tags        withdraw-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Withdraw request ID"
// @Param       request body ReceiptRequest true "Receipt reference"
// @Success     200 {object} models.WithdrawRequest "Updated withdraw request"
// @Failure     400 {object} ErrorResponse "Invalid input or not pending"
// @Failure     403 {object} ErrorResponse "Requester only"
// @Failure     404 {object} ErrorResponse "Withdraw request not found"
// @Router      /withdraw-requests/{id}/receipt [put]
func (h *WithdrawRequestHandler) AttachWithdrawRequestReceipt(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.withdrawService.AttachWithdrawRequestReceipt(caller, requestID, req.ReceiptRef)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "ATTACH_WITHDRAW_REQUEST_RECEIPT", "withdraw_request", requestID, c.ClientIP(),
		map[string]interface{}{"receipt_ref": req.ReceiptRef})

	c.JSON(http.StatusOK, gin.H{"withdraw_request": request})
}
