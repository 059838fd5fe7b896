package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// FundingRequestHandler handles requests for money beyond an approved budget.
type FundingRequestHandler struct {
	fundingService services.FundingRequestServicer
	activity       services.ActivityLogger
}

// NewFundingRequestHandler creates a new FundingRequestHandler.
func NewFundingRequestHandler(fundingService services.FundingRequestServicer, activity services.ActivityLogger) *FundingRequestHandler {
	return &FundingRequestHandler{fundingService: fundingService, activity: activity}
}

// CreateFundingRequestRequest represents the request payload for asking for extra funds.
type CreateFundingRequestRequest struct {
	ParkID          string                    `json:"park_id" binding:"required,uuid"`
	BudgetID        string                    `json:"budget_id" binding:"required,uuid"`
	RequestedAmount decimal.Decimal           `json:"requested_amount" binding:"money_positive" swaggertype:"string" example:"40000.00"`
	RequestType     models.FundingRequestType `json:"request_type" binding:"required,funding_type"`
	Reason          string                    `json:"reason" binding:"required,max=2000"`
}

// ApproveFundingRequestRequest represents the amount granted on approval.
// A grant of zero must be sent explicitly.
type ApproveFundingRequestRequest struct {
	ApprovedAmount *decimal.Decimal `json:"approved_amount" binding:"required,money_nonneg" swaggertype:"string" example:"30000.00"`
}

// CreateFundingRequest handles submitting a funding request.
// @Summary     Create a funding request
// @Tags        funding-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFundingRequestRequest true "Funding request details"
// @Success     201 {object} models.FundingRequest "Funding request created"
// @Failure     400 {object} ErrorResponse "Invalid input or budget not APPROVED"
// @Failure     403 {object} ErrorResponse "Park finance officers only"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /funding-requests [post]
func (h *FundingRequestHandler) CreateFundingRequest(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFundingRequestRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.fundingService.CreateFundingRequest(caller, req.ParkID, req.BudgetID, req.RequestedAmount, req.RequestType, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_FUNDING_REQUEST", "funding_request", request.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": req.BudgetID, "request_type": req.RequestType, "requested_amount": request.RequestedAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"funding_request": request})
}

// GetParkFundingRequests handles listing a park's funding requests.
// @Summary     List park funding requests
// @Tags        funding-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Park ID"
// @Param       status    query string false "Filter by status (PENDING/APPROVED/REJECTED)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FundingRequest] "Paginated funding requests"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Park not found"
// @Router      /parks/{id}/funding-requests [get]
func (h *FundingRequestHandler) GetParkFundingRequests(c *gin.Context) {
	parkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := requestStatusQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.fundingService.ListParkFundingRequests(parkID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetApprovedFundingRequests serves approved funding requests to the allocation pipeline.
// @Summary     List approved funding requests
// @Description Pipeline endpoint authenticated with X-API-Key
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FundingRequest] "Approved funding requests"
// @Failure     401 {object} ErrorResponse "Invalid or missing API key"
// @Router      /pipeline/funding-requests/approved [get]
func (h *FundingRequestHandler) GetApprovedFundingRequests(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.fundingService.ListApprovedFundingRequests(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFundingRequest handles retrieving a single funding request.
// @Summary     Get funding request by ID
// @Tags        funding-requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Funding request ID"
// @Success     200 {object} models.FundingRequest "Funding request"
// @Failure     400 {object} ErrorResponse "Invalid funding request ID"
// @Failure     404 {object} ErrorResponse "Funding request not found"
// @Router      /funding-requests/{id} [get]
func (h *FundingRequestHandler) GetFundingRequest(c *gin.Context) {
	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.fundingService.GetFundingRequestByID(requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"funding_request": request})
}

// ApproveFundingRequest handles granting a PENDING funding request.
// @Summary     Approve funding request
// @Tags        funding-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                       true "Funding request ID"
// @Param       request body ApproveFundingRequestRequest true "Approved amount"
// @Success     200 {object} models.FundingRequest "Approved funding request"
// @Failure     400 {object} ErrorResponse "Invalid amount or not pending"
// @Failure     403 {object} ErrorResponse "Government officers only"
// @Failure     404 {object} ErrorResponse "Funding request not found"
// @Router      /funding-requests/{id}/approve [post]
func (h *FundingRequestHandler) ApproveFundingRequest(c *gin.Context) {
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

	var req ApproveFundingRequestRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.fundingService.ApproveFundingRequest(caller, requestID, *req.ApprovedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "APPROVE_FUNDING_REQUEST", "funding_request", requestID, c.ClientIP(),
		map[string]interface{}{"approved_amount": req.ApprovedAmount.String()})

	c.JSON(http.StatusOK, gin.H{"funding_request": request})
}

// RejectFundingRequest handles declining a PENDING funding request.
// @Summary     Reject funding request
// @Tags        funding-requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Funding request ID"
// @Param       request body RejectSpendRequest true "Rejection reason"
// @Success     200 {object} models.FundingRequest "Rejected funding request"
// @Failure     400 {object} ErrorResponse "Reason required or not pending"
// @Failure     403 {object} ErrorResponse "Government officers only"
// @Failure     404 {object} ErrorResponse "Funding request not found"
// @Router      /funding-requests/{id}/reject [post]
func (h *FundingRequestHandler) RejectFundingRequest(c *gin.Context) {
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

	request, err := h.fundingService.RejectFundingRequest(caller, requestID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "REJECT_FUNDING_REQUEST", "funding_request", requestID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"funding_request": request})
}
