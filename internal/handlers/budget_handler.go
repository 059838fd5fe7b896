package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// BudgetHandler handles budget lifecycle requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	activity      services.ActivityLogger
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, activity services.ActivityLogger) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, activity: activity}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	ParkID      string          `json:"park_id" binding:"required,uuid"`
	FiscalYear  int             `json:"fiscal_year" binding:"required,fiscal_year"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"money_positive" swaggertype:"string" example:"250000.00"`
	Description string          `json:"description" binding:"max=2000"`
}

// UpdateBudgetRequest represents the request payload for updating a DRAFT budget.
type UpdateBudgetRequest struct {
	TotalAmount *decimal.Decimal     `json:"total_amount" binding:"omitempty,money_positive" swaggertype:"string"`
	Status      *models.BudgetStatus `json:"status" binding:"omitempty,budget_status"`
	Description *string              `json:"description" binding:"omitempty,max=2000"`
}

// RejectBudgetRequest represents the optional reason of a budget rejection.
type RejectBudgetRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Propose a DRAFT budget for a park's fiscal year
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Park not found"
// @Failure     409 {object} ErrorResponse "Budget already exists for the fiscal year"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(caller, req.ParkID, req.FiscalYear, req.TotalAmount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"park_id": budget.ParkID, "fiscal_year": budget.FiscalYear, "total_amount": budget.TotalAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetParkBudgets handles listing a park's budgets.
// @Summary     List park budgets
// @Description Get a paginated list of a park's budgets, newest fiscal year first
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Park ID"
// @Param       status    query string false "Filter by status (DRAFT/APPROVED/REJECTED)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /parks/{id}/budgets [get]
func (h *BudgetHandler) GetParkBudgets(c *gin.Context) {
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

	var status *models.BudgetStatus
	if v := c.Query("status"); v != "" {
		s := models.BudgetStatus(v)
		if !s.IsValid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be DRAFT, APPROVED or REJECTED"))
			return
		}
		status = &s
	}

	result, err := h.budgetService.ListParkBudgets(parkID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a budget with its categories and income streams
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating a DRAFT budget.
// @Summary     Update budget
// @Description Update the total or description of a DRAFT budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget not DRAFT"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
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

	var req UpdateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(caller, budgetID, services.UpdateBudgetInput{
		TotalAmount: req.TotalAmount,
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.TotalAmount != nil {
		changes["total_amount"] = req.TotalAmount.String()
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	h.activity.Log(caller.UserID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ApproveBudget handles approving a DRAFT budget.
// @Summary     Approve budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Approved budget"
// @Failure     400 {object} ErrorResponse "Budget not DRAFT"
// @Failure     403 {object} ErrorResponse "Government officers only"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/approve [post]
func (h *BudgetHandler) ApproveBudget(c *gin.Context) {
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

	budget, err := h.budgetService.ApproveBudget(caller, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "APPROVE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// RejectBudget handles rejecting a DRAFT budget.
// @Summary     Reject budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true  "Budget ID"
// @Param       request body RejectBudgetRequest false "Rejection reason"
// @Success     200 {object} models.Budget "Rejected budget"
// @Failure     400 {object} ErrorResponse "Budget not DRAFT"
// @Failure     403 {object} ErrorResponse "Government officers only"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/reject [post]
func (h *BudgetHandler) RejectBudget(c *gin.Context) {
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

	var req RejectBudgetRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, err)
			return
		}
	}

	budget, err := h.budgetService.RejectBudget(caller, budgetID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "REJECT_BUDGET", "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a DRAFT budget.
// @Summary     Delete budget
// @Description Delete a DRAFT budget together with its categories and income streams
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Budget not DRAFT"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
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

	if err := h.budgetService.DeleteBudget(caller, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetBudgetSummary handles retrieving the allocation totals of a budget.
// @Summary     Get budget summary
// @Description Get allocated, unallocated, used and income totals for a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetSummary "Budget summary"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/summary [get]
func (h *BudgetHandler) GetBudgetSummary(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetService.GetBudgetSummary(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
