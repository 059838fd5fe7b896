package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// ExpenseHandler handles expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	activity       services.ActivityLogger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, activity services.ActivityLogger) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, activity: activity}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"money_positive" swaggertype:"string" example:"1200.00"`
	Description string          `json:"description" binding:"required,max=2000"`
	ReceiptRef  string          `json:"receipt_ref" binding:"max=500"`
}

// RejectSpendRequest represents the payload for rejecting an expense or withdraw request.
// An empty reason is rejected by the service with REASON_REQUIRED.
type RejectSpendRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// AuditStatusRequest represents an auditor's verdict on a spend record.
type AuditStatusRequest struct {
	AuditStatus models.AuditStatus `json:"audit_status" binding:"required,audit_status"`
}

// ReceiptRequest represents a receipt reference attached to a spend record.
type ReceiptRequest struct {
	ReceiptRef string `json:"receipt_ref" binding:"required,max=500"`
}

// CreateExpense handles recording a PENDING expense against a category.
// @Summary     Create an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Budget ID"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input, budget not APPROVED or insufficient balance"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Router      /budgets/{id}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
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

	var req CreateExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(caller, budgetID, req.CategoryID, req.Amount, req.Description, req.ReceiptRef)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "category_id": req.CategoryID, "amount": expense.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetBudgetExpenses handles listing a budget's expenses.
// @Summary     List budget expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true  "Budget ID"
// @Param       status       query string false "Filter by status (PENDING/APPROVED/REJECTED)"
// @Param       audit_status query string false "Filter by audit status (PASSED/FAILED/UNJUSTIFIED)"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/expenses [get]
func (h *ExpenseHandler) GetBudgetExpenses(c *gin.Context) {
	listSpend(c, h.expenseService.ListBudgetExpenses)
}

// GetCategoryExpenses handles listing a category's expenses.
// @Summary     List category expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true  "Category ID"
// @Param       status       query string false "Filter by status"
// @Param       audit_status query string false "Filter by audit status"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/expenses [get]
func (h *ExpenseHandler) GetCategoryExpenses(c *gin.Context) {
	listSpend(c, h.expenseService.ListCategoryExpenses)
}

// GetParkExpenses handles listing a park's expenses.
// @Summary     List park expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true  "Park ID"
// @Param       status       query string false "Filter by status"
// @Param       audit_status query string false "Filter by audit status"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Park not found"
// @Router      /parks/{id}/expenses [get]
func (h *ExpenseHandler) GetParkExpenses(c *gin.Context) {
	listSpend(c, h.expenseService.ListParkExpenses)
}

// GetExpense handles retrieving a single expense.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// ApproveExpense handles approving a PENDING expense and debiting its category.
// @Summary     Approve expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Approved expense"
// @Failure     400 {object} ErrorResponse "Not pending or insufficient balance"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.ApproveExpense(caller, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "APPROVE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "category_id": expense.CategoryID})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// RejectExpense handles rejecting a PENDING expense.
// @Summary     Reject expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Expense ID"
// @Param       request body RejectSpendRequest true "Rejection reason"
// @Success     200 {object} models.Expense "Rejected expense"
// @Failure     400 {object} ErrorResponse "Reason required or not pending"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectSpendRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.RejectExpense(caller, expenseID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "REJECT_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpenseAuditStatus handles an auditor's verdict on an expense.
// @Summary     Set expense audit status
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Expense ID"
// @Param       request body AuditStatusRequest true "Audit status"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid audit status"
// @Failure     403 {object} ErrorResponse "Auditors only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/audit-status [put]
func (h *ExpenseHandler) UpdateExpenseAuditStatus(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AuditStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpenseAuditStatus(caller, expenseID, req.AuditStatus)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "UPDATE_EXPENSE_AUDIT_STATUS", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"audit_status": req.AuditStatus})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// AttachExpenseReceipt handles attaching a receipt reference to a PENDING expense.
// @Summary     Attach expense receipt
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body ReceiptRequest true "Receipt reference"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or not pending"
// @Failure     403 {object} ErrorResponse "Requester only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/receipt [put]
func (h *ExpenseHandler) AttachExpenseReceipt(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.AttachExpenseReceipt(caller, expenseID, req.ReceiptRef)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "ATTACH_EXPENSE_RECEIPT", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"receipt_ref": req.ReceiptRef})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}
