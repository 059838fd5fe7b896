package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// BudgetCategoryHandler handles budget category requests.
type BudgetCategoryHandler struct {
	categoryService services.BudgetCategoryServicer
	activity        services.ActivityLogger
}

// NewBudgetCategoryHandler creates a new BudgetCategoryHandler.
func NewBudgetCategoryHandler(categoryService services.BudgetCategoryServicer, activity services.ActivityLogger) *BudgetCategoryHandler {
	return &BudgetCategoryHandler{categoryService: categoryService, activity: activity}
}

// CreateBudgetCategoryRequest represents the request payload for creating a category.
// Percentage is taken of the budget's remaining balance.
type CreateBudgetCategoryRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=150"`
	Percentage decimal.Decimal `json:"percentage" binding:"alloc_percentage" swaggertype:"string" example:"25"`
}

// UpdateBudgetCategoryRequest represents the request payload for updating a category.
type UpdateBudgetCategoryRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=150"`
	AllocatedAmount *decimal.Decimal `json:"allocated_amount" binding:"omitempty,money_nonneg" swaggertype:"string"`
}

// CreateCategory handles allocating a new category.
// @Summary     Create a budget category
// @Description Allocate a percentage of a DRAFT budget's remaining balance to a new category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                      true "Budget ID"
// @Param       request body CreateBudgetCategoryRequest true "Category details"
// @Success     201 {object} models.BudgetCategory "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input, budget not DRAFT or allocation exceeded"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate category name"
// @Router      /budgets/{id}/categories [post]
func (h *BudgetCategoryHandler) CreateCategory(c *gin.Context) {
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

	var req CreateBudgetCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(caller, budgetID, req.Name, req.Percentage)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_BUDGET_CATEGORY", "budget_category", category.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "percentage": req.Percentage.String(), "allocated_amount": category.AllocatedAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetBudgetCategories handles listing a budget's categories.
// @Summary     List budget categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {array}  models.BudgetCategory "Categories"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/categories [get]
func (h *BudgetCategoryHandler) GetBudgetCategories(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetCategoriesByBudget(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory handles retrieving a single category.
// @Summary     Get budget category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.BudgetCategory "Category"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *BudgetCategoryHandler) GetCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles renaming a category or moving its allocation.
// @Summary     Update budget category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                      true "Category ID"
// @Param       request body UpdateBudgetCategoryRequest true "Updated category"
// @Success     200 {object} models.BudgetCategory "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation rule violated"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate category name"
// @Router      /categories/{id} [put]
func (h *BudgetCategoryHandler) UpdateCategory(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(caller, categoryID, req.Name, req.AllocatedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.AllocatedAmount != nil {
		changes["allocated_amount"] = req.AllocatedAmount.String()
	}
	h.activity.Log(caller.UserID, "UPDATE_BUDGET_CATEGORY", "budget_category", categoryID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles removing a category from a DRAFT budget.
// @Summary     Delete budget category
// @Description Delete a category and return its allocation to the budget balance
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Budget not DRAFT"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *BudgetCategoryHandler) DeleteCategory(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(caller, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "DELETE_BUDGET_CATEGORY", "budget_category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
