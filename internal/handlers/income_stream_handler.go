package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// IncomeStreamHandler handles income stream requests.
type IncomeStreamHandler struct {
	streamService services.IncomeStreamServicer
	activity      services.ActivityLogger
}

// NewIncomeStreamHandler creates a new IncomeStreamHandler.
func NewIncomeStreamHandler(streamService services.IncomeStreamServicer, activity services.ActivityLogger) *IncomeStreamHandler {
	return &IncomeStreamHandler{streamService: streamService, activity: activity}
}

// CreateIncomeStreamRequest represents the request payload for declaring an income stream.
type CreateIncomeStreamRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=150"`
	Percentage        decimal.Decimal `json:"percentage" binding:"stream_percentage" swaggertype:"string" example:"60"`
	TotalContribution decimal.Decimal `json:"total_contribution" binding:"money_nonneg" swaggertype:"string" example:"150000.00"`
}

// UpdateIncomeStreamRequest represents the request payload for updating an income stream.
type UpdateIncomeStreamRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=150"`
	Percentage        *decimal.Decimal `json:"percentage" binding:"omitempty,stream_percentage" swaggertype:"string"`
	TotalContribution *decimal.Decimal `json:"total_contribution" binding:"omitempty,money_nonneg" swaggertype:"string"`
	ActualBalance     *decimal.Decimal `json:"actual_balance" binding:"omitempty,money_nonneg" swaggertype:"string"`
}

// CreateIncomeStream handles declaring a funding source for a budget.
// @Summary     Create an income stream
// @Tags        income-streams
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Budget ID"
// @Param       request body CreateIncomeStreamRequest true "Income stream details"
// @Success     201 {object} models.IncomeStream "Income stream created"
// @Failure     400 {object} ErrorResponse "Invalid input, budget not DRAFT or caps exceeded"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/income-streams [post]
func (h *IncomeStreamHandler) CreateIncomeStream(c *gin.Context) {
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

	var req CreateIncomeStreamRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	stream, err := h.streamService.CreateIncomeStream(caller, budgetID, req.Name, req.Percentage, req.TotalContribution)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_INCOME_STREAM", "income_stream", stream.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "percentage": stream.Percentage.String(), "total_contribution": stream.TotalContribution.String()})

	c.JSON(http.StatusCreated, gin.H{"income_stream": stream})
}

// GetBudgetIncomeStreams handles listing a budget's income streams.
// @Summary     List income streams
// @Tags        income-streams
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {array}  models.IncomeStream "Income streams"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/income-streams [get]
func (h *IncomeStreamHandler) GetBudgetIncomeStreams(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	streams, err := h.streamService.GetIncomeStreamsByBudget(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income_streams": streams})
}

// UpdateIncomeStream handles adjusting an income stream.
// @Summary     Update income stream
// @Tags        income-streams
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Income stream ID"
// @Param       request body UpdateIncomeStreamRequest true "Updated income stream"
// @Success     200 {object} models.IncomeStream "Updated income stream"
// @Failure     400 {object} ErrorResponse "Invalid input or caps exceeded"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Income stream not found"
// @Router      /income-streams/{id} [put]
func (h *IncomeStreamHandler) UpdateIncomeStream(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	streamID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeStreamRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	stream, err := h.streamService.UpdateIncomeStream(caller, streamID, services.UpdateIncomeStreamInput{
		Name:              req.Name,
		Percentage:        req.Percentage,
		TotalContribution: req.TotalContribution,
		ActualBalance:     req.ActualBalance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "UPDATE_INCOME_STREAM", "income_stream", streamID, c.ClientIP(),
		map[string]interface{}{
			"percentage":         stream.Percentage.String(),
			"total_contribution": stream.TotalContribution.String(),
			"actual_balance":     stream.ActualBalance.String(),
		})

	c.JSON(http.StatusOK, gin.H{"income_stream": stream})
}

// DeleteIncomeStream handles removing an income stream.
// @Summary     Delete income stream
// @Tags        income-streams
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income stream ID"
// @Success     200 {object} MessageResponse "Income stream deleted"
// @Failure     400 {object} ErrorResponse "Budget not DRAFT"
// @Failure     403 {object} ErrorResponse "Finance officers only"
// @Failure     404 {object} ErrorResponse "Income stream not found"
// @Router      /income-streams/{id} [delete]
func (h *IncomeStreamHandler) DeleteIncomeStream(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	streamID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.streamService.DeleteIncomeStream(caller, streamID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "DELETE_INCOME_STREAM", "income_stream", streamID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Income stream deleted successfully"})
}
