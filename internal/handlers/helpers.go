package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/middleware"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/uuid"
)

// getCaller extracts the authenticated caller from the Gin context.
// Returns ErrUnauthorized if not present.
func getCaller(c *gin.Context) (identity.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return identity.Caller{}, apperrors.ErrUnauthorized
	}
	return caller, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// bindJSON binds the request body, mapping binding failures to ErrInvalidInput.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// bindPage binds the page and page_size query parameters.
func bindPage(c *gin.Context) (pagination.PageRequest, error) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return page, nil
}

// requestStatusQuery parses an optional status filter.
func requestStatusQuery(c *gin.Context) (*models.RequestStatus, error) {
	v := c.Query("status")
	if v == "" {
		return nil, nil
	}
	status := models.RequestStatus(v)
	if !status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be PENDING, APPROVED or REJECTED")
	}
	return &status, nil
}

// spendFilterQuery parses the status and audit_status filters of spend lists.
func spendFilterQuery(c *gin.Context) (services.SpendFilter, error) {
	var filter services.SpendFilter

	status, err := requestStatusQuery(c)
	if err != nil {
		return filter, err
	}
	filter.Status = status

	if v := c.Query("audit_status"); v != "" {
		auditStatus := models.AuditStatus(v)
		if !auditStatus.IsValid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "audit_status must be PASSED, FAILED or UNJUSTIFIED")
		}
		filter.AuditStatus = &auditStatus
	}
	return filter, nil
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// listSpend serves a paginated, filtered spend list scoped by the :id path parameter.
func listSpend[T any](
	c *gin.Context,
	fetch func(id string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[T], error),
) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := spendFilterQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := fetch(id, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
