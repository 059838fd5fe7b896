package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// AuditHandler handles park-year audit requests.
type AuditHandler struct {
	auditService services.AuditServicer
	activity     services.ActivityLogger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer, activity services.ActivityLogger) *AuditHandler {
	return &AuditHandler{auditService: auditService, activity: activity}
}

// CreateAuditRequest represents the request payload for scoring a park's fiscal year.
type CreateAuditRequest struct {
	ParkID string `json:"park_id" binding:"required,uuid"`
	Year   int    `json:"year" binding:"required,fiscal_year"`
}

// UpdateAuditProgressRequest represents a change to an audit's progress.
type UpdateAuditProgressRequest struct {
	Progress models.AuditProgress `json:"progress" binding:"required,audit_progress"`
}

// CreateAudit handles scoring the spend records of a park's fiscal year.
// @Summary     Create an audit
// @Description Score every expense and withdraw request of a park-year by audit status
// @Tags        audits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAuditRequest true "Park and year"
// @Success     201 {object} models.Audit "Audit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Auditors only"
// @Failure     404 {object} ErrorResponse "No spend records for the park and year"
// @Failure     409 {object} ErrorResponse "Audit already exists"
// @Router      /audits [post]
func (h *AuditHandler) CreateAudit(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAuditRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	audit, err := h.auditService.CreateAudit(caller, req.ParkID, req.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_AUDIT", "audit", audit.ID, c.ClientIP(),
		map[string]interface{}{"park_id": req.ParkID, "year": req.Year, "total_records": audit.TotalRecords})

	c.JSON(http.StatusCreated, gin.H{"audit": audit})
}

// GetAudit handles retrieving a single audit.
// @Summary     Get audit by ID
// @Tags        audits
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Audit ID"
// @Success     200 {object} models.Audit "Audit"
// @Failure     400 {object} ErrorResponse "Invalid audit ID"
// @Failure     404 {object} ErrorResponse "Audit not found"
// @Router      /audits/{id} [get]
func (h *AuditHandler) GetAudit(c *gin.Context) {
	auditID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	audit, err := h.auditService.GetAuditByID(auditID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": audit})
}

// GetParkAudits handles listing a park's audits, newest year first.
// @Summary     List park audits
// @Tags        audits
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Park ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Audit] "Paginated audits"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /parks/{id}/audits [get]
func (h *AuditHandler) GetParkAudits(c *gin.Context) {
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

	result, err := h.auditService.ListParkAudits(parkID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateAuditProgress handles changing an audit's working state.
// @Summary     Update audit progress
// @Tags        audits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                     true "Audit ID"
// @Param       request body UpdateAuditProgressRequest true "Progress"
// @Success     200 {object} models.Audit "Updated audit"
// @Failure     400 {object} ErrorResponse "Invalid progress"
// @Failure     404 {object} ErrorResponse "Audit not found"
// @Router      /audits/{id}/progress [put]
func (h *AuditHandler) UpdateAuditProgress(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	auditID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAuditProgressRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	audit, err := h.auditService.UpdateAuditProgress(caller, auditID, req.Progress)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "UPDATE_AUDIT_PROGRESS", "audit", auditID, c.ClientIP(),
		map[string]interface{}{"progress": req.Progress})

	c.JSON(http.StatusOK, gin.H{"audit": audit})
}
