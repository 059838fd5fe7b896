package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// ParkHandler handles park requests.
type ParkHandler struct {
	parkService services.ParkServicer
	activity    services.ActivityLogger
}

// NewParkHandler creates a new ParkHandler.
func NewParkHandler(parkService services.ParkServicer, activity services.ActivityLogger) *ParkHandler {
	return &ParkHandler{parkService: parkService, activity: activity}
}

// CreateParkRequest represents the request payload for creating a park.
type CreateParkRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=150"`
	Location    string `json:"location" binding:"max=255"`
	Description string `json:"description" binding:"max=2000"`
	Currency    string `json:"currency" binding:"omitempty,iso4217"`
}

// CreatePark handles park registration.
// @Summary     Create a park
// @Tags        parks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateParkRequest true "Park details"
// @Success     201 {object} models.Park "Park created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admins only"
// @Failure     409 {object} ErrorResponse "Duplicate park name"
// @Router      /parks [post]
func (h *ParkHandler) CreatePark(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateParkRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	park, err := h.parkService.CreatePark(caller, req.Name, req.Location, req.Description, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_PARK", "park", park.ID, c.ClientIP(),
		map[string]interface{}{"name": park.Name, "currency": park.Currency})

	c.JSON(http.StatusCreated, gin.H{"park": park})
}

// ListParks handles listing parks.
// @Summary     List parks
// @Tags        parks
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Park] "Paginated parks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /parks [get]
func (h *ParkHandler) ListParks(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.parkService.ListParks(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPark handles retrieving a park.
// @Summary     Get park by ID
// @Tags        parks
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Park ID"
// @Success     200 {object} models.Park "Park details"
// @Failure     400 {object} ErrorResponse "Invalid park ID"
// @Failure     404 {object} ErrorResponse "Park not found"
// @Router      /parks/{id} [get]
func (h *ParkHandler) GetPark(c *gin.Context) {
	parkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	park, err := h.parkService.GetParkByID(parkID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"park": park})
}
