package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/middleware"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// AuthHandler handles authentication and user management requests
type AuthHandler struct {
	userService services.UserServicer
	activity    services.ActivityLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, activity services.ActivityLogger) *AuthHandler {
	return &AuthHandler{userService: userService, activity: activity}
}

// CreateUserRequest represents the user creation payload
type CreateUserRequest struct {
	Email     string      `json:"email" binding:"required,email,max=255"`
	Password  string      `json:"password" binding:"required,min=8,max=128"`
	FirstName string      `json:"first_name" binding:"max=100"`
	LastName  string      `json:"last_name" binding:"max=100"`
	Role      models.Role `json:"role" binding:"required,role"`
	ParkID    *string     `json:"park_id" binding:"omitempty,uuid"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	ParkID    *string     `json:"park_id,omitempty"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		ParkID:    user.ParkID,
	}
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a token carrying their role and park
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(caller.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// CreateUser registers a staff member
// @Summary     Create a user
// @Description Create a user with a role; finance officers and park managers need a park
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admins only"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !caller.HasRole(models.RoleAdmin) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.FirstName, req.LastName, req.Role, req.ParkID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activity.Log(caller.UserID, "CREATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"email": user.Email, "role": user.Role, "park_id": user.ParkID})

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}
