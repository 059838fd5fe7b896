package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db  *gorm.DB
	now Clock
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, now Clock) UserServicer {
	return &userService{db: db, now: clockOrDefault(now)}
}

// CreateUser registers a new user. Park-scoped roles must name an existing park.
func (s *userService) CreateUser(
	email, password, firstName, lastName string,
	role models.Role,
	parkID *string,
) (*models.User, error) {
	// Validate input
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if !role.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown role")
	}
	if parkID != nil && *parkID == "" {
		parkID = nil
	}
	if role.IsParkScoped() && parkID == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "park_id is required for "+string(role))
	}
	if parkID != nil {
		var park models.Park
		if err := s.db.Where("id = ?", *parkID).Take(&park).Error; err != nil {
			return nil, lookupError(err, apperrors.ErrParkNotFound)
		}
	}

	// Check if user with email exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		ParkID:    parkID,
		IsActive:  true,
	}
	user.Stamp(s.now())

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks credentials and records the login time. Unknown
// emails and wrong passwords fail the same way.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.db.Model(user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LastLoginAt = &now

	return user, nil
}
