package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

const defaultCurrency = "USD"

// parkService manages the parks budgets are scoped to.
type parkService struct {
	db  *gorm.DB
	now Clock
}

// NewParkService creates a new ParkServicer.
func NewParkService(db *gorm.DB, now Clock) ParkServicer {
	return &parkService{db: db, now: clockOrDefault(now)}
}

// CreatePark registers a park. Names are unique.
func (s *parkService) CreatePark(caller identity.Caller, name, location, description, currency string) (*models.Park, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "park name is required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency must be a 3-letter code")
	}

	var count int64
	if err := s.db.Model(&models.Park{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicatePark
	}

	park := &models.Park{
		Name:        name,
		Location:    strings.TrimSpace(location),
		Description: description,
		Currency:    currency,
	}
	park.Stamp(s.now())
	if err := s.db.Create(park).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicatePark
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return park, nil
}

// GetParkByID returns a park by ID.
func (s *parkService) GetParkByID(parkID string) (*models.Park, error) {
	var park models.Park
	if err := s.db.Where("id = ?", parkID).Take(&park).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrParkNotFound)
	}
	return &park, nil
}

// ListParks returns parks ordered by name.
func (s *parkService) ListParks(page pagination.PageRequest) (*pagination.PageResponse[models.Park], error) {
	result, err := pagination.Fetch[models.Park](s.db.Model(&models.Park{}), page, "name ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
