package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

// activityService appends to the activity log.
type activityService struct {
	db  *gorm.DB
	now Clock
}

// NewActivityLogger creates a new ActivityLogger.
func NewActivityLogger(db *gorm.DB, now Clock) ActivityLogger {
	return &activityService{db: db, now: clockOrDefault(now)}
}

// Log records a state change. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *activityService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal activity log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.ActivityLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}
	entry.Stamp(s.now())

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create activity log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
