// Package identity defines the caller value every engine operation receives.
// It is resolved once at the edge (see middleware.AuthMiddleware) and passed
// explicitly; services never read credentials themselves.
package identity

import "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"

// Caller is the resolved identity of whoever invokes an operation.
type Caller struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	ParkID *string     `json:"park_id,omitempty"`
}

// HasRole reports whether the caller holds any of roles.
func (c Caller) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// AssignedTo reports whether the caller is assigned to parkID.
func (c Caller) AssignedTo(parkID string) bool {
	return c.ParkID != nil && *c.ParkID == parkID
}

// CanActOnPark reports whether the caller may act on parkID. Park-scoped
// roles must be assigned to it; all other roles act globally.
func (c Caller) CanActOnPark(parkID string) bool {
	if !c.Role.IsParkScoped() {
		return true
	}
	return c.AssignedTo(parkID)
}
