package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/config"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
)

const (
	tokenIssuer     = "park-pro-api"
	accessTokenType = "access"

	// CallerKey is the gin context key holding the resolved identity.Caller.
	CallerKey = "caller"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	ParkID    *string     `json:"park_id,omitempty"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

// Caller returns the identity carried by the claims.
func (c *JWTClaims) Caller() identity.Caller {
	return identity.Caller{UserID: c.UserID, Role: c.Role, ParkID: c.ParkID}
}

// GenerateAccessToken generates a JWT access token for a user, valid for the
// configured JWT_EXPIRES_IN.
func GenerateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ParkID:    user.ParkID,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseAccessToken validates an access token and returns its claims.
func ParseAccessToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.TokenType != accessTokenType {
		return nil, fmt.Errorf("token is not an access token")
	}
	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, fmt.Errorf("token carries no valid identity")
	}

	return claims, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": message}})
}

// AuthMiddleware verifies the bearer token and stores the caller in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		// Check if the header is in the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := ParseAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(CallerKey, claims.Caller())
		c.Set("email", claims.Email)
		c.Next()
	}
}

// CallerFrom returns the caller stored by AuthMiddleware.
func CallerFrom(c *gin.Context) (identity.Caller, bool) {
	v, exists := c.Get(CallerKey)
	if !exists {
		return identity.Caller{}, false
	}
	caller, ok := v.(identity.Caller)
	return caller, ok && caller.UserID != ""
}
