package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/services"
)

const (
	ProfileIDKey = "profile_id"
	EmailKey     = "profile_email"
	IsAdminKey   = "is_admin"
)

// TokenValidator is satisfied by services.JWTService.
type TokenValidator interface {
	ValidateAccessToken(token string) (*services.Claims, error)
}

// Auth rejects requests without a valid bearer access token.
func Auth(tokens TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		token, ok := bearer(header)
		if !ok {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous or badly authenticated requests through as anonymous.
func OptionalAuth(tokens TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		if token, ok := bearer(c.GetHeader("Authorization")); ok {
			if claims, err := tokens.ValidateAccessToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() drift.HandlerFunc {
	return func(c *drift.Context) {
		if !IsAdmin(c) {
			c.Forbidden("admin access required")
			return
		}
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func setClaims(c *drift.Context, claims *services.Claims) {
	c.Set(ProfileIDKey, claims.ProfileID)
	c.Set(EmailKey, claims.Email)
	c.Set(IsAdminKey, claims.IsAdmin)
}

func GetProfileID(c *drift.Context) uuid.UUID {
	if v, ok := c.Get(ProfileIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func GetEmail(c *drift.Context) string {
	if v, ok := c.Get(EmailKey); ok {
		if e, ok := v.(string); ok {
			return e
		}
	}
	return ""
}

func IsAdmin(c *drift.Context) bool {
	if v, ok := c.Get(IsAdminKey); ok {
		admin, _ := v.(bool)
		return admin
	}
	return false
}

// Identity returns the caller, or nil for anonymous requests.
func Identity(c *drift.Context) *models.Identity {
	id := GetProfileID(c)
	if id == uuid.Nil {
		return nil
	}
	return &models.Identity{ProfileID: id, IsAdmin: IsAdmin(c)}
}
