package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/shared/constants"
	"github.com/loam-dev/loam/internal/shared/errors"
	"github.com/loam-dev/loam/internal/shared/id"
)

// ParseSIDParam parses and validates a Stripe-style prefixed ID from a URL path parameter.
// paramName is the Gin route parameter name (e.g., "id").
// prefix is the expected SID prefix (e.g., id.PrefixRequest).
// entityName is used in error messages (e.g., "renewal request").
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}

	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entityName, prefix),
		)
	}

	return sid, nil
}

// CurrentUserID returns the authenticated user ID placed in the context
// by the auth middleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := v.(uint)
	return userID, ok
}

// CurrentUserRole returns the authenticated user's role, or "" when absent.
func CurrentUserRole(c *gin.Context) string {
	v, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return ""
	}
	role, _ := v.(string)
	return role
}
