package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/application/subscription/dto"
	subscriptionUsecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/shared/constants"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// AccessGateMiddleware blocks tenants whose subscription no longer
// grants access. The decision is delegated to EvaluateValidity so the
// gate and the API report the exact same answer.
//
// Paths on the subscription surface stay reachable for invalid tenants,
// otherwise a lapsed tenant could never renew.
type AccessGateMiddleware struct {
	evaluateValidityUC *subscriptionUsecases.EvaluateValidityUseCase
	logger             logger.Interface
}

func NewAccessGateMiddleware(
	evaluateValidityUC *subscriptionUsecases.EvaluateValidityUseCase,
	logger logger.Interface,
) *AccessGateMiddleware {
	return &AccessGateMiddleware{
		evaluateValidityUC: evaluateValidityUC,
		logger:             logger,
	}
}

// allowedWhenInvalid lists the path prefixes an invalid tenant may still
// reach: the subscription surface itself plus the plan lookup table.
var allowedWhenInvalid = []string{
	"/api/subscription",
	"/api/plans",
	"/api/site",
}

// RequireValidSubscription denies the request unless the caller's
// subscription is valid right now. Must run after RequireAuth.
func (m *AccessGateMiddleware) RequireValidSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.CurrentUserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		// Admins manage the platform and are never gated by tenant
		// subscription state.
		if utils.CurrentUserRole(c) == constants.RoleAdmin {
			c.Next()
			return
		}

		result, err := m.evaluateValidityUC.Execute(c.Request.Context(), userID)
		if err != nil {
			m.logger.Errorw("failed to evaluate subscription validity",
				"error", err,
				"user_id", userID,
			)
			utils.ErrorResponse(c, http.StatusInternalServerError, "failed to verify subscription")
			c.Abort()
			return
		}

		if result.IsValid {
			c.Next()
			return
		}

		if isAllowedWhenInvalid(c.Request.URL.Path) {
			c.Next()
			return
		}

		switch result.Status {
		case dto.ValidityNoSubscription:
			utils.DeniedResponse(c,
				constants.GateReasonNoSubscription,
				"no subscription found, complete onboarding first",
				result.Redirect,
			)
		default:
			utils.DeniedResponse(c,
				constants.GateReasonExpired,
				"subscription has expired, renew to restore access",
				result.Redirect,
			)
		}
		c.Abort()
	}
}

func isAllowedWhenInvalid(path string) bool {
	for _, prefix := range allowedWhenInvalid {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
