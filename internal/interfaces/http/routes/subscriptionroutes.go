package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/interfaces/http/handlers"
	"github.com/loam-dev/loam/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig holds dependencies for the tenant-facing
// subscription routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
	SubmitRateLimit     *middleware.SubmitRateLimitMiddleware
}

// SetupSubscriptionRoutes configures the tenant subscription surface.
// These routes are never behind the access gate; a lapsed tenant must
// still be able to see their state and submit a renewal.
func SetupSubscriptionRoutes(engine *gin.Engine, cfg *SubscriptionRouteConfig) {
	engine.GET("/api/plans", cfg.SubscriptionHandler.ListPlans)

	subscription := engine.Group("/api/subscription")
	subscription.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscription.GET("", cfg.SubscriptionHandler.GetSubscription)
		subscription.GET("/renewals", cfg.SubscriptionHandler.ListRenewals)
		subscription.POST("/renewals",
			cfg.SubmitRateLimit.LimitByUser(),
			cfg.SubscriptionHandler.SubmitRenewal,
		)
	}
}
