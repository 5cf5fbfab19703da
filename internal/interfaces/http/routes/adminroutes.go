package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/interfaces/http/handlers"
	"github.com/loam-dev/loam/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin routes.
type AdminRouteConfig struct {
	AdminHandler   *handlers.AdminSubscriptionHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupAdminRoutes configures the admin review queue and subscription
// management routes.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.GET("/renewals", cfg.AdminHandler.ListRenewalRequests)
		admin.POST("/renewals/:id/approve", cfg.AdminHandler.ApproveRenewalRequest)
		admin.POST("/renewals/:id/reject", cfg.AdminHandler.RejectRenewalRequest)

		admin.GET("/subscriptions", cfg.AdminHandler.ListSubscriptions)
		admin.POST("/subscriptions/:id/cancel", cfg.AdminHandler.CancelSubscription)

		admin.POST("/sweep", cfg.AdminHandler.TriggerSweep)
	}
}
