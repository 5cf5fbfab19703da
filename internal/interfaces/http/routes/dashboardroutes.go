package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/interfaces/http/handlers"
	"github.com/loam-dev/loam/internal/interfaces/http/middleware"
)

// DashboardRouteConfig holds dependencies for the gated tenant area.
type DashboardRouteConfig struct {
	DashboardHandler *handlers.DashboardHandler
	AuthMiddleware   *middleware.AuthMiddleware
	AccessGate       *middleware.AccessGateMiddleware
}

// SetupDashboardRoutes configures the tenant routes that sit behind
// the subscription access gate.
func SetupDashboardRoutes(engine *gin.Engine, cfg *DashboardRouteConfig) {
	dashboard := engine.Group("/api/dashboard")
	dashboard.Use(cfg.AuthMiddleware.RequireAuth())
	dashboard.Use(cfg.AccessGate.RequireValidSubscription())
	{
		dashboard.GET("", cfg.DashboardHandler.GetDashboard)
	}
}
