package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/interfaces/http/handlers"
	"github.com/loam-dev/loam/internal/interfaces/http/middleware"
)

// SiteRouteConfig holds dependencies for site routes.
type SiteRouteConfig struct {
	SiteHandler    *handlers.SiteHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupSiteRoutes configures site provisioning routes. Site creation
// and lookup stay reachable for tenants without a valid subscription,
// otherwise onboarding could never complete.
func SetupSiteRoutes(engine *gin.Engine, cfg *SiteRouteConfig) {
	sites := engine.Group("/api/sites")
	sites.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sites.POST("", cfg.SiteHandler.CreateSite)
	}

	site := engine.Group("/api/site")
	site.Use(cfg.AuthMiddleware.RequireAuth())
	{
		site.GET("", cfg.SiteHandler.GetSite)
	}
}
