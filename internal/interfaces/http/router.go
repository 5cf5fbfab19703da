// Package http wires the HTTP surface: repositories, use cases,
// middleware and routes.
package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	siteUsecases "github.com/loam-dev/loam/internal/application/site/usecases"
	subscriptionUsecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
	"github.com/loam-dev/loam/internal/infrastructure/auth"
	"github.com/loam-dev/loam/internal/infrastructure/config"
	"github.com/loam-dev/loam/internal/infrastructure/email"
	"github.com/loam-dev/loam/internal/infrastructure/ratelimit"
	"github.com/loam-dev/loam/internal/infrastructure/repository"
	"github.com/loam-dev/loam/internal/interfaces/http/handlers"
	"github.com/loam-dev/loam/internal/interfaces/http/middleware"
	"github.com/loam-dev/loam/internal/interfaces/http/routes"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// Router holds the configured engine together with the pieces the
// server command needs outside the request path.
type Router struct {
	engine           *gin.Engine
	sweepAndNotifyUC *subscriptionUsecases.SweepAndNotifyUseCase

	siteHandler         *handlers.SiteHandler
	subscriptionHandler *handlers.SubscriptionHandler
	adminHandler        *handlers.AdminSubscriptionHandler
	dashboardHandler    *handlers.DashboardHandler

	authMiddleware  *middleware.AuthMiddleware
	accessGate      *middleware.AccessGateMiddleware
	submitRateLimit *middleware.SubmitRateLimitMiddleware

	cfg *config.Config
	log logger.Interface
}

// NewRouter builds the full dependency graph for the HTTP surface.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	clock := biztime.SystemClock()

	siteRepo := repository.NewSiteRepository(db, log)
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	requestRepo := repository.NewRenewalRequestRepository(db, log)
	recordRepo := repository.NewNotificationRecordRepository(db, log)

	resolver, err := email.NewTemplateResolver(cfg.Email.RecipientTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient template: %w", err)
	}
	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Email.BaseURL,
	}, resolver, log)

	createTrialUC := subscriptionUsecases.NewCreateTrialUseCase(subscriptionRepo, clock, cfg.Subscription.TrialDays, log)
	evaluateValidityUC := subscriptionUsecases.NewEvaluateValidityUseCase(siteRepo, subscriptionRepo, clock, log)
	applyRenewalUC := subscriptionUsecases.NewApplyRenewalUseCase(siteRepo, subscriptionRepo, clock, log)
	submitRequestUC := subscriptionUsecases.NewSubmitRequestUseCase(siteRepo, subscriptionRepo, requestRepo, clock, log)
	approveRequestUC := subscriptionUsecases.NewApproveRequestUseCase(requestRepo, applyRenewalUC, clock, log)
	rejectRequestUC := subscriptionUsecases.NewRejectRequestUseCase(requestRepo, clock, log)
	listRequestsUC := subscriptionUsecases.NewListRequestsUseCase(siteRepo, requestRepo, log)
	listSubscriptionsUC := subscriptionUsecases.NewListSubscriptionsUseCase(subscriptionRepo, log)
	cancelUC := subscriptionUsecases.NewCancelSubscriptionUseCase(subscriptionRepo, clock, log)
	sweepExpiredUC := subscriptionUsecases.NewSweepExpiredUseCase(subscriptionRepo, clock, log)
	sweepAndNotifyUC := subscriptionUsecases.NewSweepAndNotifyUseCase(
		sweepExpiredUC, subscriptionRepo, recordRepo, notifier, clock,
		cfg.Subscription.WarningWindowDays, log,
	)

	createSiteUC := siteUsecases.NewCreateSiteUseCase(siteRepo, createTrialUC, clock, log)
	getSiteUC := siteUsecases.NewGetSiteUseCase(siteRepo, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	accessGate := middleware.NewAccessGateMiddleware(evaluateValidityUC, log)

	limiter := ratelimit.NewRedisRateLimiter(redisClient)
	submitRateLimit := middleware.NewSubmitRateLimitMiddleware(limiter, ratelimit.RateLimitConfig{
		Requests: cfg.Subscription.SubmitRateLimit,
		Window:   time.Duration(cfg.Subscription.SubmitRateWindowS) * time.Second,
	}, log)

	return &Router{
		engine:           engine,
		sweepAndNotifyUC: sweepAndNotifyUC,

		siteHandler:         handlers.NewSiteHandler(createSiteUC, getSiteUC, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(evaluateValidityUC, submitRequestUC, listRequestsUC, log),
		adminHandler: handlers.NewAdminSubscriptionHandler(
			listRequestsUC, approveRequestUC, rejectRequestUC,
			listSubscriptionsUC, cancelUC, sweepAndNotifyUC, log,
		),
		dashboardHandler: handlers.NewDashboardHandler(getSiteUC, log),

		authMiddleware:  authMiddleware,
		accessGate:      accessGate,
		submitRateLimit: submitRateLimit,

		cfg: cfg,
		log: log,
	}, nil
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.ErrorHandler())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "", gin.H{"status": "ok"})
	})

	routes.SetupSiteRoutes(r.engine, &routes.SiteRouteConfig{
		SiteHandler:    r.siteHandler,
		AuthMiddleware: r.authMiddleware,
	})

	routes.SetupSubscriptionRoutes(r.engine, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: r.subscriptionHandler,
		AuthMiddleware:      r.authMiddleware,
		SubmitRateLimit:     r.submitRateLimit,
	})

	routes.SetupDashboardRoutes(r.engine, &routes.DashboardRouteConfig{
		DashboardHandler: r.dashboardHandler,
		AuthMiddleware:   r.authMiddleware,
		AccessGate:       r.accessGate,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		AdminHandler:   r.adminHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// SweepAndNotifyUseCase exposes the sweep pipeline for the scheduler.
func (r *Router) SweepAndNotifyUseCase() *subscriptionUsecases.SweepAndNotifyUseCase {
	return r.sweepAndNotifyUC
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// registerValidators adds the custom binding validators.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine")
	}

	return v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		_, err := vo.NewPlan(fl.Field().String())
		return err == nil
	})
}
