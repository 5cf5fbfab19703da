package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	siteUsecases "github.com/loam-dev/loam/internal/application/site/usecases"
	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// SiteHandler handles tenant site provisioning and lookup.
type SiteHandler struct {
	createUseCase *siteUsecases.CreateSiteUseCase
	getUseCase    *siteUsecases.GetSiteUseCase
	logger        logger.Interface
}

func NewSiteHandler(
	createUC *siteUsecases.CreateSiteUseCase,
	getUC *siteUsecases.GetSiteUseCase,
	logger logger.Interface,
) *SiteHandler {
	return &SiteHandler{
		createUseCase: createUC,
		getUseCase:    getUC,
		logger:        logger,
	}
}

// CreateSiteRequest represents the request to provision a site
type CreateSiteRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Slug string `json:"slug" binding:"required,min=3,max=63,lowercase"`
}

// CreateSiteResponse bundles the new site with its trial subscription
type CreateSiteResponse struct {
	Site         *dto.SiteDTO         `json:"site"`
	Subscription *dto.SubscriptionDTO `json:"subscription"`
}

func (h *SiteHandler) CreateSite(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create site", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: name and slug are required")
		return
	}

	cmd := siteUsecases.CreateSiteCommand{
		UserID: userID,
		Name:   req.Name,
		Slug:   req.Slug,
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create site", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, CreateSiteResponse{
		Site:         dto.FromSite(result.Site),
		Subscription: dto.FromSubscription(result.Subscription, biztime.NowUTC()),
	}, "Site created successfully")
}

func (h *SiteHandler) GetSite(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	ownedSite, err := h.getUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.FromSite(ownedSite))
}
