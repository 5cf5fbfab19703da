package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	siteUsecases "github.com/loam-dev/loam/internal/application/site/usecases"
	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// DashboardHandler serves the gated tenant area. Everything under it
// sits behind the access gate, so reaching these handlers already
// implies a valid subscription.
type DashboardHandler struct {
	getSiteUC *siteUsecases.GetSiteUseCase
	logger    logger.Interface
}

func NewDashboardHandler(
	getSiteUC *siteUsecases.GetSiteUseCase,
	logger logger.Interface,
) *DashboardHandler {
	return &DashboardHandler{
		getSiteUC: getSiteUC,
		logger:    logger,
	}
}

// GetDashboard returns the tenant's site overview.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	ownedSite, err := h.getSiteUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to load site for dashboard", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"site": dto.FromSite(ownedSite),
	})
}
