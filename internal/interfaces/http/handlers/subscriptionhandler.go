package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/application/subscription/usecases"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// SubscriptionHandler handles the tenant-facing subscription surface.
type SubscriptionHandler struct {
	evaluateValidityUC *usecases.EvaluateValidityUseCase
	submitRequestUC    *usecases.SubmitRequestUseCase
	listRequestsUC     *usecases.ListRequestsUseCase
	logger             logger.Interface
}

func NewSubscriptionHandler(
	evaluateValidityUC *usecases.EvaluateValidityUseCase,
	submitRequestUC *usecases.SubmitRequestUseCase,
	listRequestsUC *usecases.ListRequestsUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		evaluateValidityUC: evaluateValidityUC,
		submitRequestUC:    submitRequestUC,
		listRequestsUC:     listRequestsUC,
		logger:             logger,
	}
}

// SubmitRenewalRequest represents a tenant's renewal claim
type SubmitRenewalRequest struct {
	Plan          string            `json:"plan" binding:"required,plan"`
	Amount        int64             `json:"amount" binding:"required,gt=0"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=bank_transfer mobile_money cash other"`
	Phone         string            `json:"phone" binding:"required,min=7,max=20"`
	Metadata      map[string]string `json:"metadata"`
}

// GetSubscription reports the caller's current subscription together
// with the authoritative validity verdict.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.evaluateValidityUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to evaluate subscription", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPlans returns the plan lookup table.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans := vo.AllPlans()
	items := make([]dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		items = append(items, dto.PlanDTO{
			Name:         p.String(),
			DurationDays: p.DurationDays(),
			Price:        p.Price(),
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// SubmitRenewal records the tenant's claim of an out-of-band payment.
func (h *SubscriptionHandler) SubmitRenewal(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req SubmitRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid renewal request body", "error", err, "user_id", userID)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: plan, amount, payment_method and phone are required")
		return
	}

	cmd := usecases.SubmitRequestCommand{
		UserID:        userID,
		Plan:          req.Plan,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Phone:         req.Phone,
		Metadata:      req.Metadata,
	}

	request, err := h.submitRequestUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("failed to submit renewal request", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.FromRequest(request), "Renewal request submitted")
}

// ListRenewals returns the caller's own renewal request history.
func (h *SubscriptionHandler) ListRenewals(c *gin.Context) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	requests, err := h.listRequestsUC.ExecuteForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list renewal requests", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	items := make([]*dto.RequestDTO, 0, len(requests))
	for _, r := range requests {
		items = append(items, dto.FromRequest(r))
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}
