package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/id"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// AdminSubscriptionHandler handles the admin review queue and
// subscription overview.
type AdminSubscriptionHandler struct {
	listRequestsUC      *usecases.ListRequestsUseCase
	approveRequestUC    *usecases.ApproveRequestUseCase
	rejectRequestUC     *usecases.RejectRequestUseCase
	listSubscriptionsUC *usecases.ListSubscriptionsUseCase
	cancelUC            *usecases.CancelSubscriptionUseCase
	sweepAndNotifyUC    *usecases.SweepAndNotifyUseCase
	logger              logger.Interface
}

func NewAdminSubscriptionHandler(
	listRequestsUC *usecases.ListRequestsUseCase,
	approveRequestUC *usecases.ApproveRequestUseCase,
	rejectRequestUC *usecases.RejectRequestUseCase,
	listSubscriptionsUC *usecases.ListSubscriptionsUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	sweepAndNotifyUC *usecases.SweepAndNotifyUseCase,
	logger logger.Interface,
) *AdminSubscriptionHandler {
	return &AdminSubscriptionHandler{
		listRequestsUC:      listRequestsUC,
		approveRequestUC:    approveRequestUC,
		rejectRequestUC:     rejectRequestUC,
		listSubscriptionsUC: listSubscriptionsUC,
		cancelUC:            cancelUC,
		sweepAndNotifyUC:    sweepAndNotifyUC,
		logger:              logger,
	}
}

// RejectRenewalRequest carries the mandatory rejection reason
type RejectRenewalRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ApproveRenewalResponse bundles the decided request with the extended subscription
type ApproveRenewalResponse struct {
	Request      *dto.RequestDTO      `json:"request"`
	Subscription *dto.SubscriptionDTO `json:"subscription"`
}

// ListRenewalRequests serves the admin review queue.
func (h *AdminSubscriptionHandler) ListRenewalRequests(c *gin.Context) {
	query := usecases.ListRequestsQuery{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	requests, total, err := h.listRequestsUC.Execute(c.Request.Context(), query)
	if err != nil {
		h.logger.Errorw("failed to list renewal requests", "error", err)
		respondError(c, err)
		return
	}

	items := make([]*dto.RequestDTO, 0, len(requests))
	for _, r := range requests {
		items = append(items, dto.FromRequest(r))
	}

	utils.ListSuccessResponse(c, items, total, query.Page, query.PageSize)
}

// ApproveRenewalRequest adjudicates a pending request as approved and
// extends the subscription term.
func (h *AdminSubscriptionHandler) ApproveRenewalRequest(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixRequest, "renewal request")
	if err != nil {
		respondError(c, err)
		return
	}

	approverID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	result, err := h.approveRequestUC.Execute(c.Request.Context(), usecases.ApproveRequestCommand{
		RequestSID: sid,
		ApproverID: approverID,
	})
	if err != nil {
		h.logger.Warnw("failed to approve renewal request",
			"error", err,
			"request_id", sid,
			"approver_id", approverID,
		)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Renewal request approved", ApproveRenewalResponse{
		Request:      dto.FromRequest(result.Request),
		Subscription: dto.FromSubscription(result.Subscription, biztime.NowUTC()),
	})
}

// RejectRenewalRequest adjudicates a pending request as rejected. The
// subscription is left untouched.
func (h *AdminSubscriptionHandler) RejectRenewalRequest(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixRequest, "renewal request")
	if err != nil {
		respondError(c, err)
		return
	}

	approverID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req RejectRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "rejection reason is required")
		return
	}

	request, err := h.rejectRequestUC.Execute(c.Request.Context(), usecases.RejectRequestCommand{
		RequestSID: sid,
		ApproverID: approverID,
		Reason:     req.Reason,
	})
	if err != nil {
		h.logger.Warnw("failed to reject renewal request",
			"error", err,
			"request_id", sid,
			"approver_id", approverID,
		)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Renewal request rejected", dto.FromRequest(request))
}

// ListSubscriptions serves the admin subscription overview.
func (h *AdminSubscriptionHandler) ListSubscriptions(c *gin.Context) {
	query := usecases.ListSubscriptionsQuery{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	subs, total, err := h.listSubscriptionsUC.Execute(c.Request.Context(), query)
	if err != nil {
		h.logger.Errorw("failed to list subscriptions", "error", err)
		respondError(c, err)
		return
	}

	now := biztime.NowUTC()
	items := make([]*dto.SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		items = append(items, dto.FromSubscription(s, now))
	}

	utils.ListSuccessResponse(c, items, total, query.Page, query.PageSize)
}

// CancelSubscription puts a subscription into its terminal state.
func (h *AdminSubscriptionHandler) CancelSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscription, "subscription")
	if err != nil {
		respondError(c, err)
		return
	}

	sub, err := h.cancelUC.Execute(c.Request.Context(), sid)
	if err != nil {
		h.logger.Warnw("failed to cancel subscription", "error", err, "subscription_id", sid)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", dto.FromSubscription(sub, biztime.NowUTC()))
}

// TriggerSweep runs the expiry sweep immediately instead of waiting for
// the scheduler tick.
func (h *AdminSubscriptionHandler) TriggerSweep(c *gin.Context) {
	report, err := h.sweepAndNotifyUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("manual sweep failed", "error", err)
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sweep completed", report)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
