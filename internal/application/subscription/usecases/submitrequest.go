package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/id"
	"github.com/loam-dev/loam/internal/shared/logger"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// SubmitRequestCommand carries the tenant's renewal claim.
type SubmitRequestCommand struct {
	UserID        uint
	Plan          string
	Amount        int64
	PaymentMethod string
	Phone         string
	Metadata      map[string]string
}

// SubmitRequestUseCase records a tenant's claim of an out-of-band
// payment for admin adjudication. One pending request per site at a
// time; submitting while one is open fails with
// ErrDuplicatePendingExists.
type SubmitRequestUseCase struct {
	siteRepo         site.Repository
	subscriptionRepo subscription.SubscriptionRepository
	requestRepo      subscription.RenewalRequestRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewSubmitRequestUseCase(
	siteRepo site.Repository,
	subscriptionRepo subscription.SubscriptionRepository,
	requestRepo subscription.RenewalRequestRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *SubmitRequestUseCase {
	return &SubmitRequestUseCase{
		siteRepo:         siteRepo,
		subscriptionRepo: subscriptionRepo,
		requestRepo:      requestRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *SubmitRequestUseCase) Execute(ctx context.Context, cmd SubmitRequestCommand) (*subscription.RenewalRequest, error) {
	plan, err := vo.NewPlan(cmd.Plan)
	if err != nil {
		return nil, err
	}

	ownedSite, err := uc.siteRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site: %w", err)
	}
	if ownedSite == nil {
		return nil, site.ErrSiteNotFound
	}

	sub, err := uc.subscriptionRepo.GetBySiteID(ctx, ownedSite.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, subscription.ErrSubscriptionNotFound
	}
	if sub.Status() == vo.StatusCancelled {
		return nil, subscription.ErrSubscriptionCancelled
	}

	pending, err := uc.requestRepo.HasPendingBySiteID(ctx, ownedSite.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, subscription.ErrDuplicatePendingExists
	}

	sid, err := id.GenerateWithPrefix(id.PrefixRequest, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate request ID: %w", err)
	}

	request, err := subscription.NewRenewalRequest(
		cmd.UserID, ownedSite.ID(), sid, plan, cmd.Amount,
		cmd.PaymentMethod, cmd.Phone, uc.clock.Now(),
	)
	if err != nil {
		return nil, err
	}
	if len(cmd.Metadata) > 0 {
		request.AttachMetadata(cmd.Metadata)
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	uc.logger.Infow("renewal request submitted",
		"request_sid", request.SID(),
		"site_id", ownedSite.ID(),
		"plan", plan.String(),
		"amount", cmd.Amount,
	)

	return request, nil
}
