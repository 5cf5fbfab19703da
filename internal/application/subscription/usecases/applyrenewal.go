package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// ApplyRenewalCommand carries the input for a term extension.
type ApplyRenewalCommand struct {
	UserID     uint
	Plan       string
	AmountPaid int64
}

// ApplyRenewalUseCase extends a subscription's term by one plan
// duration. The extension itself is a single conditional update in the
// repository, so a concurrent sweep can never shorten the resulting
// term or leave the row expired.
type ApplyRenewalUseCase struct {
	siteRepo         site.Repository
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewApplyRenewalUseCase(
	siteRepo site.Repository,
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *ApplyRenewalUseCase {
	return &ApplyRenewalUseCase{
		siteRepo:         siteRepo,
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *ApplyRenewalUseCase) Execute(ctx context.Context, cmd ApplyRenewalCommand) (*subscription.Subscription, error) {
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

	updated, err := uc.subscriptionRepo.ExtendTerm(ctx, sub.ID(), plan, cmd.AmountPaid, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription renewed",
		"subscription_sid", updated.SID(),
		"plan", plan.String(),
		"amount_paid", cmd.AmountPaid,
		"end_date", updated.EndDate(),
	)

	return updated, nil
}
