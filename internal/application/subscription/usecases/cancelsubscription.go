package usecases

import (
	"context"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// CancelSubscriptionUseCase permanently ends a subscription. Admin-only
// surface; cancelled is terminal and no renewal can revive it.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, sid string) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, subscription.ErrSubscriptionNotFound
	}

	if err := sub.Cancel(uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription cancelled", "subscription_sid", sub.SID())

	return sub, nil
}
