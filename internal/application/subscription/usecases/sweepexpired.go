package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// SweepExpiredUseCase reconciles the cached status column with reality:
// every subscription whose term lapsed gets its status flipped to
// expired in one batch statement. The flip is cosmetic as far as access
// is concerned (validity is derived from the end date), so running the
// sweep late or twice never changes who can log in.
type SweepExpiredUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewSweepExpiredUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *SweepExpiredUseCase {
	return &SweepExpiredUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

// Execute flips lapsed subscriptions to expired and returns the rows it
// found newly lapsed before the flip, so callers can notify their owners.
func (uc *SweepExpiredUseCase) Execute(ctx context.Context) ([]*subscription.Subscription, int64, error) {
	now := uc.clock.Now()

	lapsed, err := uc.subscriptionRepo.FindNewlyLapsed(ctx, now)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
	}

	count, err := uc.subscriptionRepo.MarkExpiredBefore(ctx, now)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to mark expired subscriptions: %w", err)
	}

	if count > 0 {
		uc.logger.Infow("expiry sweep completed", "expired_count", count)
	}

	return lapsed, count, nil
}
