package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/id"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// CreateTrialCommand carries the input for trial creation.
type CreateTrialCommand struct {
	UserID uint
	SiteID uint
}

// CreateTrialUseCase issues the free trial term at site creation.
// Idempotent at the storage level: the unique index on site_id makes a
// second create for the same site fail with ErrSubscriptionExists.
type CreateTrialUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	trialDays        int
	logger           logger.Interface
}

func NewCreateTrialUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	trialDays int,
	logger logger.Interface,
) *CreateTrialUseCase {
	return &CreateTrialUseCase{
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		trialDays:        trialDays,
		logger:           logger,
	}
}

func (uc *CreateTrialUseCase) Execute(ctx context.Context, cmd CreateTrialCommand) (*subscription.Subscription, error) {
	existing, err := uc.subscriptionRepo.GetBySiteID(ctx, cmd.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if existing != nil {
		return nil, subscription.ErrSubscriptionExists
	}

	sid, err := id.GenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription ID: %w", err)
	}

	sub, err := subscription.NewTrialSubscription(cmd.UserID, cmd.SiteID, sid, uc.clock.Now(), uc.trialDays)
	if err != nil {
		return nil, err
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	uc.logger.Infow("trial subscription created",
		"subscription_sid", sub.SID(),
		"site_id", cmd.SiteID,
		"user_id", cmd.UserID,
		"end_date", sub.EndDate(),
	)

	return sub, nil
}
