package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/constants"
	"github.com/loam-dev/loam/internal/shared/logger"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// EvaluateValidityUseCase is the single authority on whether a user's
// subscription grants access right now. The answer is always derived
// from "now vs end date"; the cached status column is never consulted
// for the decision, only reported.
type EvaluateValidityUseCase struct {
	siteRepo         site.Repository
	subscriptionRepo subscription.SubscriptionRepository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewEvaluateValidityUseCase(
	siteRepo site.Repository,
	subscriptionRepo subscription.SubscriptionRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *EvaluateValidityUseCase {
	return &EvaluateValidityUseCase{
		siteRepo:         siteRepo,
		subscriptionRepo: subscriptionRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (uc *EvaluateValidityUseCase) Execute(ctx context.Context, userID uint) (*dto.ValidityResult, error) {
	ownedSite, err := uc.siteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site: %w", err)
	}
	if ownedSite == nil {
		return &dto.ValidityResult{
			IsValid:  false,
			Status:   dto.ValidityNoSubscription,
			Redirect: constants.RedirectOnboarding,
		}, nil
	}

	sub, err := uc.subscriptionRepo.GetBySiteID(ctx, ownedSite.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return &dto.ValidityResult{
			IsValid:  false,
			Status:   dto.ValidityNoSubscription,
			Site:     dto.FromSite(ownedSite),
			Redirect: constants.RedirectOnboarding,
		}, nil
	}

	now := uc.clock.Now()
	result := &dto.ValidityResult{
		IsValid:      sub.IsValidAt(now),
		Site:         dto.FromSite(ownedSite),
		Subscription: dto.FromSubscription(sub, now),
	}

	switch sub.EffectiveStatusAt(now) {
	case vo.StatusTrial:
		result.Status = dto.ValidityTrial
	case vo.StatusActive:
		result.Status = dto.ValidityActive
	default:
		result.Status = dto.ValidityExpired
		result.Redirect = constants.RedirectSubscription
	}

	return result, nil
}
