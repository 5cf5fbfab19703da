package usecases

import (
	"context"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// ListSubscriptionsQuery carries admin-side listing filters.
type ListSubscriptionsQuery struct {
	Status   *string
	UserID   *uint
	Page     int
	PageSize int
}

// ListSubscriptionsUseCase serves the admin subscription overview.
type ListSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewListSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, query ListSubscriptionsQuery) ([]*subscription.Subscription, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	return uc.subscriptionRepo.List(ctx, subscription.SubscriptionFilter{
		Status:   query.Status,
		UserID:   query.UserID,
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   "end_date",
		SortDesc: false,
	})
}
