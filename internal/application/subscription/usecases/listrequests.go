package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// ListRequestsQuery carries admin-side listing filters.
type ListRequestsQuery struct {
	Status   *string
	SiteID   *uint
	Page     int
	PageSize int
}

// ListRequestsUseCase serves both the admin queue and a tenant's own
// request history.
type ListRequestsUseCase struct {
	siteRepo    site.Repository
	requestRepo subscription.RenewalRequestRepository
	logger      logger.Interface
}

func NewListRequestsUseCase(
	siteRepo site.Repository,
	requestRepo subscription.RenewalRequestRepository,
	logger logger.Interface,
) *ListRequestsUseCase {
	return &ListRequestsUseCase{
		siteRepo:    siteRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// Execute lists requests across all sites, newest first.
func (uc *ListRequestsUseCase) Execute(ctx context.Context, query ListRequestsQuery) ([]*subscription.RenewalRequest, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	return uc.requestRepo.List(ctx, subscription.RequestFilter{
		Status:   query.Status,
		SiteID:   query.SiteID,
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   "created_at",
		SortDesc: true,
	})
}

// ExecuteForUser lists the requests belonging to the user's own site.
func (uc *ListRequestsUseCase) ExecuteForUser(ctx context.Context, userID uint) ([]*subscription.RenewalRequest, error) {
	ownedSite, err := uc.siteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site: %w", err)
	}
	if ownedSite == nil {
		return nil, site.ErrSiteNotFound
	}

	return uc.requestRepo.ListBySiteID(ctx, ownedSite.ID())
}
