package usecases

import (
	"context"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// GetSiteUseCase resolves the site owned by a user.
type GetSiteUseCase struct {
	siteRepo site.Repository
	logger   logger.Interface
}

func NewGetSiteUseCase(siteRepo site.Repository, logger logger.Interface) *GetSiteUseCase {
	return &GetSiteUseCase{siteRepo: siteRepo, logger: logger}
}

func (uc *GetSiteUseCase) Execute(ctx context.Context, userID uint) (*site.Site, error) {
	ownedSite, err := uc.siteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ownedSite == nil {
		return nil, site.ErrSiteNotFound
	}
	return ownedSite, nil
}
