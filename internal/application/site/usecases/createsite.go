package usecases

import (
	"context"
	"fmt"

	subusecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/id"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// CreateSiteCommand carries the input for site provisioning.
type CreateSiteCommand struct {
	UserID uint
	Name   string
	Slug   string
}

// CreateSiteResult bundles the new site with its trial subscription.
type CreateSiteResult struct {
	Site         *site.Site
	Subscription *subscription.Subscription
}

// CreateSiteUseCase provisions a tenant's site and issues its trial
// subscription in the same operation. If the trial creation fails the
// site is kept; the user lands on onboarding until a retry succeeds.
type CreateSiteUseCase struct {
	siteRepo    site.Repository
	createTrial *subusecases.CreateTrialUseCase
	clock       biztime.Clock
	logger      logger.Interface
}

func NewCreateSiteUseCase(
	siteRepo site.Repository,
	createTrial *subusecases.CreateTrialUseCase,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateSiteUseCase {
	return &CreateSiteUseCase{
		siteRepo:    siteRepo,
		createTrial: createTrial,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *CreateSiteUseCase) Execute(ctx context.Context, cmd CreateSiteCommand) (*CreateSiteResult, error) {
	existing, err := uc.siteRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing site: %w", err)
	}
	if existing != nil {
		return nil, site.ErrSiteExists
	}

	taken, err := uc.siteRepo.ExistsBySlug(ctx, cmd.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("slug %q is already taken", cmd.Slug)
	}

	sid, err := id.GenerateWithPrefix(id.PrefixSite, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate site ID: %w", err)
	}

	newSite, err := site.NewSite(cmd.UserID, sid, cmd.Name, cmd.Slug, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.siteRepo.Create(ctx, newSite); err != nil {
		return nil, err
	}

	sub, err := uc.createTrial.Execute(ctx, subusecases.CreateTrialCommand{
		UserID: cmd.UserID,
		SiteID: newSite.ID(),
	})
	if err != nil {
		// Site stays; the next validity check reports no-subscription and
		// routes the user back through onboarding.
		uc.logger.Errorw("trial creation failed after site provisioning",
			"site_sid", newSite.SID(), "error", err)
		return nil, err
	}

	uc.logger.Infow("site created",
		"site_sid", newSite.SID(),
		"slug", newSite.Slug(),
		"user_id", cmd.UserID,
	)

	return &CreateSiteResult{Site: newSite, Subscription: sub}, nil
}
