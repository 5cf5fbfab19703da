package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subusecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/application/subscription/testutil"
	"github.com/loam-dev/loam/internal/domain/site"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

func newCreateSite(t *testing.T) (*CreateSiteUseCase, *testutil.FakeClock) {
	t.Helper()

	clock := testutil.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	siteRepo := testutil.NewInMemorySiteRepo()
	subRepo := testutil.NewInMemorySubscriptionRepo()
	log := testutil.NopLogger{}

	createTrial := subusecases.NewCreateTrialUseCase(subRepo, clock, 30, log)
	return NewCreateSiteUseCase(siteRepo, createTrial, clock, log), clock
}

func TestCreateSite_IssuesTrial(t *testing.T) {
	uc, clock := newCreateSite(t)

	result, err := uc.Execute(context.Background(), CreateSiteCommand{
		UserID: 10, Name: "My Blog", Slug: "my-blog",
	})
	require.NoError(t, err)

	assert.Equal(t, "my-blog", result.Site.Slug())
	require.NotNil(t, result.Subscription)
	assert.Equal(t, vo.StatusTrial, result.Subscription.Status())
	assert.Equal(t, clock.Now().Add(30*24*time.Hour), result.Subscription.EndDate())
	assert.Equal(t, result.Site.ID(), result.Subscription.SiteID())
}

func TestCreateSite_OnePerUser(t *testing.T) {
	uc, _ := newCreateSite(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateSiteCommand{UserID: 10, Name: "First", Slug: "first"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, CreateSiteCommand{UserID: 10, Name: "Second", Slug: "second"})
	assert.ErrorIs(t, err, site.ErrSiteExists)
}

func TestCreateSite_SlugTaken(t *testing.T) {
	uc, _ := newCreateSite(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateSiteCommand{UserID: 10, Name: "First", Slug: "shared"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, CreateSiteCommand{UserID: 11, Name: "Second", Slug: "shared"})
	assert.Error(t, err)
}
