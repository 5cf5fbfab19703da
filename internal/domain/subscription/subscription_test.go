package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// --- helpers ---

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTrial(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewTrialSubscription(10, 20, "sub_test123", t0, 30)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

func reconstruct(t *testing.T, status vo.SubscriptionStatus, start, end time.Time) *Subscription {
	t.Helper()
	sub, err := ReconstructSubscription(SubscriptionReconstructParams{
		ID:        1,
		SID:       "sub_test123",
		UserID:    10,
		SiteID:    20,
		Status:    status,
		StartDate: start,
		EndDate:   end,
		Version:   1,
		CreatedAt: start,
		UpdatedAt: start,
	})
	require.NoError(t, err)
	return sub
}

// --- creation ---

func TestNewTrialSubscription(t *testing.T) {
	sub := newTrial(t)

	assert.Equal(t, vo.StatusTrial, sub.Status())
	assert.Equal(t, t0, sub.StartDate())
	assert.Equal(t, t0.Add(30*24*time.Hour), sub.EndDate())
	assert.Nil(t, sub.Plan())
	assert.Nil(t, sub.AmountPaid())
}

func TestNewTrialSubscription_Validation(t *testing.T) {
	_, err := NewTrialSubscription(0, 20, "sub_x", t0, 30)
	assert.Error(t, err)

	_, err = NewTrialSubscription(10, 0, "sub_x", t0, 30)
	assert.Error(t, err)

	_, err = NewTrialSubscription(10, 20, "", t0, 30)
	assert.Error(t, err)

	_, err = NewTrialSubscription(10, 20, "sub_x", t0, 0)
	assert.Error(t, err)
}

// --- renewal ---

func TestRenew_ExtendsFromFutureEndDate(t *testing.T) {
	// Subscription still valid for 10 more days; renewal stacks on top.
	end := t0.Add(10 * 24 * time.Hour)
	sub := reconstruct(t, vo.StatusActive, t0, end)

	require.NoError(t, sub.Renew(vo.PlanMonthly, 150, t0))

	assert.Equal(t, end.Add(30*24*time.Hour), sub.EndDate())
	assert.Equal(t, vo.StatusActive, sub.Status())
	require.NotNil(t, sub.AmountPaid())
	assert.Equal(t, int64(150), *sub.AmountPaid())
}

func TestRenew_ExtendsFromNowWhenLapsed(t *testing.T) {
	// Term lapsed 5 days ago; the new term starts from now, not the stale end.
	end := t0.Add(5 * 24 * time.Hour)
	now := t0.Add(10 * 24 * time.Hour)
	sub := reconstruct(t, vo.StatusExpired, t0, end)

	require.NoError(t, sub.Renew(vo.PlanMonthly, 150, now))

	assert.Equal(t, now.Add(30*24*time.Hour), sub.EndDate())
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestRenew_EndDateMonotonic(t *testing.T) {
	sub := newTrial(t)
	prev := sub.EndDate()

	for _, plan := range []vo.Plan{vo.PlanMonthly, vo.PlanAnnual, vo.PlanSemiAnnual} {
		require.NoError(t, sub.Renew(plan, plan.Price(), t0))
		assert.True(t, !sub.EndDate().Before(prev), "end date must never shrink")
		prev = sub.EndDate()
	}
}

func TestRenew_RevivesExpiredStatus(t *testing.T) {
	sub := reconstruct(t, vo.StatusExpired, t0, t0.Add(24*time.Hour))

	require.NoError(t, sub.Renew(vo.PlanAnnual, 1500, t0.Add(48*time.Hour)))
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestRenew_RejectsCancelled(t *testing.T) {
	sub := reconstruct(t, vo.StatusCancelled, t0, t0.Add(24*time.Hour))

	err := sub.Renew(vo.PlanMonthly, 150, t0)
	assert.ErrorIs(t, err, ErrSubscriptionCancelled)
}

func TestRenew_RejectsInvalidPlan(t *testing.T) {
	sub := newTrial(t)

	err := sub.Renew(vo.Plan("weekly"), 10, t0)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

// --- expiry ---

func TestMarkAsExpired(t *testing.T) {
	sub := newTrial(t)

	require.NoError(t, sub.MarkAsExpired(t0.Add(31*24*time.Hour)))
	assert.Equal(t, vo.StatusExpired, sub.Status())

	// Idempotent
	require.NoError(t, sub.MarkAsExpired(t0.Add(32*24*time.Hour)))
	assert.Equal(t, vo.StatusExpired, sub.Status())
}

func TestMarkAsExpired_RejectsCancelled(t *testing.T) {
	sub := reconstruct(t, vo.StatusCancelled, t0, t0.Add(24*time.Hour))

	err := sub.MarkAsExpired(t0.Add(48 * time.Hour))
	assert.Error(t, err)
}

// --- validity is derived from the end date, not the cached status ---

func TestIsValidAt_IgnoresStaleStatus(t *testing.T) {
	end := t0.Add(30 * 24 * time.Hour)

	// Status says active but the term lapsed: invalid.
	stale := reconstruct(t, vo.StatusActive, t0, end)
	assert.False(t, stale.IsValidAt(end.Add(time.Second)))
	assert.Equal(t, vo.StatusExpired, stale.EffectiveStatusAt(end.Add(time.Second)))

	// Status says expired but the term was just extended: valid.
	revived := reconstruct(t, vo.StatusExpired, t0, end)
	assert.True(t, revived.IsValidAt(end.Add(-time.Second)))
}

func TestIsValidAt_BoundaryInclusive(t *testing.T) {
	end := t0.Add(30 * 24 * time.Hour)
	sub := reconstruct(t, vo.StatusTrial, t0, end)

	assert.True(t, sub.IsValidAt(end))
	assert.False(t, sub.IsValidAt(end.Add(time.Nanosecond)))
}

func TestIsValidAt_CancelledNeverValid(t *testing.T) {
	sub := reconstruct(t, vo.StatusCancelled, t0, t0.Add(365*24*time.Hour))
	assert.False(t, sub.IsValidAt(t0))
}

func TestTrialExpiresAfterThirtyDays(t *testing.T) {
	sub := newTrial(t)

	at31d := t0.Add(31 * 24 * time.Hour)
	assert.False(t, sub.IsValidAt(at31d))
	assert.Equal(t, vo.StatusExpired, sub.EffectiveStatusAt(at31d))
}

// --- cancel ---

func TestCancel(t *testing.T) {
	sub := newTrial(t)

	require.NoError(t, sub.Cancel(t0.Add(time.Hour)))
	assert.Equal(t, vo.StatusCancelled, sub.Status())

	// Idempotent
	require.NoError(t, sub.Cancel(t0.Add(2*time.Hour)))

	// Terminal: cannot renew or expire afterwards
	assert.Error(t, sub.Renew(vo.PlanMonthly, 150, t0))
	assert.Error(t, sub.MarkAsExpired(t0))
}
