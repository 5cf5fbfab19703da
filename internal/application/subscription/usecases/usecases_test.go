package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/application/subscription/testutil"
	"github.com/loam-dev/loam/internal/domain/notification"
	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

var startOfTerm = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const (
	trialDays      = 30
	warningDays    = 7
	tenantUserID   = uint(10)
	approverUserID = uint(99)
)

type fixture struct {
	clock    *testutil.FakeClock
	siteRepo *testutil.InMemorySiteRepo
	subRepo  *testutil.InMemorySubscriptionRepo
	reqRepo  *testutil.InMemoryRequestRepo
	recRepo  *testutil.InMemoryRecordRepo
	notifier *testutil.SpyNotifier

	createTrial    *CreateTrialUseCase
	evaluate       *EvaluateValidityUseCase
	applyRenewal   *ApplyRenewalUseCase
	submitRequest  *SubmitRequestUseCase
	approveRequest *ApproveRequestUseCase
	rejectRequest  *RejectRequestUseCase
	sweepExpired   *SweepExpiredUseCase
	sweepAndNotify *SweepAndNotifyUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:    testutil.NewFakeClock(startOfTerm),
		siteRepo: testutil.NewInMemorySiteRepo(),
		subRepo:  testutil.NewInMemorySubscriptionRepo(),
		reqRepo:  testutil.NewInMemoryRequestRepo(),
		recRepo:  testutil.NewInMemoryRecordRepo(),
		notifier: &testutil.SpyNotifier{},
	}
	log := testutil.NopLogger{}

	f.createTrial = NewCreateTrialUseCase(f.subRepo, f.clock, trialDays, log)
	f.evaluate = NewEvaluateValidityUseCase(f.siteRepo, f.subRepo, f.clock, log)
	f.applyRenewal = NewApplyRenewalUseCase(f.siteRepo, f.subRepo, f.clock, log)
	f.submitRequest = NewSubmitRequestUseCase(f.siteRepo, f.subRepo, f.reqRepo, f.clock, log)
	f.approveRequest = NewApproveRequestUseCase(f.reqRepo, f.applyRenewal, f.clock, log)
	f.rejectRequest = NewRejectRequestUseCase(f.reqRepo, f.clock, log)
	f.sweepExpired = NewSweepExpiredUseCase(f.subRepo, f.clock, log)
	f.sweepAndNotify = NewSweepAndNotifyUseCase(f.sweepExpired, f.subRepo, f.recRepo, f.notifier, f.clock, warningDays, log)

	return f
}

// provision creates a site for the tenant and issues its trial.
func (f *fixture) provision(t *testing.T) *subscription.Subscription {
	t.Helper()
	ctx := context.Background()

	newSite, err := site.NewSite(tenantUserID, "site_fixture0001", "Test Site", "test-site", f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.siteRepo.Create(ctx, newSite))

	sub, err := f.createTrial.Execute(ctx, CreateTrialCommand{UserID: tenantUserID, SiteID: newSite.ID()})
	require.NoError(t, err)
	return sub
}

func (f *fixture) submit(t *testing.T) *subscription.RenewalRequest {
	t.Helper()
	req, err := f.submitRequest.Execute(context.Background(), SubmitRequestCommand{
		UserID:        tenantUserID,
		Plan:          "monthly",
		Amount:        150,
		PaymentMethod: "bank-transfer",
		Phone:         "+15550100",
	})
	require.NoError(t, err)
	return req
}

// --- trial lifecycle ---

func TestTrialLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	assert.Equal(t, vo.StatusTrial, sub.Status())
	assert.Equal(t, startOfTerm.Add(trialDays*24*time.Hour), sub.EndDate())

	// Day 29: still inside the trial.
	f.clock.Set(startOfTerm.Add(29 * 24 * time.Hour))
	result, err := f.evaluate.Execute(ctx, tenantUserID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, dto.ValidityTrial, result.Status)
	assert.Empty(t, result.Redirect)

	// Day 31: lapsed, even though no sweep has run yet.
	f.clock.Set(startOfTerm.Add(31 * 24 * time.Hour))
	result, err = f.evaluate.Execute(ctx, tenantUserID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, dto.ValidityExpired, result.Status)
	assert.Equal(t, "/subscription", result.Redirect)
}

func TestCreateTrial_OnePerSite(t *testing.T) {
	f := newFixture(t)
	sub := f.provision(t)

	_, err := f.createTrial.Execute(context.Background(), CreateTrialCommand{UserID: tenantUserID, SiteID: sub.SiteID()})
	assert.ErrorIs(t, err, subscription.ErrSubscriptionExists)
}

func TestEvaluateValidity_NoSite(t *testing.T) {
	f := newFixture(t)

	result, err := f.evaluate.Execute(context.Background(), tenantUserID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, dto.ValidityNoSubscription, result.Status)
	assert.Equal(t, "/onboarding", result.Redirect)
}

// --- renewal ---

func TestApplyRenewal_StacksOnRemainingTerm(t *testing.T) {
	f := newFixture(t)
	sub := f.provision(t)
	trialEnd := sub.EndDate()

	// Renew mid-trial: the paid term starts where the trial ends.
	f.clock.Set(startOfTerm.Add(10 * 24 * time.Hour))
	updated, err := f.applyRenewal.Execute(context.Background(), ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "monthly", AmountPaid: 150,
	})
	require.NoError(t, err)

	assert.Equal(t, trialEnd.Add(30*24*time.Hour), updated.EndDate())
	assert.Equal(t, vo.StatusActive, updated.Status())
}

func TestApplyRenewal_RestartsFromNowWhenLapsed(t *testing.T) {
	f := newFixture(t)
	sub := f.provision(t)

	// 10 days after the trial lapsed.
	now := sub.EndDate().Add(10 * 24 * time.Hour)
	f.clock.Set(now)

	updated, err := f.applyRenewal.Execute(context.Background(), ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "annual", AmountPaid: 1500,
	})
	require.NoError(t, err)

	assert.Equal(t, now.Add(365*24*time.Hour), updated.EndDate())
	assert.Equal(t, vo.StatusActive, updated.Status())
}

func TestApplyRenewal_InvalidPlan(t *testing.T) {
	f := newFixture(t)
	f.provision(t)

	_, err := f.applyRenewal.Execute(context.Background(), ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "weekly", AmountPaid: 10,
	})
	assert.ErrorIs(t, err, subscription.ErrInvalidPlan)
}

func TestApplyRenewal_NoSubscription(t *testing.T) {
	f := newFixture(t)

	_, err := f.applyRenewal.Execute(context.Background(), ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "monthly", AmountPaid: 150,
	})
	assert.ErrorIs(t, err, site.ErrSiteNotFound)
}

// --- renewal request workflow ---

func TestRequestWorkflow_SubmitApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)
	trialEnd := sub.EndDate()

	req := f.submit(t)
	assert.Equal(t, vo.RequestPending, req.Status())

	// A second submission while one is pending is refused.
	_, err := f.submitRequest.Execute(ctx, SubmitRequestCommand{
		UserID: tenantUserID, Plan: "annual", Amount: 1500,
		PaymentMethod: "cash", Phone: "+15550100",
	})
	assert.ErrorIs(t, err, subscription.ErrDuplicatePendingExists)

	result, err := f.approveRequest.Execute(ctx, ApproveRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID,
	})
	require.NoError(t, err)

	assert.Equal(t, vo.RequestApproved, result.Request.Status())
	assert.Equal(t, trialEnd.Add(30*24*time.Hour), result.Subscription.EndDate())

	// The decision is terminal.
	_, err = f.approveRequest.Execute(ctx, ApproveRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID,
	})
	assert.ErrorIs(t, err, subscription.ErrRequestNotPending)

	// A new request may be submitted once the previous one is decided.
	f.submit(t)
}

func TestRequestWorkflow_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)
	trialEnd := sub.EndDate()

	req := f.submit(t)

	_, err := f.rejectRequest.Execute(ctx, RejectRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID, Reason: "",
	})
	assert.ErrorIs(t, err, subscription.ErrRejectReasonRequired)

	rejected, err := f.rejectRequest.Execute(ctx, RejectRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID, Reason: "payment not found",
	})
	require.NoError(t, err)
	assert.Equal(t, vo.RequestRejected, rejected.Status())

	// Rejection never touches the subscription.
	current, err := f.subRepo.GetBySiteID(ctx, sub.SiteID())
	require.NoError(t, err)
	assert.Equal(t, trialEnd, current.EndDate())

	// Terminal: cannot be approved afterwards.
	_, err = f.approveRequest.Execute(ctx, ApproveRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID,
	})
	assert.ErrorIs(t, err, subscription.ErrRequestNotPending)
}

func TestApprove_UnknownRequest(t *testing.T) {
	f := newFixture(t)
	f.provision(t)

	_, err := f.approveRequest.Execute(context.Background(), ApproveRequestCommand{
		RequestSID: "sreq_missing0000", ApproverID: approverUserID,
	})
	assert.ErrorIs(t, err, subscription.ErrRequestNotFound)
}

func TestApprove_ReopensOnExtensionFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.provision(t)
	req := f.submit(t)

	f.subRepo.ExtendTermErr = errors.New("connection reset")

	_, err := f.approveRequest.Execute(ctx, ApproveRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID,
	})
	require.Error(t, err)

	// The claim was compensated: the request is pending again and a
	// retry succeeds once storage recovers.
	stored, err := f.reqRepo.GetBySID(ctx, req.SID())
	require.NoError(t, err)
	assert.Equal(t, vo.RequestPending, stored.Status())

	f.subRepo.ExtendTermErr = nil
	_, err = f.approveRequest.Execute(ctx, ApproveRequestCommand{
		RequestSID: req.SID(), ApproverID: approverUserID,
	})
	require.NoError(t, err)
}

// --- sweep and notify ---

func TestSweep_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	f.clock.Set(sub.EndDate().Add(24 * time.Hour))

	_, count, err := f.sweepExpired.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Second run finds nothing left to flip.
	_, count, err = f.sweepExpired.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	stored, err := f.subRepo.GetBySiteID(ctx, sub.SiteID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, stored.Status())
}

func TestSweep_RenewalAfterSweepRevives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	now := sub.EndDate().Add(24 * time.Hour)
	f.clock.Set(now)

	_, _, err := f.sweepExpired.Execute(ctx)
	require.NoError(t, err)

	// Renewing a swept subscription starts a fresh term from now.
	updated, err := f.applyRenewal.Execute(ctx, ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "monthly", AmountPaid: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, updated.Status())
	assert.Equal(t, now.Add(30*24*time.Hour), updated.EndDate())

	result, err := f.evaluate.Execute(ctx, tenantUserID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestSweepAndNotify_ExpiredNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	f.clock.Set(sub.EndDate().Add(24 * time.Hour))

	report, err := f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ExpiredCount)
	assert.Equal(t, 1, report.NotifiedCount)

	require.Len(t, f.notifier.Calls, 1)
	assert.Equal(t, notification.KindExpired, f.notifier.Calls[0].Kind)
	assert.Equal(t, tenantUserID, f.notifier.Calls[0].UserID)

	// Re-running neither flips nor notifies again.
	report, err = f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.ExpiredCount)
	assert.Zero(t, report.NotifiedCount)
	assert.Len(t, f.notifier.Calls, 1)
}

func TestSweepAndNotify_WarningWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	// Three days before the end date: inside the 7-day warning window.
	f.clock.Set(sub.EndDate().Add(-3 * 24 * time.Hour))

	report, err := f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.ExpiredCount)
	assert.Equal(t, 1, report.NotifiedCount)
	require.Len(t, f.notifier.Calls, 1)
	assert.Equal(t, notification.KindExpiryWarning, f.notifier.Calls[0].Kind)

	// Next day, still in the window: already warned for this term.
	f.clock.Advance(24 * time.Hour)
	report, err = f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.NotifiedCount)
	assert.Len(t, f.notifier.Calls, 1)
}

func TestSweepAndNotify_RenewalRearmsWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	f.clock.Set(sub.EndDate().Add(-3 * 24 * time.Hour))
	_, err := f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, f.notifier.Calls, 1)

	// Renewal moves the end date; when the new term nears its end the
	// warning fires again because the dedup key changed.
	updated, err := f.applyRenewal.Execute(ctx, ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "monthly", AmountPaid: 150,
	})
	require.NoError(t, err)

	f.clock.Set(updated.EndDate().Add(-2 * 24 * time.Hour))
	report, err := f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.NotifiedCount)
	assert.Len(t, f.notifier.Calls, 2)
}

func TestSweepAndNotify_DeliveryFailureRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	f.clock.Set(sub.EndDate().Add(-3 * 24 * time.Hour))
	f.notifier.Err = errors.New("smtp unreachable")

	report, err := f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.NotifiedCount)

	// No record was written, so the next run retries the delivery.
	f.notifier.Err = nil
	report, err = f.sweepAndNotify.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.NotifiedCount)
	require.Len(t, f.notifier.Calls, 1)
	assert.Equal(t, notification.KindExpiryWarning, f.notifier.Calls[0].Kind)
}

// --- cancel ---

func TestCancelSubscription_Terminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.provision(t)

	cancel := NewCancelSubscriptionUseCase(f.subRepo, f.clock, testutil.NopLogger{})
	cancelled, err := cancel.Execute(ctx, sub.SID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, cancelled.Status())

	// Cancelled subscriptions fail validity regardless of end date.
	result, err := f.evaluate.Execute(ctx, tenantUserID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)

	// And cannot be renewed.
	_, err = f.applyRenewal.Execute(ctx, ApplyRenewalCommand{
		UserID: tenantUserID, Plan: "monthly", AmountPaid: 150,
	})
	assert.ErrorIs(t, err, subscription.ErrSubscriptionCancelled)
}
