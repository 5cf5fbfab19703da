package usecases

import (
	"context"
	"time"

	"github.com/loam-dev/loam/internal/application/subscription/dto"
	"github.com/loam-dev/loam/internal/domain/notification"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// SweepAndNotifyUseCase is the periodic maintenance pass: flip lapsed
// subscriptions to expired, tell their owners, and warn owners whose
// term ends within the warning window. Notifications are deduplicated
// per (subscription, kind, period end), so re-running the job never
// spams a tenant; a renewal moves the end date and re-arms both kinds.
type SweepAndNotifyUseCase struct {
	sweepExpired     *SweepExpiredUseCase
	subscriptionRepo subscription.SubscriptionRepository
	recordRepo       notification.RecordRepository
	notifier         notification.Notifier
	clock            biztime.Clock
	warningWindow    time.Duration
	logger           logger.Interface
}

func NewSweepAndNotifyUseCase(
	sweepExpired *SweepExpiredUseCase,
	subscriptionRepo subscription.SubscriptionRepository,
	recordRepo notification.RecordRepository,
	notifier notification.Notifier,
	clock biztime.Clock,
	warningWindowDays int,
	logger logger.Interface,
) *SweepAndNotifyUseCase {
	return &SweepAndNotifyUseCase{
		sweepExpired:     sweepExpired,
		subscriptionRepo: subscriptionRepo,
		recordRepo:       recordRepo,
		notifier:         notifier,
		clock:            clock,
		warningWindow:    time.Duration(warningWindowDays) * 24 * time.Hour,
		logger:           logger,
	}
}

func (uc *SweepAndNotifyUseCase) Execute(ctx context.Context) (*dto.SweepReport, error) {
	lapsed, expiredCount, err := uc.sweepExpired.Execute(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.SweepReport{ExpiredCount: expiredCount}

	for _, sub := range lapsed {
		if uc.notifyOnce(ctx, sub, notification.KindExpired) {
			report.NotifiedCount++
		}
	}

	expiring, err := uc.subscriptionRepo.FindExpiringWithin(ctx, uc.clock.Now(), uc.warningWindow)
	if err != nil {
		// The sweep already ran; report what it did and surface the rest.
		return report, err
	}
	for _, sub := range expiring {
		if uc.notifyOnce(ctx, sub, notification.KindExpiryWarning) {
			report.NotifiedCount++
		}
	}

	return report, nil
}

// notifyOnce sends one notification unless an identical one was already
// recorded for this term. The record is written only after a successful
// send, so a delivery failure is retried on the next run.
func (uc *SweepAndNotifyUseCase) notifyOnce(ctx context.Context, sub *subscription.Subscription, kind notification.Kind) bool {
	sent, err := uc.recordRepo.WasSent(ctx, sub.ID(), kind, sub.EndDate())
	if err != nil {
		uc.logger.Errorw("failed to check notification record",
			"subscription_sid", sub.SID(), "kind", string(kind), "error", err)
		return false
	}
	if sent {
		return false
	}

	payload := map[string]string{
		"subscription_id": sub.SID(),
		"end_date":        sub.EndDate().Format(time.RFC3339),
	}
	if err := uc.notifier.Notify(ctx, sub.UserID(), kind, payload); err != nil {
		uc.logger.Warnw("notification delivery failed",
			"subscription_sid", sub.SID(), "kind", string(kind), "error", err)
		return false
	}

	record, err := notification.NewRecord(sub.ID(), sub.UserID(), kind, sub.EndDate(), uc.clock.Now())
	if err != nil {
		uc.logger.Errorw("failed to build notification record",
			"subscription_sid", sub.SID(), "error", err)
		return true
	}
	if err := uc.recordRepo.Create(ctx, record); err != nil {
		uc.logger.Errorw("failed to record notification",
			"subscription_sid", sub.SID(), "kind", string(kind), "error", err)
	}

	return true
}
