// Package notification defines the outbound notification contract the
// subscription engine depends on, plus the sent-record used to keep the
// expiry sweep from re-notifying the same tenant every run.
package notification

import (
	"context"
	"fmt"
	"time"
)

// Kind identifies the notification template.
type Kind string

const (
	KindExpiryWarning Kind = "expiry_warning"
	KindExpired       Kind = "expired"
)

// Notifier delivers a notification to a user. Fire-and-forget: a
// delivery failure is the caller's to log, never to escalate.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind Kind, payload map[string]string) error
}

// Record marks that a notification was sent for a particular
// subscription term, keyed by the end date in effect at send time. A
// renewal moves the end date, which naturally re-arms the warning.
type Record struct {
	id             uint
	subscriptionID uint
	userID         uint
	kind           Kind
	periodEnd      time.Time
	sentAt         time.Time
}

// NewRecord creates a sent-notification record.
func NewRecord(subscriptionID, userID uint, kind Kind, periodEnd, sentAt time.Time) (*Record, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if kind == "" {
		return nil, fmt.Errorf("notification kind is required")
	}

	return &Record{
		subscriptionID: subscriptionID,
		userID:         userID,
		kind:           kind,
		periodEnd:      periodEnd,
		sentAt:         sentAt,
	}, nil
}

// ReconstructRecord reconstructs a record from persistence.
func ReconstructRecord(id, subscriptionID, userID uint, kind Kind, periodEnd, sentAt time.Time) *Record {
	return &Record{
		id:             id,
		subscriptionID: subscriptionID,
		userID:         userID,
		kind:           kind,
		periodEnd:      periodEnd,
		sentAt:         sentAt,
	}
}

func (r *Record) ID() uint             { return r.id }
func (r *Record) SubscriptionID() uint { return r.subscriptionID }
func (r *Record) UserID() uint         { return r.userID }
func (r *Record) Kind() Kind           { return r.kind }
func (r *Record) PeriodEnd() time.Time { return r.periodEnd }
func (r *Record) SentAt() time.Time    { return r.sentAt }

// RecordRepository persists sent-notification records.
type RecordRepository interface {
	// WasSent reports whether a record exists for the subscription, kind
	// and period end, i.e. whether this threshold crossing was already
	// notified.
	WasSent(ctx context.Context, subscriptionID uint, kind Kind, periodEnd time.Time) (bool, error)
	Create(ctx context.Context, record *Record) error
}
