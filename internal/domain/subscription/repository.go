package subscription

import (
	"context"
	"time"

	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// SubscriptionRepository persists subscription aggregates. The write
// operations that can race (ExtendTerm and MarkExpiredBefore) are
// specified as atomic, conditional, single-row updates: implementations
// must not use read-then-write pairs for them.
type SubscriptionRepository interface {
	// Create persists a new subscription. Returns ErrSubscriptionExists
	// when the site already has one (the one-per-site invariant is backed
	// by a unique index on site_id).
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	// GetBySiteID returns (nil, nil) when the site has no subscription.
	GetBySiteID(ctx context.Context, siteID uint) (*Subscription, error)

	// ExtendTerm atomically moves the end date forward in a single
	// conditional update: end = GREATEST(end, now) + plan duration,
	// status = active, amount recorded. Safe to call concurrently with
	// MarkExpiredBefore on the same row. Returns the updated aggregate,
	// or ErrSubscriptionNotFound.
	ExtendTerm(ctx context.Context, id uint, plan vo.Plan, amountPaid int64, now time.Time) (*Subscription, error)

	// MarkExpiredBefore flips status to expired for every subscription
	// whose term lapsed before now and whose status still allows it, in
	// one batch statement. Returns the number of rows changed; running it
	// twice in succession changes nothing on the second run.
	MarkExpiredBefore(ctx context.Context, now time.Time) (int64, error)

	// FindExpiringWithin returns trial/active subscriptions whose end
	// date falls inside (now, now+window].
	FindExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*Subscription, error)

	// FindNewlyLapsed returns subscriptions whose term lapsed before now
	// but whose cached status has not been flipped to expired yet. The
	// sweep reads these before the batch flip so it knows who to notify.
	FindNewlyLapsed(ctx context.Context, now time.Time) ([]*Subscription, error)

	Update(ctx context.Context, subscription *Subscription) error
	List(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, int64, error)
}

type SubscriptionFilter struct {
	UserID   *uint
	SiteID   *uint
	Status   *string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// RenewalRequestRepository persists renewal requests. Terminal-state
// transitions are conditional updates so that two concurrent
// adjudications of the same request cannot both succeed.
type RenewalRequestRepository interface {
	Create(ctx context.Context, request *RenewalRequest) error
	GetByID(ctx context.Context, id uint) (*RenewalRequest, error)
	GetBySID(ctx context.Context, sid string) (*RenewalRequest, error)

	// HasPendingBySiteID reports whether a pending request exists for the site.
	HasPendingBySiteID(ctx context.Context, siteID uint) (bool, error)

	// ApproveIfPending atomically transitions pending -> approved,
	// recording approver and decision instant. Returns false (no error)
	// when the request was not pending, i.e. a concurrent adjudication won.
	ApproveIfPending(ctx context.Context, id uint, approverID uint, decidedAt time.Time) (bool, error)

	// RejectIfPending atomically transitions pending -> rejected with the reason.
	RejectIfPending(ctx context.Context, id uint, reason string, decidedAt time.Time) (bool, error)

	// ReopenApproved reverts approved -> pending. Compensation path only:
	// used when the subscription extension fails after a successful claim.
	ReopenApproved(ctx context.Context, id uint) error

	ListBySiteID(ctx context.Context, siteID uint) ([]*RenewalRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]*RenewalRequest, int64, error)
}

type RequestFilter struct {
	SiteID   *uint
	UserID   *uint
	Status   *string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}
