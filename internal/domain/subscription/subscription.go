package subscription

import (
	"fmt"
	"time"

	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// Subscription represents the subscription aggregate root. A site has at
// most one subscription for its whole lifetime; renewals mutate it in
// place and the end date only ever moves forward.
//
// The stored status is a reconciliation-lagging projection. The source
// of truth for access decisions is always "now vs end date", which is
// why validity checks take an explicit instant instead of reading the
// wall clock.
type Subscription struct {
	id         uint
	sid        string
	userID     uint
	siteID     uint
	plan       *vo.Plan
	status     vo.SubscriptionStatus
	startDate  time.Time
	endDate    time.Time
	amountPaid *int64
	version    int
	createdAt  time.Time
	updatedAt  time.Time
}

// NewTrialSubscription creates the free trial term issued at site creation.
// The trial carries no plan and no amount.
func NewTrialSubscription(userID, siteID uint, sid string, now time.Time, trialDays int) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if siteID == 0 {
		return nil, fmt.Errorf("site ID is required")
	}
	if sid == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if trialDays <= 0 {
		return nil, fmt.Errorf("trial days must be positive")
	}

	return &Subscription{
		sid:       sid,
		userID:    userID,
		siteID:    siteID,
		status:    vo.StatusTrial,
		startDate: now,
		endDate:   now.Add(time.Duration(trialDays) * 24 * time.Hour),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// SubscriptionReconstructParams carries persisted state back into the aggregate.
type SubscriptionReconstructParams struct {
	ID         uint
	SID        string
	UserID     uint
	SiteID     uint
	Plan       *vo.Plan
	Status     vo.SubscriptionStatus
	StartDate  time.Time
	EndDate    time.Time
	AmountPaid *int64
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.SiteID == 0 {
		return nil, fmt.Errorf("site ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	return &Subscription{
		id:         p.ID,
		sid:        p.SID,
		userID:     p.UserID,
		siteID:     p.SiteID,
		plan:       p.Plan,
		status:     p.Status,
		startDate:  p.StartDate,
		endDate:    p.EndDate,
		amountPaid: p.AmountPaid,
		version:    p.Version,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                       { return s.id }
func (s *Subscription) SID() string                    { return s.sid }
func (s *Subscription) UserID() uint                   { return s.userID }
func (s *Subscription) SiteID() uint                   { return s.siteID }
func (s *Subscription) Plan() *vo.Plan                 { return s.plan }
func (s *Subscription) Status() vo.SubscriptionStatus  { return s.status }
func (s *Subscription) StartDate() time.Time           { return s.startDate }
func (s *Subscription) EndDate() time.Time             { return s.endDate }
func (s *Subscription) AmountPaid() *int64             { return s.amountPaid }
func (s *Subscription) Version() int                   { return s.version }
func (s *Subscription) CreatedAt() time.Time           { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time           { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// Renew extends the term by the plan's duration from the later of now or
// the current end date, records the reported amount, and flips the
// status back to active. The end date is never shortened.
func (s *Subscription) Renew(plan vo.Plan, amountPaid int64, now time.Time) error {
	if !plan.IsValid() {
		return ErrInvalidPlan
	}
	if s.status == vo.StatusCancelled {
		return ErrSubscriptionCancelled
	}

	base := s.endDate
	if now.After(base) {
		base = now
	}

	s.endDate = base.Add(plan.Duration())
	s.plan = &plan
	s.amountPaid = &amountPaid
	s.status = vo.StatusActive
	s.updatedAt = now
	s.version++

	return nil
}

// MarkAsExpired flips the cached status to expired. Idempotent.
func (s *Subscription) MarkAsExpired(now time.Time) error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}

	s.status = vo.StatusExpired
	s.updatedAt = now
	s.version++

	return nil
}

// Cancel permanently ends the subscription. Cancelled is terminal.
func (s *Subscription) Cancel(now time.Time) error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	s.status = vo.StatusCancelled
	s.updatedAt = now
	s.version++

	return nil
}

// IsValidAt reports whether the subscription grants access at instant t.
// The decision is derived from the end date, never from the cached
// status, so a stale status can never grant or deny access incorrectly.
func (s *Subscription) IsValidAt(t time.Time) bool {
	if s.status == vo.StatusCancelled {
		return false
	}
	return !t.After(s.endDate)
}

// IsExpiredAt reports whether the term has lapsed at instant t.
func (s *Subscription) IsExpiredAt(t time.Time) bool {
	return t.After(s.endDate)
}

// EffectiveStatusAt returns the status as it should read at instant t,
// regardless of how stale the cached projection is.
func (s *Subscription) EffectiveStatusAt(t time.Time) vo.SubscriptionStatus {
	if s.status == vo.StatusCancelled {
		return vo.StatusCancelled
	}
	if s.IsExpiredAt(t) {
		return vo.StatusExpired
	}
	return s.status
}

// Validate performs domain-level validation
func (s *Subscription) Validate() error {
	if s.userID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if s.siteID == 0 {
		return fmt.Errorf("site ID is required")
	}
	if !vo.ValidStatuses[s.status] {
		return fmt.Errorf("invalid status: %s", s.status)
	}
	if s.endDate.Before(s.startDate) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}
