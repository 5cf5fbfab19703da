// Package testutil provides in-memory repository fakes for use case
// tests. The fakes mirror the conditional-update semantics the real
// repositories promise, so concurrency-sensitive paths (claim, extend,
// sweep) behave the same way under test.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/loam-dev/loam/internal/domain/notification"
	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/logger"
	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// FakeClock is a settable Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any)           {}
func (NopLogger) Info(string, ...any)            {}
func (NopLogger) Warn(string, ...any)            {}
func (NopLogger) Error(string, ...any)           {}
func (NopLogger) Debugw(string, ...interface{})  {}
func (NopLogger) Infow(string, ...interface{})   {}
func (NopLogger) Warnw(string, ...interface{})   {}
func (NopLogger) Errorw(string, ...interface{})  {}
func (l NopLogger) With(...any) logger.Interface { return l }

// InMemorySubscriptionRepo implements subscription.SubscriptionRepository.
type InMemorySubscriptionRepo struct {
	mu     sync.Mutex
	nextID uint
	subs   map[uint]*subscription.Subscription

	CreateErr     error
	ExtendTermErr error
}

func NewInMemorySubscriptionRepo() *InMemorySubscriptionRepo {
	return &InMemorySubscriptionRepo{nextID: 1, subs: make(map[uint]*subscription.Subscription)}
}

func (r *InMemorySubscriptionRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return r.CreateErr
	}
	for _, existing := range r.subs {
		if existing.SiteID() == sub.SiteID() {
			return subscription.ErrSubscriptionExists
		}
	}
	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.subs[sub.ID()] = sub
	r.nextID++
	return nil
}

func (r *InMemorySubscriptionRepo) GetByID(_ context.Context, id uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *InMemorySubscriptionRepo) GetBySID(_ context.Context, sid string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subs {
		if sub.SID() == sid {
			return sub, nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (r *InMemorySubscriptionRepo) GetBySiteID(_ context.Context, siteID uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subs {
		if sub.SiteID() == siteID {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *InMemorySubscriptionRepo) ExtendTerm(_ context.Context, id uint, plan vo.Plan, amountPaid int64, now time.Time) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ExtendTermErr != nil {
		return nil, r.ExtendTermErr
	}
	sub, ok := r.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	if err := sub.Renew(plan, amountPaid, now); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *InMemorySubscriptionRepo) MarkExpiredBefore(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, sub := range r.subs {
		if sub.Status().CanExpire() && sub.IsExpiredAt(now) {
			if err := sub.MarkAsExpired(now); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (r *InMemorySubscriptionRepo) FindExpiringWithin(_ context.Context, now time.Time, window time.Duration) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*subscription.Subscription
	limit := now.Add(window)
	for _, sub := range r.subs {
		if !sub.Status().CanExpire() {
			continue
		}
		if sub.EndDate().After(now) && !sub.EndDate().After(limit) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *InMemorySubscriptionRepo) FindNewlyLapsed(_ context.Context, now time.Time) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*subscription.Subscription
	for _, sub := range r.subs {
		if sub.Status().CanExpire() && sub.IsExpiredAt(now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *InMemorySubscriptionRepo) Update(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.ID()]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *InMemorySubscriptionRepo) List(_ context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*subscription.Subscription
	for _, sub := range r.subs {
		if filter.UserID != nil && sub.UserID() != *filter.UserID {
			continue
		}
		if filter.SiteID != nil && sub.SiteID() != *filter.SiteID {
			continue
		}
		if filter.Status != nil && sub.Status().String() != *filter.Status {
			continue
		}
		out = append(out, sub)
	}
	return out, int64(len(out)), nil
}

// InMemoryRequestRepo implements subscription.RenewalRequestRepository.
type InMemoryRequestRepo struct {
	mu       sync.Mutex
	nextID   uint
	requests map[uint]*subscription.RenewalRequest
}

func NewInMemoryRequestRepo() *InMemoryRequestRepo {
	return &InMemoryRequestRepo{nextID: 1, requests: make(map[uint]*subscription.RenewalRequest)}
}

func (r *InMemoryRequestRepo) Create(_ context.Context, req *subscription.RenewalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := req.SetID(r.nextID); err != nil {
		return err
	}
	r.requests[req.ID()] = req
	r.nextID++
	return nil
}

func (r *InMemoryRequestRepo) GetByID(_ context.Context, id uint) (*subscription.RenewalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, subscription.ErrRequestNotFound
	}
	return req, nil
}

func (r *InMemoryRequestRepo) GetBySID(_ context.Context, sid string) (*subscription.RenewalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.SID() == sid {
			return req, nil
		}
	}
	return nil, subscription.ErrRequestNotFound
}

func (r *InMemoryRequestRepo) HasPendingBySiteID(_ context.Context, siteID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.SiteID() == siteID && req.Status() == vo.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRequestRepo) ApproveIfPending(_ context.Context, id uint, approverID uint, decidedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok || req.Status() != vo.RequestPending {
		return false, nil
	}
	if err := req.Approve(approverID, decidedAt); err != nil {
		return false, err
	}
	return true, nil
}

func (r *InMemoryRequestRepo) RejectIfPending(_ context.Context, id uint, reason string, decidedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok || req.Status() != vo.RequestPending {
		return false, nil
	}
	if err := req.Reject(reason, decidedAt); err != nil {
		return false, err
	}
	return true, nil
}

func (r *InMemoryRequestRepo) ReopenApproved(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return subscription.ErrRequestNotFound
	}
	if req.Status() == vo.RequestApproved {
		req.Reopen(req.UpdatedAt())
	}
	return nil
}

func (r *InMemoryRequestRepo) ListBySiteID(_ context.Context, siteID uint) ([]*subscription.RenewalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*subscription.RenewalRequest
	for _, req := range r.requests {
		if req.SiteID() == siteID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *InMemoryRequestRepo) List(_ context.Context, filter subscription.RequestFilter) ([]*subscription.RenewalRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*subscription.RenewalRequest
	for _, req := range r.requests {
		if filter.SiteID != nil && req.SiteID() != *filter.SiteID {
			continue
		}
		if filter.UserID != nil && req.UserID() != *filter.UserID {
			continue
		}
		if filter.Status != nil && req.Status().String() != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

// InMemorySiteRepo implements site.Repository.
type InMemorySiteRepo struct {
	mu     sync.Mutex
	nextID uint
	sites  map[uint]*site.Site
}

func NewInMemorySiteRepo() *InMemorySiteRepo {
	return &InMemorySiteRepo{nextID: 1, sites: make(map[uint]*site.Site)}
}

func (r *InMemorySiteRepo) Create(_ context.Context, s *site.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sites {
		if existing.UserID() == s.UserID() {
			return site.ErrSiteExists
		}
	}
	if err := s.SetID(r.nextID); err != nil {
		return err
	}
	r.sites[s.ID()] = s
	r.nextID++
	return nil
}

func (r *InMemorySiteRepo) GetByID(_ context.Context, id uint) (*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sites[id]
	if !ok {
		return nil, site.ErrSiteNotFound
	}
	return s, nil
}

func (r *InMemorySiteRepo) GetBySID(_ context.Context, sid string) (*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sites {
		if s.SID() == sid {
			return s, nil
		}
	}
	return nil, site.ErrSiteNotFound
}

func (r *InMemorySiteRepo) GetByUserID(_ context.Context, userID uint) (*site.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sites {
		if s.UserID() == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *InMemorySiteRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sites {
		if s.Slug() == slug {
			return true, nil
		}
	}
	return false, nil
}

// InMemoryRecordRepo implements notification.RecordRepository.
type InMemoryRecordRepo struct {
	mu      sync.Mutex
	records []*notification.Record
}

func NewInMemoryRecordRepo() *InMemoryRecordRepo {
	return &InMemoryRecordRepo{}
}

func (r *InMemoryRecordRepo) WasSent(_ context.Context, subscriptionID uint, kind notification.Kind, periodEnd time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.SubscriptionID() == subscriptionID && rec.Kind() == kind && rec.PeriodEnd().Equal(periodEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRecordRepo) Create(_ context.Context, record *notification.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

// NotifyCall captures one delivery attempt made through SpyNotifier.
type NotifyCall struct {
	UserID  uint
	Kind    notification.Kind
	Payload map[string]string
}

// SpyNotifier records deliveries and optionally fails them.
type SpyNotifier struct {
	mu    sync.Mutex
	Calls []NotifyCall
	Err   error
}

func (n *SpyNotifier) Notify(_ context.Context, userID uint, kind notification.Kind, payload map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.Calls = append(n.Calls, NotifyCall{UserID: userID, Kind: kind, Payload: payload})
	return nil
}
