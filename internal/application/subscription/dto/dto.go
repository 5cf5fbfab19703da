// Package dto defines the data transfer objects exposed by the
// subscription application layer.
package dto

import (
	"time"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
)

// Validity status values returned by EvaluateValidity.
const (
	ValidityNoSubscription = "no-subscription"
	ValidityTrial          = "trial"
	ValidityActive         = "active"
	ValidityExpired        = "expired"
)

// SubscriptionDTO is the outward representation of a subscription.
type SubscriptionDTO struct {
	SID        string     `json:"id"`
	SiteSID    string     `json:"site_id,omitempty"`
	Plan       *string    `json:"plan,omitempty"`
	Status     string     `json:"status"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	AmountPaid *int64     `json:"amount_paid,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RequestDTO is the outward representation of a renewal request.
type RequestDTO struct {
	SID           string     `json:"id"`
	Plan          string     `json:"plan"`
	Amount        int64      `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	Phone         string     `json:"phone"`
	Status        string     `json:"status"`
	RejectReason  *string    `json:"reject_reason,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SiteDTO is the outward representation of a site.
type SiteDTO struct {
	SID       string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanDTO describes one entry of the plan lookup table.
type PlanDTO struct {
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
}

// ValidityResult is the single authoritative access decision. IsValid is
// derived from "now vs end date"; the embedded subscription carries the
// cached status for display only.
type ValidityResult struct {
	IsValid      bool             `json:"is_valid"`
	Status       string           `json:"status"`
	Site         *SiteDTO         `json:"site,omitempty"`
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
	Redirect     string           `json:"redirect,omitempty"`
}

// SweepReport summarizes one sweep-and-notify run.
type SweepReport struct {
	ExpiredCount  int64 `json:"expired_count"`
	NotifiedCount int   `json:"notified_count"`
}

// FromSubscription maps the aggregate to its DTO, reporting the
// effective status at instant now rather than the cached projection.
func FromSubscription(sub *subscription.Subscription, now time.Time) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	var plan *string
	if p := sub.Plan(); p != nil {
		s := p.String()
		plan = &s
	}

	return &SubscriptionDTO{
		SID:        sub.SID(),
		Plan:       plan,
		Status:     sub.EffectiveStatusAt(now).String(),
		StartDate:  sub.StartDate(),
		EndDate:    sub.EndDate(),
		AmountPaid: sub.AmountPaid(),
		CreatedAt:  sub.CreatedAt(),
	}
}

// FromRequest maps the aggregate to its DTO.
func FromRequest(req *subscription.RenewalRequest) *RequestDTO {
	if req == nil {
		return nil
	}

	return &RequestDTO{
		SID:           req.SID(),
		Plan:          req.Plan().String(),
		Amount:        req.Amount(),
		PaymentMethod: req.PaymentMethod(),
		Phone:         req.Phone(),
		Status:        req.Status().String(),
		RejectReason:  req.RejectReason(),
		DecidedAt:     req.DecidedAt(),
		CreatedAt:     req.CreatedAt(),
	}
}

// FromSite maps the aggregate to its DTO.
func FromSite(s *site.Site) *SiteDTO {
	if s == nil {
		return nil
	}

	return &SiteDTO{
		SID:       s.SID(),
		Name:      s.Name(),
		Slug:      s.Slug(),
		CreatedAt: s.CreatedAt(),
	}
}
