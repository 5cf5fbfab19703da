package valueobjects

// SubscriptionStatus is the cached, periodically-reconciled projection of
// "now vs end date". It is stored for display and reporting; access
// decisions always re-derive validity from the end date itself.
type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "trial"
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusTrial:     true,
	StatusActive:    true,
	StatusExpired:   true,
	StatusCancelled: true,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanUseService reports whether the status allows tenant access,
// before the end-date check is applied.
func (s SubscriptionStatus) CanUseService() bool {
	return s == StatusTrial || s == StatusActive
}

// CanExpire reports whether the sweep may flip this status to expired.
func (s SubscriptionStatus) CanExpire() bool {
	return s == StatusTrial || s == StatusActive
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusTrial:     {StatusActive, StatusExpired, StatusCancelled},
		StatusActive:    {StatusExpired, StatusCancelled},
		StatusExpired:   {StatusActive},
		StatusCancelled: {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}
