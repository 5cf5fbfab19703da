package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrSubscriptionExists     = errors.New("subscription already exists for site")
	ErrSubscriptionCancelled  = errors.New("subscription cancelled")
	ErrSiteNotFound           = errors.New("site not found")
	ErrInvalidPlan            = errors.New("invalid plan")
	ErrInvalidStatusChange    = errors.New("invalid status transition")
	ErrRequestNotFound        = errors.New("renewal request not found")
	ErrRequestNotPending      = errors.New("renewal request is not pending")
	ErrDuplicatePendingExists = errors.New("a pending renewal request already exists for site")
	ErrRejectReasonRequired   = errors.New("rejection reason is required")
	ErrStoreUnavailable       = errors.New("subscription store unavailable")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusChange, from, to)
}
