package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/domain/site"
	"github.com/loam-dev/loam/internal/domain/subscription"
	sharedErrors "github.com/loam-dev/loam/internal/shared/errors"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// respondError maps domain errors to HTTP responses. Errors that are
// already AppErrors pass through; everything unrecognized becomes an
// opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound),
		errors.Is(err, subscription.ErrRequestNotFound),
		errors.Is(err, subscription.ErrSiteNotFound),
		errors.Is(err, site.ErrSiteNotFound):
		utils.ErrorResponseWithError(c, sharedErrors.NewNotFoundError(err.Error()))

	case errors.Is(err, subscription.ErrSubscriptionExists),
		errors.Is(err, subscription.ErrDuplicatePendingExists),
		errors.Is(err, subscription.ErrRequestNotPending),
		errors.Is(err, subscription.ErrSubscriptionCancelled),
		errors.Is(err, subscription.ErrInvalidStatusChange),
		errors.Is(err, site.ErrSiteExists):
		utils.ErrorResponseWithError(c, sharedErrors.NewConflictError(err.Error()))

	case errors.Is(err, subscription.ErrInvalidPlan),
		errors.Is(err, subscription.ErrRejectReasonRequired):
		utils.ErrorResponseWithError(c, sharedErrors.NewValidationError(err.Error()))

	default:
		utils.ErrorResponseWithError(c, err)
	}
}
