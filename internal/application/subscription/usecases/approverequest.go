package usecases

import (
	"context"
	"fmt"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// ApproveRequestCommand carries the adjudication input.
type ApproveRequestCommand struct {
	RequestSID string
	ApproverID uint
}

// ApproveRequestUseCase adjudicates a pending renewal request in two
// steps: an atomic claim of the request (pending -> approved), then the
// term extension. Only one of two concurrent approvals can win the
// claim; the loser gets ErrRequestNotPending without touching the
// subscription. If the extension fails after a won claim, the claim is
// reverted so the request can be re-adjudicated.
type ApproveRequestUseCase struct {
	requestRepo  subscription.RenewalRequestRepository
	applyRenewal *ApplyRenewalUseCase
	clock        biztime.Clock
	logger       logger.Interface
}

func NewApproveRequestUseCase(
	requestRepo subscription.RenewalRequestRepository,
	applyRenewal *ApplyRenewalUseCase,
	clock biztime.Clock,
	logger logger.Interface,
) *ApproveRequestUseCase {
	return &ApproveRequestUseCase{
		requestRepo:  requestRepo,
		applyRenewal: applyRenewal,
		clock:        clock,
		logger:       logger,
	}
}

// ApproveResult bundles the decided request with the extended subscription.
type ApproveResult struct {
	Request      *subscription.RenewalRequest
	Subscription *subscription.Subscription
}

func (uc *ApproveRequestUseCase) Execute(ctx context.Context, cmd ApproveRequestCommand) (*ApproveResult, error) {
	request, err := uc.requestRepo.GetBySID(ctx, cmd.RequestSID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, subscription.ErrRequestNotFound
	}

	decidedAt := uc.clock.Now()
	claimed, err := uc.requestRepo.ApproveIfPending(ctx, request.ID(), cmd.ApproverID, decidedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to claim request: %w", err)
	}
	if !claimed {
		return nil, subscription.ErrRequestNotPending
	}

	sub, err := uc.applyRenewal.Execute(ctx, ApplyRenewalCommand{
		UserID:     request.UserID(),
		Plan:       request.Plan().String(),
		AmountPaid: request.Amount(),
	})
	if err != nil {
		if reopenErr := uc.requestRepo.ReopenApproved(ctx, request.ID()); reopenErr != nil {
			uc.logger.Errorw("failed to reopen request after extension failure",
				"request_sid", request.SID(), "error", reopenErr)
		}
		return nil, err
	}

	decided, err := uc.requestRepo.GetByID(ctx, request.ID())
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("renewal request approved",
		"request_sid", decided.SID(),
		"approver_id", cmd.ApproverID,
		"subscription_sid", sub.SID(),
		"end_date", sub.EndDate(),
	)

	return &ApproveResult{Request: decided, Subscription: sub}, nil
}
