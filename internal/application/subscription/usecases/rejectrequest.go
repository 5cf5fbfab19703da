package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/loam-dev/loam/internal/domain/subscription"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// RejectRequestCommand carries the adjudication input.
type RejectRequestCommand struct {
	RequestSID string
	ApproverID uint
	Reason     string
}

// RejectRequestUseCase rejects a pending renewal request with a
// mandatory reason. The transition is an atomic conditional update, so
// a request that was concurrently approved or rejected stays untouched.
type RejectRequestUseCase struct {
	requestRepo subscription.RenewalRequestRepository
	clock       biztime.Clock
	logger      logger.Interface
}

func NewRejectRequestUseCase(
	requestRepo subscription.RenewalRequestRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *RejectRequestUseCase {
	return &RejectRequestUseCase{
		requestRepo: requestRepo,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *RejectRequestUseCase) Execute(ctx context.Context, cmd RejectRequestCommand) (*subscription.RenewalRequest, error) {
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, subscription.ErrRejectReasonRequired
	}

	request, err := uc.requestRepo.GetBySID(ctx, cmd.RequestSID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, subscription.ErrRequestNotFound
	}

	decidedAt := uc.clock.Now()
	rejected, err := uc.requestRepo.RejectIfPending(ctx, request.ID(), cmd.Reason, decidedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}
	if !rejected {
		return nil, subscription.ErrRequestNotPending
	}

	decided, err := uc.requestRepo.GetByID(ctx, request.ID())
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("renewal request rejected",
		"request_sid", decided.SID(),
		"approver_id", cmd.ApproverID,
		"reason", cmd.Reason,
	)

	return decided, nil
}
