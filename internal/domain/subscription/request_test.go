package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

func newPendingRequest(t *testing.T) *RenewalRequest {
	t.Helper()
	req, err := NewRenewalRequest(10, 20, "sreq_test123", vo.PlanMonthly, 150, "bank-transfer", "+15550100", t0)
	require.NoError(t, err)
	return req
}

func TestNewRenewalRequest(t *testing.T) {
	req := newPendingRequest(t)

	assert.Equal(t, vo.RequestPending, req.Status())
	assert.Equal(t, vo.PlanMonthly, req.Plan())
	assert.Equal(t, int64(150), req.Amount())
	assert.Nil(t, req.ApproverID())
	assert.Nil(t, req.DecidedAt())
}

func TestNewRenewalRequest_Validation(t *testing.T) {
	cases := []struct {
		name          string
		userID        uint
		siteID        uint
		plan          vo.Plan
		amount        int64
		paymentMethod string
		phone         string
	}{
		{"missing user", 0, 20, vo.PlanMonthly, 150, "cash", "+1555"},
		{"missing site", 10, 0, vo.PlanMonthly, 150, "cash", "+1555"},
		{"invalid plan", 10, 20, vo.Plan("daily"), 150, "cash", "+1555"},
		{"zero amount", 10, 20, vo.PlanMonthly, 0, "cash", "+1555"},
		{"blank payment method", 10, 20, vo.PlanMonthly, 150, "  ", "+1555"},
		{"blank phone", 10, 20, vo.PlanMonthly, 150, "cash", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRenewalRequest(tc.userID, tc.siteID, "sreq_x", tc.plan, tc.amount, tc.paymentMethod, tc.phone, t0)
			assert.Error(t, err)
		})
	}
}

func TestApprove(t *testing.T) {
	req := newPendingRequest(t)
	decidedAt := t0.Add(time.Hour)

	require.NoError(t, req.Approve(99, decidedAt))

	assert.Equal(t, vo.RequestApproved, req.Status())
	require.NotNil(t, req.ApproverID())
	assert.Equal(t, uint(99), *req.ApproverID())
	require.NotNil(t, req.DecidedAt())
	assert.Equal(t, decidedAt, *req.DecidedAt())
}

func TestReject(t *testing.T) {
	req := newPendingRequest(t)

	require.NoError(t, req.Reject("payment reference not found", t0.Add(time.Hour)))

	assert.Equal(t, vo.RequestRejected, req.Status())
	require.NotNil(t, req.RejectReason())
	assert.Equal(t, "payment reference not found", *req.RejectReason())
}

func TestReject_RequiresReason(t *testing.T) {
	req := newPendingRequest(t)

	err := req.Reject("   ", t0)
	assert.ErrorIs(t, err, ErrRejectReasonRequired)
	assert.Equal(t, vo.RequestPending, req.Status())
}

func TestTerminalStateLocked(t *testing.T) {
	approved := newPendingRequest(t)
	require.NoError(t, approved.Approve(99, t0))

	assert.ErrorIs(t, approved.Approve(100, t0), ErrRequestNotPending)
	assert.ErrorIs(t, approved.Reject("late", t0), ErrRequestNotPending)
	assert.Equal(t, vo.RequestApproved, approved.Status())

	rejected := newPendingRequest(t)
	require.NoError(t, rejected.Reject("no proof", t0))

	assert.ErrorIs(t, rejected.Approve(99, t0), ErrRequestNotPending)
	assert.ErrorIs(t, rejected.Reject("again", t0), ErrRequestNotPending)
	assert.Equal(t, vo.RequestRejected, rejected.Status())
}

func TestReopen_CompensatesClaim(t *testing.T) {
	req := newPendingRequest(t)
	require.NoError(t, req.Approve(99, t0))

	req.Reopen(t0.Add(time.Minute))

	assert.Equal(t, vo.RequestPending, req.Status())
	assert.Nil(t, req.ApproverID())
	assert.Nil(t, req.DecidedAt())
}
