package subscription

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/loam-dev/loam/internal/domain/subscription/valueobjects"
)

// RenewalRequest is a tenant-submitted, human-adjudicated claim of an
// out-of-band payment. Approval extends the site's subscription through
// the lifecycle engine; this aggregate never touches subscription state
// itself. Approved and rejected are terminal.
type RenewalRequest struct {
	id            uint
	sid           string
	userID        uint
	siteID        uint
	plan          vo.Plan
	amount        int64
	paymentMethod string
	phone         string
	status        vo.RequestStatus
	approverID    *uint
	decidedAt     *time.Time
	rejectReason  *string
	metadata      map[string]string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewRenewalRequest creates a pending renewal request.
func NewRenewalRequest(userID, siteID uint, sid string, plan vo.Plan, amount int64, paymentMethod, phone string, now time.Time) (*RenewalRequest, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if siteID == 0 {
		return nil, fmt.Errorf("site ID is required")
	}
	if sid == "" {
		return nil, fmt.Errorf("request SID is required")
	}
	if !plan.IsValid() {
		return nil, ErrInvalidPlan
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, fmt.Errorf("payment method is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("contact phone is required")
	}

	return &RenewalRequest{
		sid:           sid,
		userID:        userID,
		siteID:        siteID,
		plan:          plan,
		amount:        amount,
		paymentMethod: paymentMethod,
		phone:         phone,
		status:        vo.RequestPending,
		metadata:      make(map[string]string),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// RequestReconstructParams carries persisted state back into the aggregate.
type RequestReconstructParams struct {
	ID            uint
	SID           string
	UserID        uint
	SiteID        uint
	Plan          vo.Plan
	Amount        int64
	PaymentMethod string
	Phone         string
	Status        vo.RequestStatus
	ApproverID    *uint
	DecidedAt     *time.Time
	RejectReason  *string
	Metadata      map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReconstructRenewalRequest reconstructs a renewal request from persistence.
func ReconstructRenewalRequest(p RequestReconstructParams) (*RenewalRequest, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("request ID cannot be zero")
	}
	if !vo.ValidRequestStatuses[p.Status] {
		return nil, fmt.Errorf("invalid request status: %s", p.Status)
	}
	if !p.Plan.IsValid() {
		return nil, fmt.Errorf("invalid plan: %s", p.Plan)
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]string)
	}

	return &RenewalRequest{
		id:            p.ID,
		sid:           p.SID,
		userID:        p.UserID,
		siteID:        p.SiteID,
		plan:          p.Plan,
		amount:        p.Amount,
		paymentMethod: p.PaymentMethod,
		phone:         p.Phone,
		status:        p.Status,
		approverID:    p.ApproverID,
		decidedAt:     p.DecidedAt,
		rejectReason:  p.RejectReason,
		metadata:      metadata,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}

func (r *RenewalRequest) ID() uint                 { return r.id }
func (r *RenewalRequest) SID() string              { return r.sid }
func (r *RenewalRequest) UserID() uint             { return r.userID }
func (r *RenewalRequest) SiteID() uint             { return r.siteID }
func (r *RenewalRequest) Plan() vo.Plan            { return r.plan }
func (r *RenewalRequest) Amount() int64            { return r.amount }
func (r *RenewalRequest) PaymentMethod() string    { return r.paymentMethod }
func (r *RenewalRequest) Phone() string            { return r.phone }
func (r *RenewalRequest) Status() vo.RequestStatus { return r.status }
func (r *RenewalRequest) ApproverID() *uint        { return r.approverID }
func (r *RenewalRequest) DecidedAt() *time.Time    { return r.decidedAt }
func (r *RenewalRequest) RejectReason() *string    { return r.rejectReason }
func (r *RenewalRequest) Metadata() map[string]string { return r.metadata }
func (r *RenewalRequest) CreatedAt() time.Time     { return r.createdAt }
func (r *RenewalRequest) UpdatedAt() time.Time     { return r.updatedAt }

// SetID sets the request ID (only for persistence layer use)
func (r *RenewalRequest) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("request ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("request ID cannot be zero")
	}
	r.id = id
	return nil
}

// AttachMetadata merges free-form payment details supplied at
// submission, e.g. a bank transaction reference.
func (r *RenewalRequest) AttachMetadata(md map[string]string) {
	for k, v := range md {
		r.metadata[k] = v
	}
}

// Approve flips the request to approved, recording the approver and
// decision instant. Fails on a terminal request.
func (r *RenewalRequest) Approve(approverID uint, now time.Time) error {
	if r.status.IsTerminal() {
		return ErrRequestNotPending
	}
	if approverID == 0 {
		return fmt.Errorf("approver ID is required")
	}

	r.status = vo.RequestApproved
	r.approverID = &approverID
	r.decidedAt = &now
	r.updatedAt = now

	return nil
}

// Reject flips the request to rejected with a mandatory reason.
// Fails on a terminal request.
func (r *RenewalRequest) Reject(reason string, now time.Time) error {
	if r.status.IsTerminal() {
		return ErrRequestNotPending
	}
	if strings.TrimSpace(reason) == "" {
		return ErrRejectReasonRequired
	}

	r.status = vo.RequestRejected
	r.rejectReason = &reason
	r.decidedAt = &now
	r.updatedAt = now

	return nil
}

// Reopen reverts an approved request back to pending. It exists solely
// as the compensation step when the subscription extension fails after
// the request was claimed; it must never be exposed as an operation.
func (r *RenewalRequest) Reopen(now time.Time) {
	r.status = vo.RequestPending
	r.approverID = nil
	r.decidedAt = nil
	r.updatedAt = now
}
