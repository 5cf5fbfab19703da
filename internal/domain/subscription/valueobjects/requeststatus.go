package valueobjects

// RequestStatus is the adjudication state of a renewal request.
// Approved and rejected are terminal; a request is never re-opened.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

var ValidRequestStatuses = map[RequestStatus]bool{
	RequestPending:  true,
	RequestApproved: true,
	RequestRejected: true,
}

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}
