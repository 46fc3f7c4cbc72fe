package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidRequestStatusTransition = errors.New("core: invalid request status transition")
	ErrRequestNotFound                = errors.New("core: request not found")
	ErrUnauthorized                   = errors.New("core: caller is not the request owner")
	ErrInvalidRequestState            = errors.New("core: request is not open")
	ErrInvalidInput                   = errors.New("core: invalid input")
)

// RequestID identifies a frontrun search request. Values start at 1 and are
// never reused.
type RequestID uint64

func (id RequestID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Principal is the identity of a caller, usually a ledger address.
type Principal string

func (p Principal) String() string {
	return string(p)
}

func (p Principal) IsZero() bool {
	return strings.TrimSpace(string(p)) == ""
}

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCancelled
}

func ParseRequestStatus(value string) (RequestStatus, error) {
	switch RequestStatus(strings.ToLower(strings.TrimSpace(value))) {
	case RequestStatusOpen:
		return RequestStatusOpen, nil
	case RequestStatusCancelled:
		return RequestStatusCancelled, nil
	default:
		return "", fmt.Errorf("core: unknown request status %q", value)
	}
}

type Request struct {
	ID                RequestID
	Owner             Principal
	TargetRef         string
	TargetContract    string
	Description       string
	Bounty            uint64
	Status            RequestStatus
	CreatedAtHeight   uint64
	CancelledAtHeight uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransitionTo moves the request to status. Only open -> cancelled is
// allowed; cancelled is terminal.
func (r *Request) TransitionTo(status RequestStatus, height uint64, now time.Time) error {
	if r == nil {
		return nil
	}
	if !requestTransitionAllowed(r.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidRequestStatusTransition, r.Status, status)
	}
	r.Status = status
	r.UpdatedAt = now
	if status == RequestStatusCancelled {
		r.CancelledAtHeight = height
	}
	return nil
}

func requestTransitionAllowed(current, next RequestStatus) bool {
	allowed := map[RequestStatus]map[RequestStatus]struct{}{
		RequestStatusOpen: {
			RequestStatusCancelled: {},
		},
		RequestStatusCancelled: {},
	}
	_, ok := allowed[current][next]
	return ok
}

type RequestEventType string

const (
	RequestEventCreated   RequestEventType = "created"
	RequestEventCancelled RequestEventType = "cancelled"
)

type RequestEvent struct {
	ID          string
	RequestID   RequestID
	Type        RequestEventType
	Actor       Principal
	BlockHeight uint64
	TxIndex     int
	OccurredAt  time.Time
}

type CreateRequestInput struct {
	Caller         Principal
	TargetRef      string
	TargetContract string
	Description    string
	Bounty         uint64
}

type CancelRequestInput struct {
	Caller Principal
	ID     RequestID
}

// NewRequestRecord is what the registry hands to a store for insertion. The
// store assigns the ID.
type NewRequestRecord struct {
	Owner          Principal
	TargetRef      string
	TargetContract string
	Description    string
	Bounty         uint64
	Call           CallInfo
	CreatedAt      time.Time
}
