package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// RequestStore persists requests. Create and Mutate must each apply as one
// atomic write: either the record (and its audit event) is stored or nothing
// changes.
type RequestStore interface {
	Create(ctx context.Context, in NewRequestRecord) (Request, error)
	Get(ctx context.Context, id RequestID) (Request, error)
	// Mutate loads the record, applies fn and persists the result. If fn
	// returns an error nothing is written.
	Mutate(ctx context.Context, id RequestID, call CallInfo, fn func(*Request) error) (Request, error)
	ListByOwner(ctx context.Context, owner Principal) ([]Request, error)
	Count(ctx context.Context) (uint64, error)
}

type RequestEventReader interface {
	ListEvents(ctx context.Context, id RequestID) ([]RequestEvent, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// RegistryService is the full registry surface consumed by the command,
// query and ledger layers.
type RegistryService interface {
	CreateRequest(ctx context.Context, in CreateRequestInput) (Request, error)
	CancelRequest(ctx context.Context, in CancelRequestInput) (bool, error)
	GetRequest(ctx context.Context, id RequestID) (Request, error)
	ListRequestsByOwner(ctx context.Context, owner Principal) ([]Request, error)
	RequestCount(ctx context.Context) (uint64, error)
	ListRequestEvents(ctx context.Context, id RequestID) ([]RequestEvent, error)
}
