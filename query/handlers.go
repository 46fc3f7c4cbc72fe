package query

import (
	"context"

	"github.com/goliatone/go-frontrun/core"
)

type RequestReader interface {
	GetRequest(ctx context.Context, id core.RequestID) (core.Request, error)
	ListRequestsByOwner(ctx context.Context, owner core.Principal) ([]core.Request, error)
	RequestCount(ctx context.Context) (uint64, error)
}

type RequestEventReader interface {
	ListRequestEvents(ctx context.Context, id core.RequestID) ([]core.RequestEvent, error)
}

type GetRequestQuery struct {
	reader RequestReader
}

func NewGetRequestQuery(reader RequestReader) *GetRequestQuery {
	return &GetRequestQuery{reader: reader}
}

func (q *GetRequestQuery) Query(ctx context.Context, msg GetRequestMessage) (core.Request, error) {
	if q == nil || q.reader == nil {
		return core.Request{}, queryDependencyError("query: request reader is required")
	}
	return q.reader.GetRequest(ctx, msg.ID)
}

type ListRequestsByOwnerQuery struct {
	reader RequestReader
}

func NewListRequestsByOwnerQuery(reader RequestReader) *ListRequestsByOwnerQuery {
	return &ListRequestsByOwnerQuery{reader: reader}
}

func (q *ListRequestsByOwnerQuery) Query(ctx context.Context, msg ListRequestsByOwnerMessage) ([]core.Request, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: request reader is required")
	}
	return q.reader.ListRequestsByOwner(ctx, msg.Owner)
}

type RequestCountQuery struct {
	reader RequestReader
}

func NewRequestCountQuery(reader RequestReader) *RequestCountQuery {
	return &RequestCountQuery{reader: reader}
}

func (q *RequestCountQuery) Query(ctx context.Context, _ RequestCountMessage) (uint64, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: request reader is required")
	}
	return q.reader.RequestCount(ctx)
}

type ListRequestEventsQuery struct {
	reader RequestEventReader
}

func NewListRequestEventsQuery(reader RequestEventReader) *ListRequestEventsQuery {
	return &ListRequestEventsQuery{reader: reader}
}

func (q *ListRequestEventsQuery) Query(ctx context.Context, msg ListRequestEventsMessage) ([]core.RequestEvent, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: request event reader is required")
	}
	return q.reader.ListRequestEvents(ctx, msg.ID)
}
