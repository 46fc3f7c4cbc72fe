package query

import "github.com/goliatone/go-frontrun/core"

const (
	TypeGetRequest          = "frontrun.query.request.get"
	TypeListRequestsByOwner = "frontrun.query.request.list_by_owner"
	TypeRequestCount        = "frontrun.query.request.count"
	TypeListRequestEvents   = "frontrun.query.request.events"
)

type GetRequestMessage struct {
	ID core.RequestID
}

func (GetRequestMessage) Type() string { return TypeGetRequest }

// Validate accepts id 0; the registry reports it as not found.
func (GetRequestMessage) Validate() error { return nil }

type ListRequestsByOwnerMessage struct {
	Owner core.Principal
}

func (ListRequestsByOwnerMessage) Type() string { return TypeListRequestsByOwner }

func (m ListRequestsByOwnerMessage) Validate() error {
	if m.Owner.IsZero() {
		return queryValidationError("owner", "owner is required")
	}
	return nil
}

type RequestCountMessage struct{}

func (RequestCountMessage) Type() string { return TypeRequestCount }

func (RequestCountMessage) Validate() error { return nil }

type ListRequestEventsMessage struct {
	ID core.RequestID
}

func (ListRequestEventsMessage) Type() string { return TypeListRequestEvents }

func (ListRequestEventsMessage) Validate() error { return nil }
