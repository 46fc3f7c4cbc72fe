package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-frontrun/core"
)

var (
	_ gocmd.Querier[GetRequestMessage, core.Request]               = (*GetRequestQuery)(nil)
	_ gocmd.Querier[ListRequestsByOwnerMessage, []core.Request]    = (*ListRequestsByOwnerQuery)(nil)
	_ gocmd.Querier[RequestCountMessage, uint64]                   = (*RequestCountQuery)(nil)
	_ gocmd.Querier[ListRequestEventsMessage, []core.RequestEvent] = (*ListRequestEventsQuery)(nil)

	_ RequestReader      = (*core.Service)(nil)
	_ RequestEventReader = (*core.Service)(nil)
)
