package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-frontrun/core"
)

var (
	_ gocmd.Commander[CreateRequestMessage] = (*CreateRequestCommand)(nil)
	_ gocmd.Commander[CancelRequestMessage] = (*CancelRequestCommand)(nil)

	_ MutatingService = (*core.Service)(nil)
)
