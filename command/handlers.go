package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-frontrun/core"
)

type MutatingService interface {
	CreateRequest(ctx context.Context, in core.CreateRequestInput) (core.Request, error)
	CancelRequest(ctx context.Context, in core.CancelRequestInput) (bool, error)
}

// CreateRequestCommand stores the created core.Request in the result
// collector, if one is attached to the context.
type CreateRequestCommand struct {
	service MutatingService
}

func NewCreateRequestCommand(service MutatingService) *CreateRequestCommand {
	return &CreateRequestCommand{service: service}
}

func (c *CreateRequestCommand) Execute(ctx context.Context, msg CreateRequestMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: create request service is required")
	}
	out, err := c.service.CreateRequest(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

// CancelRequestCommand stores true in a bool result collector on success.
type CancelRequestCommand struct {
	service MutatingService
}

func NewCancelRequestCommand(service MutatingService) *CancelRequestCommand {
	return &CancelRequestCommand{service: service}
}

func (c *CancelRequestCommand) Execute(ctx context.Context, msg CancelRequestMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cancel request service is required")
	}
	out, err := c.service.CancelRequest(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
