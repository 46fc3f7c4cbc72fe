package command

import (
	"github.com/goliatone/go-frontrun/core"
)

const (
	TypeCreateRequest = "frontrun.command.request.create"
	TypeCancelRequest = "frontrun.command.request.cancel"
)

// CreateRequestMessage carries create-frontrun-search arguments. Length and
// encoding limits are enforced by the registry, which knows the runtime
// limits; Validate only rejects structurally empty messages.
type CreateRequestMessage struct {
	Input core.CreateRequestInput
}

func (CreateRequestMessage) Type() string { return TypeCreateRequest }

func (m CreateRequestMessage) Validate() error {
	if m.Input.Caller.IsZero() {
		return commandValidationError("caller", "caller is required")
	}
	return nil
}

// CancelRequestMessage carries cancel-frontrun-search arguments. Id 0 is
// never assigned, so the registry reports it as not found.
type CancelRequestMessage struct {
	Input core.CancelRequestInput
}

func (CancelRequestMessage) Type() string { return TypeCancelRequest }

func (m CancelRequestMessage) Validate() error {
	if m.Input.Caller.IsZero() {
		return commandValidationError("caller", "caller is required")
	}
	return nil
}
