package ledger

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-frontrun/core"
)

type Function string

const (
	FunctionCreateSearch Function = "create-frontrun-search"
	FunctionCancelSearch Function = "cancel-frontrun-search"
	FunctionGetSearch    Function = "get-frontrun-search"
	FunctionRequestCount Function = "get-request-count"
)

// Call is one contract invocation inside a block. An empty Contract targets
// the chain's registry contract.
type Call struct {
	Sender   core.Principal
	Contract string
	Function Function
	Args     []Value
}

func ContractCall(contract string, function Function, args []Value, sender core.Principal) Call {
	return Call{Sender: sender, Contract: contract, Function: function, Args: args}
}

func expectArity(call Call, want int) error {
	if len(call.Args) == want {
		return nil
	}
	return core.NewValidationError(goerrors.FieldError{
		Field:   "args",
		Message: fmt.Sprintf("%s expects %d arguments, got %d", call.Function, want, len(call.Args)),
	})
}

func argError(index int, err error) error {
	return core.NewValidationError(goerrors.FieldError{
		Field:   fmt.Sprintf("args[%d]", index),
		Message: err.Error(),
	})
}

type createArgs struct {
	targetRef      string
	targetContract string
	description    string
	bounty         uint64
}

func decodeCreateArgs(call Call) (createArgs, error) {
	if err := expectArity(call, 4); err != nil {
		return createArgs{}, err
	}
	var (
		out createArgs
		err error
	)
	if out.targetRef, err = call.Args[0].ExpectASCII(); err != nil {
		return createArgs{}, argError(0, err)
	}
	if out.targetContract, err = call.Args[1].ExpectASCII(); err != nil {
		return createArgs{}, argError(1, err)
	}
	if out.description, err = call.Args[2].ExpectUTF8(); err != nil {
		return createArgs{}, argError(2, err)
	}
	if out.bounty, err = call.Args[3].ExpectUint(); err != nil {
		return createArgs{}, argError(3, err)
	}
	return out, nil
}

func decodeIDArg(call Call) (core.RequestID, error) {
	if err := expectArity(call, 1); err != nil {
		return 0, err
	}
	id, err := call.Args[0].ExpectUint()
	if err != nil {
		return 0, argError(0, err)
	}
	return core.RequestID(id), nil
}

// RequestValue renders a stored request as the record returned by
// get-frontrun-search.
func RequestValue(request core.Request) Value {
	return Record(map[string]Value{
		"owner":           ASCII(request.Owner.String()),
		"target-ref":      ASCII(request.TargetRef),
		"target-contract": ASCII(request.TargetContract),
		"description":     UTF8(request.Description),
		"bounty":          Uint(request.Bounty),
		"status":          ASCII(string(request.Status)),
	})
}
