package gocommand

import (
	"context"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	frontruncommand "github.com/goliatone/go-frontrun/command"
	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/google/uuid"
)

const (
	paramSender         = "sender"
	paramTargetRef      = "target_ref"
	paramTargetContract = "target_contract"
	paramDescription    = "description"
	paramBounty         = "bounty"
	paramID             = "id"
)

// CommandQueue defers registry commands through a go-job queue. Job ids are
// the command message types; numeric parameters travel as decimal strings so
// they survive JSON backed queues. Each delivery is mined as its own block.
type CommandQueue struct {
	enqueuer queue.Enqueuer
	dequeuer queue.Dequeuer
	chain    *ledger.Chain
}

func NewCommandQueue(enqueuer queue.Enqueuer, dequeuer queue.Dequeuer, chain *ledger.Chain) (*CommandQueue, error) {
	if enqueuer == nil || dequeuer == nil {
		return nil, adapterError("queue enqueuer and dequeuer are required")
	}
	if chain == nil {
		return nil, adapterError("chain is required")
	}
	return &CommandQueue{enqueuer: enqueuer, dequeuer: dequeuer, chain: chain}, nil
}

func (q *CommandQueue) EnqueueCreate(ctx context.Context, in core.CreateRequestInput) error {
	if err := ValidateMessageContract(frontruncommand.CreateRequestMessage{Input: in}); err != nil {
		return err
	}
	return q.enqueue(ctx, frontruncommand.TypeCreateRequest, map[string]any{
		paramSender:         string(in.Caller),
		paramTargetRef:      in.TargetRef,
		paramTargetContract: in.TargetContract,
		paramDescription:    in.Description,
		paramBounty:         strconv.FormatUint(in.Bounty, 10),
	})
}

func (q *CommandQueue) EnqueueCancel(ctx context.Context, in core.CancelRequestInput) error {
	if err := ValidateMessageContract(frontruncommand.CancelRequestMessage{Input: in}); err != nil {
		return err
	}
	return q.enqueue(ctx, frontruncommand.TypeCancelRequest, map[string]any{
		paramSender: string(in.Caller),
		paramID:     strconv.FormatUint(uint64(in.ID), 10),
	})
}

func (q *CommandQueue) enqueue(ctx context.Context, jobID string, params map[string]any) error {
	if q == nil || q.enqueuer == nil {
		return adapterError("command queue is not configured")
	}
	_, err := q.enqueuer.Enqueue(ctx, &job.ExecutionMessage{
		JobID:          jobID,
		ScriptPath:     jobID,
		Parameters:     params,
		IdempotencyKey: uuid.NewString(),
	})
	return err
}

// ProcessNext dequeues one delivery and mines it. Malformed jobs are dead
// lettered. A failed receipt is still acked since replaying it yields the
// same outcome. The delivery is requeued only when no call was applied.
func (q *CommandQueue) ProcessNext(ctx context.Context) (ledger.Block, error) {
	if q == nil || q.dequeuer == nil || q.chain == nil {
		return ledger.Block{}, adapterError("command queue is not configured")
	}
	delivery, err := q.dequeuer.Dequeue(ctx)
	if err != nil {
		return ledger.Block{}, err
	}
	if delivery == nil {
		return ledger.Block{}, adapterError("queue returned no delivery")
	}

	call, err := q.callFromMessage(delivery.Message())
	if err != nil {
		if nackErr := delivery.Nack(ctx, queue.NackOptions{Disposition: queue.NackDispositionDeadLetter, Reason: err.Error()}); nackErr != nil {
			return ledger.Block{}, nackErr
		}
		return ledger.Block{}, err
	}

	block, mineErr := q.chain.MineBlock(ctx, []ledger.Call{call})
	if mineErr != nil && len(block.Receipts) == 0 {
		if nackErr := delivery.Nack(ctx, queue.NackOptions{Disposition: queue.NackDispositionRetry, Reason: mineErr.Error()}); nackErr != nil {
			return block, nackErr
		}
		return block, mineErr
	}
	if err := delivery.Ack(ctx); err != nil {
		return block, err
	}
	return block, mineErr
}

func (q *CommandQueue) callFromMessage(msg *job.ExecutionMessage) (ledger.Call, error) {
	if msg == nil {
		return ledger.Call{}, jobError("", "message", "execution message is required")
	}
	params := msg.Parameters
	sender, err := stringParam(msg.JobID, params, paramSender)
	if err != nil {
		return ledger.Call{}, err
	}
	contract := q.chain.ContractName()

	switch strings.TrimSpace(msg.JobID) {
	case frontruncommand.TypeCreateRequest:
		targetRef, err := stringParam(msg.JobID, params, paramTargetRef)
		if err != nil {
			return ledger.Call{}, err
		}
		targetContract, err := stringParam(msg.JobID, params, paramTargetContract)
		if err != nil {
			return ledger.Call{}, err
		}
		description, err := stringParam(msg.JobID, params, paramDescription)
		if err != nil {
			return ledger.Call{}, err
		}
		bounty, err := uintParam(msg.JobID, params, paramBounty)
		if err != nil {
			return ledger.Call{}, err
		}
		return ledger.ContractCall(contract, ledger.FunctionCreateSearch, []ledger.Value{
			ledger.ASCII(targetRef),
			ledger.ASCII(targetContract),
			ledger.UTF8(description),
			ledger.Uint(bounty),
		}, core.Principal(sender)), nil
	case frontruncommand.TypeCancelRequest:
		id, err := uintParam(msg.JobID, params, paramID)
		if err != nil {
			return ledger.Call{}, err
		}
		return ledger.ContractCall(contract, ledger.FunctionCancelSearch, []ledger.Value{ledger.Uint(id)}, core.Principal(sender)), nil
	default:
		return ledger.Call{}, core.NewUnknownFunctionError(msg.JobID)
	}
}

func stringParam(jobID string, params map[string]any, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok {
		return "", jobError(jobID, key, "string parameter is required")
	}
	return value, nil
}

func uintParam(jobID string, params map[string]any, key string) (uint64, error) {
	switch value := params[key].(type) {
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, jobError(jobID, key, "must be an unsigned decimal")
		}
		return parsed, nil
	case uint64:
		return value, nil
	default:
		return 0, jobError(jobID, key, "unsigned parameter is required")
	}
}

func jobError(jobID string, field string, message string) error {
	err := core.NewValidationError(goerrors.FieldError{Field: field, Message: message})
	if jobID != "" {
		err = err.WithMetadata(map[string]any{"job_id": jobID})
	}
	return err
}
