package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
)

type fifoQueue struct {
	pending    []*job.ExecutionMessage
	deliveries []*stubDelivery
}

func (q *fifoQueue) Enqueue(_ context.Context, msg *job.ExecutionMessage) (queue.EnqueueReceipt, error) {
	q.pending = append(q.pending, msg)
	return queue.EnqueueReceipt{}, nil
}

func (q *fifoQueue) Dequeue(context.Context) (queue.Delivery, error) {
	if len(q.pending) == 0 {
		return nil, errors.New("queue empty")
	}
	msg := q.pending[0]
	q.pending = q.pending[1:]
	delivery := &stubDelivery{msg: msg}
	q.deliveries = append(q.deliveries, delivery)
	return delivery, nil
}

type stubDelivery struct {
	msg      *job.ExecutionMessage
	acked    bool
	nacked   bool
	nackOpts queue.NackOptions
}

func (d *stubDelivery) Message() *job.ExecutionMessage { return d.msg }

func (d *stubDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *stubDelivery) Nack(_ context.Context, opts queue.NackOptions) error {
	d.nacked = true
	d.nackOpts = opts
	return nil
}

func newQueueFixture(t *testing.T) (*CommandQueue, *fifoQueue, *core.Service) {
	t.Helper()
	svc, err := core.NewService(core.DefaultConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	chain, err := ledger.NewChain(context.Background(), svc)
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}
	fifo := &fifoQueue{}
	q, err := NewCommandQueue(fifo, fifo, chain)
	if err != nil {
		t.Fatalf("new command queue: %v", err)
	}
	return q, fifo, svc
}

func TestCommandQueue_MinesEnqueuedCommands(t *testing.T) {
	ctx := context.Background()
	q, fifo, svc := newQueueFixture(t)

	if err := q.EnqueueCreate(ctx, core.CreateRequestInput{
		Caller:         "ST1OWNER",
		TargetRef:      "STX123456",
		TargetContract: "TestContract",
		Description:    "Test search for potential frontrunning",
		Bounty:         10,
	}); err != nil {
		t.Fatalf("enqueue create: %v", err)
	}
	if err := q.EnqueueCancel(ctx, core.CancelRequestInput{Caller: "ST1OWNER", ID: 1}); err != nil {
		t.Fatalf("enqueue cancel: %v", err)
	}
	if len(fifo.pending) != 2 || fifo.pending[0].IdempotencyKey == "" {
		t.Fatalf("expected two keyed jobs, got %#v", fifo.pending)
	}

	created, err := q.ProcessNext(ctx)
	if err != nil {
		t.Fatalf("process create: %v", err)
	}
	if created.Height != 2 || len(created.Receipts) != 1 {
		t.Fatalf("unexpected create block: %#v", created)
	}
	if got := created.Receipts[0].Result.String(); got != "(ok u1)" {
		t.Fatalf("expected (ok u1), got %s", got)
	}

	cancelled, err := q.ProcessNext(ctx)
	if err != nil {
		t.Fatalf("process cancel: %v", err)
	}
	if cancelled.Height != 3 || cancelled.Receipts[0].Result.String() != "(ok true)" {
		t.Fatalf("unexpected cancel block: %#v", cancelled)
	}
	for i, delivery := range fifo.deliveries {
		if !delivery.acked || delivery.nacked {
			t.Fatalf("expected delivery %d to be acked", i)
		}
	}

	request, err := svc.GetRequest(ctx, 1)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if request.Status != core.RequestStatusCancelled {
		t.Fatalf("expected cancelled request, got %s", request.Status)
	}
}

func TestCommandQueue_AcksFailedReceipts(t *testing.T) {
	ctx := context.Background()
	q, fifo, _ := newQueueFixture(t)

	if err := q.EnqueueCreate(ctx, core.CreateRequestInput{
		Caller:         "ST1OWNER",
		TargetRef:      "STX123456",
		TargetContract: "TestContract",
		Description:    "Test search for potential frontrunning",
		Bounty:         10,
	}); err != nil {
		t.Fatalf("enqueue create: %v", err)
	}
	if err := q.EnqueueCancel(ctx, core.CancelRequestInput{Caller: "ST1OTHER", ID: 1}); err != nil {
		t.Fatalf("enqueue cancel: %v", err)
	}
	if _, err := q.ProcessNext(ctx); err != nil {
		t.Fatalf("process create: %v", err)
	}

	block, err := q.ProcessNext(ctx)
	if err != nil {
		t.Fatalf("process cancel: %v", err)
	}
	if block.Receipts[0].Result.IsOk() {
		t.Fatalf("expected non-owner cancel to fail")
	}
	failure := block.Receipts[0].Result.Failure()
	if failure == nil || failure.TextCode != core.ErrorUnauthorized {
		t.Fatalf("expected unauthorized receipt, got %#v", failure)
	}
	if !fifo.deliveries[1].acked {
		t.Fatalf("expected failed receipt to be acked")
	}
}

func TestCommandQueue_DeadLettersMalformedJobs(t *testing.T) {
	ctx := context.Background()
	q, fifo, _ := newQueueFixture(t)

	fifo.pending = append(fifo.pending,
		&job.ExecutionMessage{JobID: "frontrun.command.unknown", Parameters: map[string]any{"sender": "ST1OWNER"}},
		&job.ExecutionMessage{JobID: "frontrun.command.request.cancel", Parameters: map[string]any{"sender": "ST1OWNER", "id": "-1"}},
	)

	if _, err := q.ProcessNext(ctx); err == nil {
		t.Fatalf("expected unknown job to fail")
	}
	if _, err := q.ProcessNext(ctx); !core.IsValidation(err) {
		t.Fatalf("expected validation error for bad id, got %v", err)
	}
	for i, delivery := range fifo.deliveries {
		if delivery.acked || delivery.nackOpts.Disposition != queue.NackDispositionDeadLetter || delivery.nackOpts.Reason == "" {
			t.Fatalf("expected delivery %d to be dead lettered, got %#v", i, delivery.nackOpts)
		}
	}
	if q.chain.Height() != 1 {
		t.Fatalf("expected no block for malformed jobs, got height %d", q.chain.Height())
	}
}

func TestCommandQueue_RejectsInvalidInputBeforeEnqueue(t *testing.T) {
	q, fifo, _ := newQueueFixture(t)
	err := q.EnqueueCancel(context.Background(), core.CancelRequestInput{ID: 1})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(fifo.pending) != 0 {
		t.Fatalf("expected nothing enqueued")
	}
}

func TestNewCommandQueue_RequiresCollaborators(t *testing.T) {
	if _, err := NewCommandQueue(nil, nil, nil); err == nil {
		t.Fatalf("expected error without queue")
	}
	fifo := &fifoQueue{}
	if _, err := NewCommandQueue(fifo, fifo, nil); err == nil {
		t.Fatalf("expected error without chain")
	}
}
