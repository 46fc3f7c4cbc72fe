package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-frontrun/command"
	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/query"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

type callHandler func(ctx context.Context, call Call) (Value, error)

// Chain is a deterministic in-process executor for the registry contract.
// Calls in a block run one at a time in submission order; a failing call is
// recorded in its receipt and never aborts the block.
type Chain struct {
	mu       sync.Mutex
	height   uint64
	contract string
	blocks   BlockStore
	logger   core.Logger
	clock    func() time.Time

	writes map[Function]callHandler
	reads  map[Function]callHandler
}

type chainBuilder struct {
	genesisHeight uint64
	contract      string
	blocks        BlockStore
	logger        core.Logger
	provider      core.LoggerProvider
	clock         func() time.Time
}

type Option func(*chainBuilder)

func WithGenesisHeight(height uint64) Option {
	return func(b *chainBuilder) {
		b.genesisHeight = height
	}
}

func WithContractName(name string) Option {
	return func(b *chainBuilder) {
		b.contract = name
	}
}

func WithBlockStore(store BlockStore) Option {
	return func(b *chainBuilder) {
		b.blocks = store
	}
}

func WithLogger(logger core.Logger) Option {
	return func(b *chainBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *chainBuilder) {
		b.provider = provider
	}
}

func WithClock(clock func() time.Time) Option {
	return func(b *chainBuilder) {
		b.clock = clock
	}
}

// NewChain builds a chain over service. If the block store already holds
// blocks the chain resumes at the latest stored height.
func NewChain(ctx context.Context, service core.RegistryService, opts ...Option) (*Chain, error) {
	if service == nil {
		return nil, core.MapError(goerrors.New("ledger: registry service is required", goerrors.CategoryInternal))
	}
	builder := chainBuilder{
		genesisHeight: core.DefaultGenesisHeight,
		contract:      core.DefaultContractName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&builder)
		}
	}
	_, logger := glog.Resolve("frontrun.ledger", builder.provider, builder.logger)
	if builder.blocks == nil {
		builder.blocks = NewMemoryBlockStore()
	}
	if builder.clock == nil {
		builder.clock = func() time.Time { return time.Now().UTC() }
	}

	height := builder.genesisHeight
	latest, ok, err := builder.blocks.LatestBlock(ctx)
	if err != nil {
		return nil, core.MapError(err)
	}
	if ok && latest.Height > height {
		height = latest.Height
	}

	chain := &Chain{
		height:   height,
		contract: strings.TrimSpace(builder.contract),
		blocks:   builder.blocks,
		logger:   glog.Ensure(logger),
		clock:    builder.clock,
	}
	chain.registerHandlers(service)
	return chain, nil
}

func (c *Chain) registerHandlers(service core.RegistryService) {
	create := command.NewCreateRequestCommand(service)
	cancel := command.NewCancelRequestCommand(service)
	getRequest := query.NewGetRequestQuery(service)
	count := query.NewRequestCountQuery(service)

	c.writes = map[Function]callHandler{
		FunctionCreateSearch: func(ctx context.Context, call Call) (Value, error) {
			args, err := decodeCreateArgs(call)
			if err != nil {
				return Value{}, err
			}
			msg := command.CreateRequestMessage{Input: core.CreateRequestInput{
				Caller:         call.Sender,
				TargetRef:      args.targetRef,
				TargetContract: args.targetContract,
				Description:    args.description,
				Bounty:         args.bounty,
			}}
			return execute[command.CreateRequestMessage, core.Request](ctx, create, msg, func(request core.Request) Value {
				return Uint(uint64(request.ID))
			})
		},
		FunctionCancelSearch: func(ctx context.Context, call Call) (Value, error) {
			id, err := decodeIDArg(call)
			if err != nil {
				return Value{}, err
			}
			msg := command.CancelRequestMessage{Input: core.CancelRequestInput{Caller: call.Sender, ID: id}}
			return execute[command.CancelRequestMessage, bool](ctx, cancel, msg, Bool)
		},
	}

	c.reads = map[Function]callHandler{
		FunctionGetSearch: func(ctx context.Context, call Call) (Value, error) {
			id, err := decodeIDArg(call)
			if err != nil {
				return Value{}, err
			}
			request, err := getRequest.Query(ctx, query.GetRequestMessage{ID: id})
			if err != nil {
				return Value{}, err
			}
			return RequestValue(request), nil
		},
		FunctionRequestCount: func(ctx context.Context, call Call) (Value, error) {
			if err := expectArity(call, 0); err != nil {
				return Value{}, err
			}
			total, err := count.Query(ctx, query.RequestCountMessage{})
			if err != nil {
				return Value{}, err
			}
			return Uint(total), nil
		},
	}
}

type validatable interface {
	Validate() error
}

// execute runs cmd with a result collector attached and converts the
// collected result. Message errors keep the registry envelope.
func execute[T validatable, R any](ctx context.Context, cmd gocmd.Commander[T], msg T, toValue func(R) Value) (Value, error) {
	if err := msg.Validate(); err != nil {
		return Value{}, core.MapError(err)
	}
	collector := gocmd.NewResult[R]()
	ctx = gocmd.ContextWithResult(ctx, collector)
	if err := cmd.Execute(ctx, msg); err != nil {
		return Value{}, err
	}
	out, ok := collector.Load()
	if !ok {
		return Value{}, goerrors.New("ledger: command produced no result", goerrors.CategoryInternal)
	}
	return toValue(out), nil
}

// Height returns the height of the last mined block, or the genesis height.
func (c *Chain) Height() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func (c *Chain) ContractName() string {
	return c.contract
}

// MineBlock applies calls as the next block. If the block header cannot be
// stored the block and its receipts are returned together with the error.
func (c *Chain) MineBlock(ctx context.Context, calls []Call) (Block, error) {
	if c == nil {
		return Block{}, core.MapError(goerrors.New("ledger: chain is nil", goerrors.CategoryInternal))
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Block{}, err
	}

	startedAt := time.Now()
	height := c.height + 1
	block := Block{
		ID:       uuid.NewString(),
		Height:   height,
		Receipts: make([]Receipt, 0, len(calls)),
		MinedAt:  c.clock().UTC(),
	}

	failed := 0
	for index, call := range calls {
		callCtx := core.ContextWithCallInfo(ctx, core.CallInfo{
			BlockHeight: height,
			TxIndex:     index,
			Sender:      call.Sender,
		})
		result := c.apply(callCtx, call, c.writes)
		if !result.IsOk() {
			failed++
		}
		block.Receipts = append(block.Receipts, Receipt{
			TxIndex:  index,
			Sender:   call.Sender,
			Contract: c.resolveContract(call.Contract),
			Function: call.Function,
			Result:   result,
		})
	}

	// Call effects are already committed, so the height advances even when
	// the header cannot be stored.
	c.height = height
	if err := c.blocks.SaveBlock(ctx, block.Header()); err != nil {
		c.logger.Error("block header not stored",
			"block_id", block.ID,
			"height", height,
			"error", err,
		)
		return block, core.MapError(err)
	}

	c.logger.Info("block mined",
		"block_id", block.ID,
		"height", height,
		"tx_count", len(block.Receipts),
		"failed", failed,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)
	return block, nil
}

// CallReadOnly evaluates a read-only function against current state without
// mining a block.
func (c *Chain) CallReadOnly(ctx context.Context, sender core.Principal, function Function, args ...Value) Result {
	if c == nil {
		return Err(core.MapError(goerrors.New("ledger: chain is nil", goerrors.CategoryInternal)))
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx = core.ContextWithCallInfo(ctx, core.CallInfo{BlockHeight: c.height, Sender: sender})
	return c.apply(ctx, Call{Sender: sender, Function: function, Args: args}, c.reads)
}

func (c *Chain) apply(ctx context.Context, call Call, handlers map[Function]callHandler) Result {
	if contract := c.resolveContract(call.Contract); contract != c.contract {
		return Err(core.NewUnknownFunctionError(contract + "." + string(call.Function)))
	}
	handler, ok := handlers[call.Function]
	if !ok {
		return Err(core.NewUnknownFunctionError(string(call.Function)))
	}
	value, err := handler(ctx, call)
	if err != nil {
		return Err(core.MapError(err))
	}
	return Ok(value)
}

func (c *Chain) resolveContract(contract string) string {
	contract = strings.TrimSpace(contract)
	if contract == "" {
		return c.contract
	}
	return contract
}

func (c *Chain) String() string {
	return fmt.Sprintf("chain(%s@%d)", c.contract, c.Height())
}
