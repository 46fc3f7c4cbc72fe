package frontrun

import (
	"context"
	"testing"

	frontruncommand "github.com/goliatone/go-frontrun/command"
	"github.com/goliatone/go-frontrun/adapters/gocommand"
	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	frontrunquery "github.com/goliatone/go-frontrun/query"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

const facadeOwner core.Principal = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	facade, err := NewFacade(&stubFacadeService{})
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.CreateRequest == nil || commands.CancelRequest == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.GetRequest == nil || queries.ListRequestsByOwner == nil || queries.RequestCount == nil || queries.ListRequestEvents == nil {
		t.Fatalf("expected query handlers to be wired")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	svc := &stubFacadeService{}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	if err := facade.Commands().CancelRequest.Execute(context.Background(), frontruncommand.CancelRequestMessage{
		Input: core.CancelRequestInput{Caller: facadeOwner, ID: 3},
	}); err != nil {
		t.Fatalf("execute cancel command: %v", err)
	}
	if svc.lastCancel.ID != 3 || svc.lastCancel.Caller != facadeOwner {
		t.Fatalf("unexpected cancel delegation payload: %#v", svc.lastCancel)
	}

	request, err := facade.Queries().GetRequest.Query(context.Background(), frontrunquery.GetRequestMessage{ID: 3})
	if err != nil {
		t.Fatalf("query get request: %v", err)
	}
	if request.ID != 3 || request.Owner != facadeOwner {
		t.Fatalf("unexpected get request result: %#v", request)
	}

	count, err := facade.Queries().RequestCount.Query(context.Background(), frontrunquery.RequestCountMessage{})
	if err != nil {
		t.Fatalf("query request count: %v", err)
	}
	if count != 3 {
		t.Fatalf("unexpected request count %d", count)
	}
}

func TestFacade_NewChainRunsRegistryScenario(t *testing.T) {
	svc, err := NewService(DefaultConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	chain, err := facade.NewChain(context.Background())
	if err != nil {
		t.Fatalf("new chain: %v", err)
	}

	block, err := chain.MineBlock(context.Background(), []ledger.Call{
		ledger.ContractCall(core.DefaultContractName, ledger.FunctionCreateSearch, []ledger.Value{
			ledger.ASCII("STX123456"),
			ledger.ASCII("TestContract"),
			ledger.UTF8("Test search for potential frontrunning"),
			ledger.Uint(5000000),
		}, facadeOwner),
	})
	if err != nil {
		t.Fatalf("mine block: %v", err)
	}
	if block.Height != 2 {
		t.Fatalf("expected block height 2, got %d", block.Height)
	}
	if got := block.Receipts[0].Result.String(); got != "(ok u1)" {
		t.Fatalf("expected (ok u1), got %s", got)
	}
}

func TestFacade_BindDispatcherRoutesRegistry(t *testing.T) {
	svc, err := NewService(DefaultConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	queueRegistry := jobqueuecommand.NewRegistry()
	bindings, err := facade.BindDispatcher(queueRegistry)
	if err != nil {
		t.Fatalf("bind dispatcher: %v", err)
	}
	defer bindings.Close()

	ctx := context.Background()
	created, err := gocommand.CreateRequest(ctx, core.CreateRequestInput{
		Caller:         facadeOwner,
		TargetRef:      "STX123456",
		TargetContract: "TestContract",
		Description:    "Test search for potential frontrunning",
		Bounty:         5000000,
	})
	if err != nil {
		t.Fatalf("dispatch create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}
	count, err := gocommand.RequestCount(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected count 1 through dispatcher, got %d (%v)", count, err)
	}
	if _, err := gocommand.GetRequest(ctx, 0); !core.IsNotFound(err) {
		t.Fatalf("expected not found for id 0, got %v", err)
	}
	if _, ok := queueRegistry.Get(frontruncommand.TypeCancelRequest); !ok {
		t.Fatalf("expected cancel command in queue registry")
	}

	var empty *Facade
	if _, err := empty.BindDispatcher(nil); err == nil {
		t.Fatalf("expected nil facade to fail")
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
	var empty *Facade
	if _, err := empty.NewChain(context.Background()); err == nil {
		t.Fatalf("expected nil facade chain to fail")
	}
}

type stubFacadeService struct {
	lastCancel core.CancelRequestInput
}

func (s *stubFacadeService) CreateRequest(_ context.Context, in core.CreateRequestInput) (core.Request, error) {
	return core.Request{ID: 1, Owner: in.Caller, Status: core.RequestStatusOpen}, nil
}

func (s *stubFacadeService) CancelRequest(_ context.Context, in core.CancelRequestInput) (bool, error) {
	s.lastCancel = in
	return true, nil
}

func (s *stubFacadeService) GetRequest(_ context.Context, id core.RequestID) (core.Request, error) {
	return core.Request{ID: id, Owner: facadeOwner, Status: core.RequestStatusOpen}, nil
}

func (s *stubFacadeService) ListRequestsByOwner(context.Context, core.Principal) ([]core.Request, error) {
	return nil, nil
}

func (s *stubFacadeService) RequestCount(context.Context) (uint64, error) {
	return 3, nil
}

func (s *stubFacadeService) ListRequestEvents(context.Context, core.RequestID) ([]core.RequestEvent, error) {
	return nil, nil
}

var _ core.RegistryService = (*stubFacadeService)(nil)
