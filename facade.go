package frontrun

import (
	"context"
	"fmt"

	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-frontrun/adapters/gocommand"
	frontruncommand "github.com/goliatone/go-frontrun/command"
	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	frontrunquery "github.com/goliatone/go-frontrun/query"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

type Commands struct {
	CreateRequest *frontruncommand.CreateRequestCommand
	CancelRequest *frontruncommand.CancelRequestCommand
}

type Queries struct {
	GetRequest          *frontrunquery.GetRequestQuery
	ListRequestsByOwner *frontrunquery.ListRequestsByOwnerQuery
	RequestCount        *frontrunquery.RequestCountQuery
	ListRequestEvents   *frontrunquery.ListRequestEventsQuery
}

// Facade bundles the command and query handlers for one registry service.
type Facade struct {
	service  core.RegistryService
	commands Commands
	queries  Queries
}

func NewFacade(service core.RegistryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("frontrun: registry service is required")
	}
	facade := &Facade{service: service}
	facade.commands = Commands{
		CreateRequest: frontruncommand.NewCreateRequestCommand(service),
		CancelRequest: frontruncommand.NewCancelRequestCommand(service),
	}
	facade.queries = Queries{
		GetRequest:          frontrunquery.NewGetRequestQuery(service),
		ListRequestsByOwner: frontrunquery.NewListRequestsByOwnerQuery(service),
		RequestCount:        frontrunquery.NewRequestCountQuery(service),
		ListRequestEvents:   frontrunquery.NewListRequestEventsQuery(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() core.RegistryService {
	if f == nil {
		return nil
	}
	return f.service
}

// NewChain starts a simulated chain hosting the facade's registry service.
func (f *Facade) NewChain(ctx context.Context, opts ...ledger.Option) (*ledger.Chain, error) {
	if f == nil || f.service == nil {
		return nil, fmt.Errorf("frontrun: facade is not configured")
	}
	return ledger.NewChain(ctx, f.service, opts...)
}

// BindDispatcher routes the registry through the process-wide go-command
// dispatcher. When queueRegistry is set the commands are also published to
// it for go-job workers. Callers must Close the returned bindings.
func (f *Facade) BindDispatcher(queueRegistry *jobqueuecommand.Registry, runnerOpts ...runner.Option) (*gocommand.Bindings, error) {
	if f == nil || f.service == nil {
		return nil, fmt.Errorf("frontrun: facade is not configured")
	}
	adapter := gocommand.NewRegistryAdapter(nil)
	bindings, err := gocommand.BindRegistry(adapter, f.service, runnerOpts...)
	if err != nil {
		return nil, err
	}
	if err := adapter.Initialize(); err != nil {
		bindings.Close()
		return nil, err
	}
	if queueRegistry != nil {
		if err := gocommand.MirrorCommands(queueRegistry, f.service); err != nil {
			bindings.Close()
			return nil, err
		}
	}
	return bindings, nil
}
