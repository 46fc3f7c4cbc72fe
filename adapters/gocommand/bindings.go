package gocommand

import (
	"context"
	"fmt"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	frontruncommand "github.com/goliatone/go-frontrun/command"
	"github.com/goliatone/go-frontrun/core"
	frontrunquery "github.com/goliatone/go-frontrun/query"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

// Bindings tracks the dispatcher subscriptions for one registry service.
// The dispatcher is process-global, so only one set should be live at a time.
type Bindings struct {
	subscriptions []commanddispatcher.Subscription
}

// BindRegistry registers and subscribes every registry command and query.
// On failure any subscriptions made so far are released.
func BindRegistry(
	adapter *RegistryAdapter,
	service core.RegistryService,
	runnerOpts ...runner.Option,
) (*Bindings, error) {
	if service == nil {
		return nil, fmt.Errorf("gocommand: registry service is required")
	}
	bindings := &Bindings{}
	steps := []func() (commanddispatcher.Subscription, error){
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe[frontruncommand.CreateRequestMessage](
				adapter, frontruncommand.NewCreateRequestCommand(service), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe[frontruncommand.CancelRequestMessage](
				adapter, frontruncommand.NewCancelRequestCommand(service), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[frontrunquery.GetRequestMessage, core.Request](
				adapter, frontrunquery.NewGetRequestQuery(service), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[frontrunquery.ListRequestsByOwnerMessage, []core.Request](
				adapter, frontrunquery.NewListRequestsByOwnerQuery(service), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[frontrunquery.RequestCountMessage, uint64](
				adapter, frontrunquery.NewRequestCountQuery(service), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery[frontrunquery.ListRequestEventsMessage, []core.RequestEvent](
				adapter, frontrunquery.NewListRequestEventsQuery(service), runnerOpts...)
		},
	}
	for _, step := range steps {
		subscription, err := step()
		if err != nil {
			bindings.Close()
			return nil, err
		}
		bindings.subscriptions = append(bindings.subscriptions, subscription)
	}
	return bindings, nil
}

func (b *Bindings) Close() {
	if b == nil {
		return
	}
	for _, subscription := range b.subscriptions {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

// CreateRequest dispatches a create command and returns the stored request.
func CreateRequest(ctx context.Context, in core.CreateRequestInput) (core.Request, error) {
	collector := command.NewResult[core.Request]()
	ctx = command.ContextWithResult(ctx, collector)
	if err := dispatchEnvelope(ctx, frontruncommand.CreateRequestMessage{Input: in}); err != nil {
		return core.Request{}, err
	}
	out, ok := collector.Load()
	if !ok {
		return core.Request{}, fmt.Errorf("gocommand: create request produced no result")
	}
	return out, nil
}

func CancelRequest(ctx context.Context, in core.CancelRequestInput) (bool, error) {
	collector := command.NewResult[bool]()
	ctx = command.ContextWithResult(ctx, collector)
	if err := dispatchEnvelope(ctx, frontruncommand.CancelRequestMessage{Input: in}); err != nil {
		return false, err
	}
	out, ok := collector.Load()
	if !ok {
		return false, fmt.Errorf("gocommand: cancel request produced no result")
	}
	return out, nil
}

func GetRequest(ctx context.Context, id core.RequestID) (core.Request, error) {
	return queryEnvelope[frontrunquery.GetRequestMessage, core.Request](ctx, frontrunquery.GetRequestMessage{ID: id})
}

func ListRequestsByOwner(ctx context.Context, owner core.Principal) ([]core.Request, error) {
	return queryEnvelope[frontrunquery.ListRequestsByOwnerMessage, []core.Request](
		ctx, frontrunquery.ListRequestsByOwnerMessage{Owner: owner})
}

func RequestCount(ctx context.Context) (uint64, error) {
	return queryEnvelope[frontrunquery.RequestCountMessage, uint64](ctx, frontrunquery.RequestCountMessage{})
}

func ListRequestEvents(ctx context.Context, id core.RequestID) ([]core.RequestEvent, error) {
	return queryEnvelope[frontrunquery.ListRequestEventsMessage, []core.RequestEvent](
		ctx, frontrunquery.ListRequestEventsMessage{ID: id})
}

// The dispatcher relabels handler failures; the category survives, so
// mapping restores the registry text code.
func queryEnvelope[T any, R any](ctx context.Context, msg T) (R, error) {
	out, err := Query[T, R](ctx, msg)
	if err != nil {
		return out, core.MapError(err)
	}
	return out, nil
}

func dispatchEnvelope[T any](ctx context.Context, msg T) error {
	if err := Dispatch(ctx, msg); err != nil {
		return core.MapError(err)
	}
	return nil
}

// MirrorCommands publishes the registry commands into queueRegistry so a
// go-job worker can resolve them by message type. Queries are not mirrored.
func MirrorCommands(queueRegistry *jobqueuecommand.Registry, service core.RegistryService) error {
	if service == nil {
		return fmt.Errorf("gocommand: registry service is required")
	}
	adapter := NewRegistryAdapter(nil)
	if err := adapter.AddQueueResolver(queueRegistry); err != nil {
		return err
	}
	if err := adapter.RegisterCommand(frontruncommand.NewCreateRequestCommand(service)); err != nil {
		return err
	}
	if err := adapter.RegisterCommand(frontruncommand.NewCancelRequestCommand(service)); err != nil {
		return err
	}
	return adapter.Initialize()
}
