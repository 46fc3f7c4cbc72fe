package gocommand

import (
	"context"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-frontrun/core"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

// QueueResolverKey names the resolver that mirrors registry commands into a
// go-job queue registry.
const QueueResolverKey = "frontrun.queue"

func adapterError(message string) error {
	return core.MapError(goerrors.New("gocommand: "+message, goerrors.CategoryInternal).
		WithTextCode(core.ErrorInternal))
}

// ValidateMessageContract checks that msg names a message type and passes
// its own Validate. Failures carry the registry error envelope.
func ValidateMessageContract(msg any) error {
	if command.IsNilMessage(msg) {
		return core.NewValidationError(goerrors.FieldError{Field: "message", Message: "message is required"})
	}
	typed, ok := msg.(command.Message)
	if !ok || strings.TrimSpace(typed.Type()) == "" {
		return core.NewValidationError(goerrors.FieldError{Field: "type", Message: "message type is required"})
	}
	if validator, ok := msg.(interface{ Validate() error }); ok {
		if err := validator.Validate(); err != nil {
			var rich *goerrors.Error
			if goerrors.As(err, &rich) {
				return core.MapError(rich)
			}
			return core.NewValidationError(goerrors.FieldError{Field: "message", Message: err.Error()})
		}
	}
	return nil
}

// RegistryAdapter records registry commands and queries with a go-command
// registry and runs its resolvers on Initialize.
type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) ready() error {
	if a == nil || a.registry == nil {
		return adapterError("registry is not configured")
	}
	return nil
}

// RegisterCommand records a commander or querier. Queries share the command
// registry since it only tracks message metadata.
func (a *RegistryAdapter) RegisterCommand(handler any) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.registry.RegisterCommand(handler)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

// AddQueueResolver mirrors every registered registry command into
// queueRegistry on Initialize, so a go-job worker can resolve them by type.
func (a *RegistryAdapter) AddQueueResolver(queueRegistry *jobqueuecommand.Registry) error {
	if queueRegistry == nil {
		return adapterError("queue registry is required")
	}
	return a.AddResolver(QueueResolverKey, jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a.ready() != nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.registry.Initialize()
}

// register subscribes first so a failed registration can be unwound.
func (a *RegistryAdapter) register(handler any, subscribe func() commanddispatcher.Subscription) (commanddispatcher.Subscription, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	subscription := subscribe()
	if err := a.registry.RegisterCommand(handler); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if cmd == nil {
		return nil, adapterError("command is required")
	}
	return adapter.register(cmd, func() commanddispatcher.Subscription {
		return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	})
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if qry == nil {
		return nil, adapterError("query is required")
	}
	return adapter.register(qry, func() commanddispatcher.Subscription {
		return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	})
}
