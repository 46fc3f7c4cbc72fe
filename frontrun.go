package frontrun

import "github.com/goliatone/go-frontrun/core"

type Config = core.Config

type Limits = core.Limits

type LedgerConfig = core.LedgerConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type RegistryService = core.RegistryService
type RequestStore = core.RequestStore
type RequestEventReader = core.RequestEventReader
type MetricsRecorder = core.MetricsRecorder

type Request = core.Request
type RequestID = core.RequestID
type RequestEvent = core.RequestEvent
type Principal = core.Principal

type CreateRequestInput = core.CreateRequestInput

type CancelRequestInput = core.CancelRequestInput

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithMetricsRecorder    = core.WithMetricsRecorder
	WithErrorFactory       = core.WithErrorFactory
	WithErrorMapper        = core.WithErrorMapper
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver
	WithRequestStore       = core.WithRequestStore
	WithRequestEventReader = core.WithRequestEventReader
	WithClock              = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
