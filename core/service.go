package core

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the request registry. It validates input, consults the lifecycle
// guard and delegates every write to its RequestStore as a single atomic
// operation.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	store           RequestStore
	eventReader     RequestEventReader
	clock           func() time.Time
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	RequestStore    RequestStore
	EventReader     RequestEventReader
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("frontrun", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("frontrun"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.clock == nil {
		builder.clock = func() time.Time { return time.Now().UTC() }
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.requestStore == nil {
		builder.requestStore = NewMemoryRequestStore()
	}
	if builder.eventReader == nil {
		if reader, ok := builder.requestStore.(RequestEventReader); ok {
			builder.eventReader = reader
		}
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		store:           builder.requestStore,
		eventReader:     builder.eventReader,
		clock:           builder.clock,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		ErrorFactory:    s.errorFactory,
		ErrorMapper:     s.errorMapper,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		RequestStore:    s.store,
		EventReader:     s.eventReader,
	}
}

// CreateRequest allocates the next request id and stores an open request
// owned by the caller.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (request Request, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"caller":          in.Caller.String(),
		"target_ref":      in.TargetRef,
		"target_contract": in.TargetContract,
		"bounty":          in.Bounty,
	}
	defer func() {
		if request.ID > 0 {
			fields["request_id"] = uint64(request.ID)
		}
		s.observeOperation(ctx, startedAt, "create_request", err, fields)
	}()

	if err = s.ready(); err != nil {
		return Request{}, err
	}
	if err = in.Validate(s.config.Limits); err != nil {
		err = s.mapError(err)
		return Request{}, err
	}

	request, err = s.store.Create(ctx, NewRequestRecord{
		Owner:          in.Caller,
		TargetRef:      in.TargetRef,
		TargetContract: in.TargetContract,
		Description:    in.Description,
		Bounty:         in.Bounty,
		Call:           CallInfoFromContext(ctx),
		CreatedAt:      s.now(),
	})
	if err != nil {
		err = s.mapError(err)
		return Request{}, err
	}
	return request, nil
}

// CancelRequest flips an open request owned by the caller to cancelled.
func (s *Service) CancelRequest(ctx context.Context, in CancelRequestInput) (ok bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"caller":     in.Caller.String(),
		"request_id": uint64(in.ID),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "cancel_request", err, fields)
	}()

	if err = s.ready(); err != nil {
		return false, err
	}
	if err = in.Validate(); err != nil {
		err = s.mapError(err)
		return false, err
	}

	call := CallInfoFromContext(ctx)
	if call.Sender.IsZero() {
		call.Sender = in.Caller
	}
	now := s.now()
	_, err = s.store.Mutate(ctx, in.ID, call, func(record *Request) error {
		if authErr := AuthorizeCancel(*record, in.Caller); authErr != nil {
			return authErr
		}
		return record.TransitionTo(RequestStatusCancelled, call.BlockHeight, now)
	})
	if err != nil {
		err = s.mapError(err)
		return false, err
	}
	return true, nil
}

func (s *Service) GetRequest(ctx context.Context, id RequestID) (Request, error) {
	if err := s.ready(); err != nil {
		return Request{}, err
	}
	if id == 0 {
		return Request{}, s.mapError(fmt.Errorf("%w: request 0", ErrRequestNotFound))
	}
	request, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, s.mapError(err)
	}
	return request, nil
}

func (s *Service) ListRequestsByOwner(ctx context.Context, owner Principal) ([]Request, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if owner.IsZero() {
		return nil, s.mapError(NewValidationError(goerrors.FieldError{Field: "owner", Message: "owner is required"}))
	}
	requests, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.mapError(err)
	}
	return requests, nil
}

// RequestCount returns the running request counter, which equals the last
// assigned id.
func (s *Service) RequestCount(ctx context.Context) (uint64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, s.mapError(err)
	}
	return count, nil
}

func (s *Service) ListRequestEvents(ctx context.Context, id RequestID) ([]RequestEvent, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.eventReader == nil {
		return nil, s.mapError(goerrors.New("core: request event reader is not configured", goerrors.CategoryInternal))
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, s.mapError(err)
	}
	events, err := s.eventReader.ListEvents(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return events, nil
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return ensureServiceErrorEnvelope(
			goerrors.New("core: request store is not configured", goerrors.CategoryInternal),
		)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s == nil || s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	mapper := defaultErrorMapper
	if s != nil && s.errorMapper != nil {
		mapper = s.errorMapper
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
