package core

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type fixedConfigProvider struct {
	cfg Config
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

type failingConfigLoader struct{}

func (failingConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	return nil, errors.New("config file unreadable")
}

func TestNewService_DefaultDependencies(t *testing.T) {
	svc, err := NewService(Config{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	deps := svc.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.LoggerProvider == nil {
		t.Fatalf("expected default logger provider")
	}
	if deps.ErrorFactory == nil || deps.ErrorMapper == nil {
		t.Fatalf("expected default error factory and mapper")
	}
	if deps.ConfigProvider == nil || deps.OptionsResolver == nil {
		t.Fatalf("expected default config provider and options resolver")
	}
	if deps.RequestStore == nil || deps.EventReader == nil {
		t.Fatalf("expected default memory store to back requests and events")
	}
	cfg := svc.Config()
	if cfg.ServiceName != "frontrun" {
		t.Fatalf("expected default service_name=frontrun, got %q", cfg.ServiceName)
	}
	if cfg.Limits.MaxDescriptionBytes != DefaultMaxDescriptionBytes {
		t.Fatalf("expected default description limit, got %d", cfg.Limits.MaxDescriptionBytes)
	}
	if cfg.Ledger.GenesisHeight != DefaultGenesisHeight {
		t.Fatalf("expected default genesis height, got %d", cfg.Ledger.GenesisHeight)
	}
}

func TestNewService_WithXOverrides(t *testing.T) {
	logger := newCaptureLogger()
	customFactory := func(message string, category ...goerrors.Category) *goerrors.Error {
		return goerrors.New("custom:"+message, category...)
	}
	sentinel := errors.New("sentinel")
	customMapper := func(error) *goerrors.Error {
		return goerrors.Wrap(sentinel, goerrors.CategoryOperation, "mapped")
	}
	store := NewMemoryRequestStore()
	configProvider := &fixedConfigProvider{cfg: Config{ServiceName: "from-provider"}}
	resolved := DefaultConfig()
	resolved.ServiceName = "resolved"
	optionsResolver := &fixedOptionsResolver{cfg: resolved}

	svc, err := NewService(Config{ServiceName: "runtime"},
		WithLogger(logger),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithErrorFactory(customFactory),
		WithErrorMapper(customMapper),
		WithConfigProvider(configProvider),
		WithOptionsResolver(optionsResolver),
		WithRequestStore(store),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	deps := svc.Dependencies()
	if deps.ConfigProvider != configProvider {
		t.Fatalf("expected custom config provider")
	}
	if deps.OptionsResolver != optionsResolver {
		t.Fatalf("expected custom options resolver")
	}
	if deps.RequestStore != store {
		t.Fatalf("expected custom request store")
	}
	if deps.EventReader != store {
		t.Fatalf("expected store to double as event reader")
	}
	if got := deps.ErrorFactory("boom").Message; got != "custom:boom" {
		t.Fatalf("expected custom error factory, got %q", got)
	}
	if got := svc.Config().ServiceName; got != "resolved" {
		t.Fatalf("expected resolver output, got %q", got)
	}

	_, err = svc.GetRequest(context.Background(), 42)
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryOperation {
		t.Fatalf("expected custom mapper to be applied, got %v", err)
	}
}

func TestGoOptionsResolver_LayersRuntimeOverConfigOverDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(StaticConfigLoader{Values: map[string]any{
		"service_name": "from-file",
		"limits": map[string]any{
			"max_description_bytes": 200,
		},
	}})
	runtime := Config{Limits: Limits{MaxTargetRefBytes: 32}}

	svc, err := NewService(runtime, WithConfigProvider(provider))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	cfg := svc.Config()
	if cfg.ServiceName != "from-file" {
		t.Fatalf("expected file service name, got %q", cfg.ServiceName)
	}
	if cfg.Limits.MaxDescriptionBytes != 200 {
		t.Fatalf("expected file description limit 200, got %d", cfg.Limits.MaxDescriptionBytes)
	}
	if cfg.Limits.MaxTargetRefBytes != 32 {
		t.Fatalf("expected runtime target ref limit 32, got %d", cfg.Limits.MaxTargetRefBytes)
	}
	if cfg.Limits.MaxTargetContractBytes != DefaultMaxTargetContractBytes {
		t.Fatalf("expected default target contract limit, got %d", cfg.Limits.MaxTargetContractBytes)
	}
	if cfg.Ledger.ContractName != DefaultContractName {
		t.Fatalf("expected default contract name, got %q", cfg.Ledger.ContractName)
	}
}

func TestNewService_ConfigLoadFailureIsMapped(t *testing.T) {
	_, err := NewService(Config{}, WithConfigProvider(NewCfgxConfigProvider(failingConfigLoader{})))
	if err == nil {
		t.Fatalf("expected config load failure")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	cfg.Limits.MaxTargetRefBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected zero limit to fail validation")
	}
}
