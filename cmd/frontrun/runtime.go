package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	frontrun "github.com/goliatone/go-frontrun"
	"github.com/goliatone/go-frontrun/adapters/gocommand"
	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	frontrunmetrics "github.com/goliatone/go-frontrun/metrics"
	frontrunmigrations "github.com/goliatone/go-frontrun/migrations"
	sqlstore "github.com/goliatone/go-frontrun/store/sql"
	glog "github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"gopkg.in/yaml.v3"
)

type persistenceConfig struct {
	driver string
	server string
	debug  bool
}

func (c persistenceConfig) GetDebug() bool {
	return c.debug
}

func (c persistenceConfig) GetDriver() string {
	return c.driver
}

func (c persistenceConfig) GetServer() string {
	return c.server
}

func (c persistenceConfig) GetPingTimeout() time.Duration {
	return 5 * time.Second
}

func (c persistenceConfig) GetOtelIdentifier() string {
	return "go-frontrun"
}

// yamlConfigLoader reads the layered service config from a YAML file.
type yamlConfigLoader struct {
	path string
}

func (l yamlConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", l.path, err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", l.path, err)
	}
	return values, nil
}

// registryReader is the read side used by list and events.
type registryReader interface {
	ListRequestsByOwner(ctx context.Context, owner core.Principal) ([]core.Request, error)
	ListRequestEvents(ctx context.Context, id core.RequestID) ([]core.RequestEvent, error)
}

// dispatchReader answers reads through the go-command dispatcher.
type dispatchReader struct{}

func (dispatchReader) ListRequestsByOwner(ctx context.Context, owner core.Principal) ([]core.Request, error) {
	return gocommand.ListRequestsByOwner(ctx, owner)
}

func (dispatchReader) ListRequestEvents(ctx context.Context, id core.RequestID) ([]core.RequestEvent, error) {
	return gocommand.ListRequestEvents(ctx, id)
}

type runtime struct {
	client   *persistence.Client
	factory  *sqlstore.RepositoryFactory
	service  *core.Service
	reader   registryReader
	bindings *gocommand.Bindings
	chain    *ledger.Chain
	registry *prometheus.Registry
	logSync  func() error

	metricsPath string
}

func openRuntime(ctx context.Context, opts *rootOptions, stderr io.Writer) (*runtime, error) {
	dialect, err := frontrunmigrations.DialectForDriver(opts.driver)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(opts.driver, opts.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == frontrunmigrations.DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	cfg := persistenceConfig{driver: opts.driver, server: opts.dsn}
	var client *persistence.Client
	switch dialect {
	case frontrunmigrations.DialectPostgres:
		client, err = persistence.New(cfg, sqlDB, pgdialect.New())
	default:
		client, err = persistence.New(cfg, sqlDB, sqlitedialect.New())
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("persistence client: %w", err)
	}

	rt := &runtime{client: client, metricsPath: opts.metricsPath}
	if err := rt.init(ctx, dialect, opts, stderr); err != nil {
		rt.bindings.Close()
		_ = client.Close()
		return nil, err
	}
	return rt, nil
}

func (r *runtime) init(ctx context.Context, dialect string, opts *rootOptions, stderr io.Writer) error {
	if _, err := frontrunmigrations.RegisterDialect(ctx, dialect, func(fsys fs.FS) {
		r.client.RegisterSQLMigrations(fsys)
	}); err != nil {
		return fmt.Errorf("register migrations: %w", err)
	}
	if err := r.client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(r.client)
	if err != nil {
		return err
	}
	if err := factory.EnableRequestCache(time.Minute); err != nil {
		return err
	}
	r.factory = factory

	var logger core.Logger = glog.Nop()
	if opts.verbose {
		zl := newZapLogger(stderr, true)
		r.logSync = zl.Sync
		logger = zl
	}
	factory.SetLogger(logger)
	r.registry = prometheus.NewRegistry()

	serviceOpts := []core.Option{
		core.WithRequestStore(factory.RequestStore()),
		core.WithLogger(logger),
		core.WithLoggerProvider(glog.ProviderFromLogger(logger)),
		core.WithMetricsRecorder(frontrunmetrics.NewPrometheusRecorder(r.registry)),
	}
	if path := strings.TrimSpace(opts.configPath); path != "" {
		serviceOpts = append(serviceOpts, core.WithConfigProvider(core.NewCfgxConfigProvider(yamlConfigLoader{path: path})))
	}
	service, err := core.NewService(core.DefaultConfig(), serviceOpts...)
	if err != nil {
		return err
	}
	r.service = service
	r.reader = service
	if opts.dispatcher {
		facade, err := frontrun.NewFacade(service)
		if err != nil {
			return err
		}
		bindings, err := facade.BindDispatcher(nil)
		if err != nil {
			return err
		}
		r.bindings = bindings
		r.reader = dispatchReader{}
	}

	ledgerCfg := service.Config().Ledger
	chain, err := ledger.NewChain(ctx, service,
		ledger.WithBlockStore(factory.BlockStore()),
		ledger.WithGenesisHeight(ledgerCfg.GenesisHeight),
		ledger.WithContractName(ledgerCfg.ContractName),
		ledger.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	r.chain = chain
	return nil
}

// Close flushes metrics when requested and releases the database.
func (r *runtime) Close() error {
	if r == nil {
		return nil
	}
	var metricsErr error
	if path := strings.TrimSpace(r.metricsPath); path != "" && r.registry != nil {
		metricsErr = prometheus.WriteToTextfile(path, r.registry)
	}
	r.bindings.Close()
	if r.logSync != nil {
		_ = r.logSync()
	}
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			return err
		}
	}
	return metricsErr
}
