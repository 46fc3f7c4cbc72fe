package sqlstore

import (
	"fmt"
	"time"

	"github.com/goliatone/go-frontrun/core"
	"github.com/goliatone/go-frontrun/ledger"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	requestStore *RequestStore
	blockStore   *BlockStore
	cached       *CachedRequestStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

// BuildStores accepts a *bun.DB or anything exposing DB() *bun.DB, such as a
// go-persistence-bun client.
func (f *RepositoryFactory) BuildStores(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return err
		}
		f.db = db
	}
	if f.requestStore != nil && f.blockStore != nil {
		return nil
	}
	requestStore, err := NewRequestStore(f.db)
	if err != nil {
		return err
	}
	blockStore, err := NewBlockStore(f.db)
	if err != nil {
		return err
	}
	f.requestStore = requestStore
	f.blockStore = blockStore
	return nil
}

// EnableRequestCache wraps the request store with a read-through cache. A
// zero ttl keeps the cache defaults.
func (f *RepositoryFactory) EnableRequestCache(ttl time.Duration) error {
	if f == nil || f.requestStore == nil {
		return fmt.Errorf("sqlstore: stores are not built")
	}
	config := repositorycache.DefaultConfig()
	if ttl > 0 {
		config.TTL = ttl
	}
	cacheService, err := repositorycache.NewCacheService(config)
	if err != nil {
		return fmt.Errorf("sqlstore: request cache: %w", err)
	}
	cached, err := NewCachedRequestStore(f.requestStore, cacheService)
	if err != nil {
		return err
	}
	f.cached = cached
	return nil
}

// SetLogger routes cache invalidation failures to logger.
func (f *RepositoryFactory) SetLogger(logger core.Logger) {
	if f == nil || f.cached == nil {
		return
	}
	f.cached.SetLogger(logger)
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

// RequestStore returns the cached store when the cache is enabled.
func (f *RepositoryFactory) RequestStore() core.RequestStore {
	if f == nil {
		return nil
	}
	if f.cached != nil {
		return f.cached
	}
	return f.requestStore
}

func (f *RepositoryFactory) BlockStore() ledger.BlockStore {
	if f == nil {
		return nil
	}
	return f.blockStore
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
