package sqlstore

import (
	"context"
	"fmt"

	"github.com/goliatone/go-frontrun/core"
	glog "github.com/goliatone/go-logger/glog"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const requestCacheKeyPrefix = "go-frontrun::request::v1"

// CachedRequestStore is a read-through cache for Get. Mutate invalidates the
// entry after the base write commits; Create needs no invalidation since ids
// are never reused.
type CachedRequestStore struct {
	base   core.RequestStore
	cache  repositorycache.CacheService
	logger core.Logger
}

func NewCachedRequestStore(base core.RequestStore, cacheService repositorycache.CacheService) (*CachedRequestStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base request store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: request cache service is required")
	}
	return &CachedRequestStore{base: base, cache: cacheService, logger: glog.Nop()}, nil
}

func (s *CachedRequestStore) SetLogger(logger core.Logger) {
	if s == nil {
		return
	}
	s.logger = glog.Ensure(logger)
}

// RequestCacheKey returns go-frontrun::request::v1::<id>.
func RequestCacheKey(id core.RequestID) string {
	return requestCacheKeyPrefix + "::" + id.String()
}

func (s *CachedRequestStore) Create(ctx context.Context, in core.NewRequestRecord) (core.Request, error) {
	if s == nil || s.base == nil {
		return core.Request{}, fmt.Errorf("sqlstore: cached request store is not configured")
	}
	return s.base.Create(ctx, in)
}

func (s *CachedRequestStore) Get(ctx context.Context, id core.RequestID) (core.Request, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Request{}, fmt.Errorf("sqlstore: cached request store is not configured")
	}
	return repositorycache.GetOrFetch(ctx, s.cache, RequestCacheKey(id), func(ctx context.Context) (core.Request, error) {
		return s.base.Get(ctx, id)
	})
}

func (s *CachedRequestStore) Mutate(
	ctx context.Context,
	id core.RequestID,
	call core.CallInfo,
	fn func(*core.Request) error,
) (core.Request, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Request{}, fmt.Errorf("sqlstore: cached request store is not configured")
	}
	updated, err := s.base.Mutate(ctx, id, call, fn)
	if err != nil {
		return core.Request{}, err
	}
	// The write is committed; a failed invalidation is reported, not returned.
	if err := s.cache.Delete(ctx, RequestCacheKey(id)); err != nil {
		glog.Ensure(s.logger).Error("request cache invalidation failed",
			"request_id", uint64(id),
			"cache_key", RequestCacheKey(id),
			"error", err,
		)
	}
	return updated, nil
}

func (s *CachedRequestStore) ListByOwner(ctx context.Context, owner core.Principal) ([]core.Request, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached request store is not configured")
	}
	return s.base.ListByOwner(ctx, owner)
}

func (s *CachedRequestStore) Count(ctx context.Context) (uint64, error) {
	if s == nil || s.base == nil {
		return 0, fmt.Errorf("sqlstore: cached request store is not configured")
	}
	return s.base.Count(ctx)
}

// ListEvents delegates when the base store keeps the audit trail.
func (s *CachedRequestStore) ListEvents(ctx context.Context, id core.RequestID) ([]core.RequestEvent, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached request store is not configured")
	}
	reader, ok := s.base.(core.RequestEventReader)
	if !ok {
		return nil, fmt.Errorf("sqlstore: base request store does not record events")
	}
	return reader.ListEvents(ctx, id)
}
