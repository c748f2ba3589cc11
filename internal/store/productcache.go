package store

import (
	"context"

	"github.com/weblarek/backend/internal/cache"
	"github.com/weblarek/backend/internal/model"
)

// CachedProducts wraps a ProductRepository with a read-through cache for
// single-record lookups. Listings bypass the cache: they are page-shaped
// and cheap at the store.
//
// CachedProducts 用读穿缓存包装ProductRepository，用于单记录查询。
// 列表绕过缓存：它们是分页形状的，在存储层开销很低。
type CachedProducts struct {
	inner ProductRepository
	cache *cache.Cache
}

// NewCachedProducts creates the read-through wrapper.
// NewCachedProducts 创建读穿包装器。
func NewCachedProducts(inner ProductRepository, c *cache.Cache) *CachedProducts {
	return &CachedProducts{inner: inner, cache: c}
}

func (r *CachedProducts) List(ctx context.Context, page, limit int64) ([]model.Product, int64, error) {
	return r.inner.List(ctx, page, limit)
}

func (r *CachedProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	if v, ok := r.cache.Get(id); ok {
		p := v.(model.Product)
		return &p, nil
	}
	p, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(id, *p)
	return p, nil
}

// GetByIDs serves as many records as possible from the cache and fetches
// only the misses, caching them for subsequent requests.
//
// GetByIDs 尽可能从缓存提供记录，只获取未命中的部分，并缓存供后续请求使用。
func (r *CachedProducts) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	var out []model.Product
	var misses []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if v, ok := r.cache.Get(id); ok {
			out = append(out, v.(model.Product))
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := r.inner.GetByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, p := range fetched {
		r.cache.Set(p.ID, p)
		out = append(out, p)
	}
	return out, nil
}
