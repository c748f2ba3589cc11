package memory

import (
	"context"
	"sort"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/pkg/errors"
)

// products implements store.ProductRepository on the in-memory store.
// products 在内存存储上实现store.ProductRepository。
type products struct {
	store *Store
}

func (r *products) List(ctx context.Context, page, limit int64) ([]model.Product, int64, error) {
	all := r.store.products.snapshot()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	total := int64(len(all))
	start, end := query.SliceBounds(total, page, limit)
	return all[start:end], total, nil
}

func (r *products) Get(ctx context.Context, id string) (*model.Product, error) {
	p, ok := r.store.products.get(id)
	if !ok {
		return nil, errors.NotFound("product")
	}
	return &p, nil
}

func (r *products) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	var out []model.Product
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.store.products.get(id); ok {
			out = append(out, p)
		}
	}
	return out, nil
}
