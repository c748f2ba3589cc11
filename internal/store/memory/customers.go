package memory

import (
	"context"
	"sort"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// customers implements store.CustomerRepository on the in-memory store.
// customers 在内存存储上实现store.CustomerRepository。
type customers struct {
	store *Store
}

func (r *customers) List(ctx context.Context, opts store.ListOptions) ([]model.Customer, int64, error) {
	var matched []model.Customer
	for _, c := range r.store.customers.snapshot() {
		c := c
		if matchFilter(opts.Filter, func(name string) any { return customerField(c, name) }) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if opts.Sort.Desc {
			return lessByField(customerField(matched[j], opts.Sort.Field), customerField(matched[i], opts.Sort.Field))
		}
		return lessByField(customerField(matched[i], opts.Sort.Field), customerField(matched[j], opts.Sort.Field))
	})

	total := int64(len(matched))
	start, end := query.SliceBounds(total, opts.Page, opts.Limit)
	return matched[start:end], total, nil
}

func (r *customers) Get(ctx context.Context, id string) (*model.Customer, error) {
	c, ok := r.store.customers.get(id)
	if !ok {
		return nil, errors.NotFound("customer")
	}
	return &c, nil
}

func (r *customers) Update(ctx context.Context, id string, upd store.CustomerUpdate) (*model.Customer, error) {
	c, ok := r.store.customers.get(id)
	if !ok {
		return nil, errors.NotFound("customer")
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	r.store.customers.put(id, c)
	return &c, nil
}

func (r *customers) Delete(ctx context.Context, id string) (*model.Customer, error) {
	c, ok := r.store.customers.delete(id)
	if !ok {
		return nil, errors.NotFound("customer")
	}
	return &c, nil
}
