package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// orders implements store.OrderRepository on the in-memory store.
// orders 在内存存储上实现store.OrderRepository。
type orders struct {
	store *Store
}

func (r *orders) List(ctx context.Context, opts store.ListOptions) ([]model.Order, int64, error) {
	matched := r.matching(opts.Filter, opts.Sort)
	total := int64(len(matched))
	start, end := query.SliceBounds(total, opts.Page, opts.Limit)
	return matched[start:end], total, nil
}

func (r *orders) ListAll(ctx context.Context, filter query.Filter, s query.Sort) ([]model.Order, error) {
	return r.matching(filter, s), nil
}

// Search applies the filter, then the product-title / order-number
// predicate, then slices — the same stage order as the aggregation
// pipeline, so both engines return the same ID sets for the same inputs.
//
// Search 先应用过滤器，再应用产品标题/订单号谓词，然后切片——与聚合管道
// 的阶段顺序相同，因此对相同输入两种引擎返回相同的ID集合。
func (r *orders) Search(ctx context.Context, opts store.ListOptions, term string) ([]model.Order, int64, error) {
	if err := query.SanitizeAggregate(opts.Filter); err != nil {
		return nil, 0, err
	}
	re, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compile search term: %w", err)
	}
	var number *int64
	if n, err := strconv.ParseInt(term, 10, 64); err == nil {
		number = &n
	}

	var matched []model.Order
	for _, o := range r.matching(opts.Filter, opts.Sort) {
		if r.orderMatchesTerm(o, re, number) {
			matched = append(matched, o)
		}
	}
	total := int64(len(matched))
	start, end := query.SliceBounds(total, opts.Page, opts.Limit)
	return matched[start:end], total, nil
}

func (r *orders) orderMatchesTerm(o model.Order, re *regexp.Regexp, number *int64) bool {
	for _, pid := range o.Products {
		if p, ok := r.store.products.get(pid); ok && re.MatchString(p.Title) {
			return true
		}
	}
	return number != nil && *number == o.OrderNumber
}

// SearchOwners collects the distinct owners of orders matched by the same
// predicate Search uses, with no customer-side filter applied.
//
// SearchOwners 收集被与Search相同谓词匹配的订单的去重所有者，
// 不应用任何顾客侧过滤器。
func (r *orders) SearchOwners(ctx context.Context, term string) ([]string, error) {
	re, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return nil, fmt.Errorf("failed to compile search term: %w", err)
	}
	var number *int64
	if n, err := strconv.ParseInt(term, 10, 64); err == nil {
		number = &n
	}

	seen := make(map[string]struct{})
	var owners []string
	for _, o := range r.store.orders.snapshot() {
		if !r.orderMatchesTerm(o, re, number) {
			continue
		}
		if _, ok := seen[o.CustomerID]; ok {
			continue
		}
		seen[o.CustomerID] = struct{}{}
		owners = append(owners, o.CustomerID)
	}
	return owners, nil
}

func (r *orders) GetByNumber(ctx context.Context, number int64) (*model.Order, error) {
	for _, o := range r.store.orders.snapshot() {
		if o.OrderNumber == number {
			o := o
			return &o, nil
		}
	}
	return nil, errors.NotFound("order")
}

func (r *orders) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	stored := *o
	stored.ID = newID()
	stored.OrderNumber = r.store.orderNumber.Add(1)
	r.store.orders.put(stored.ID, stored)
	return &stored, nil
}

func (r *orders) UpdateStatus(ctx context.Context, number int64, status model.Status) (*model.Order, error) {
	existing, err := r.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	existing.Status = status
	r.store.orders.put(existing.ID, *existing)
	return existing, nil
}

func (r *orders) Delete(ctx context.Context, id string) (*model.Order, error) {
	o, ok := r.store.orders.delete(id)
	if !ok {
		return nil, errors.NotFound("order")
	}
	return &o, nil
}

func (r *orders) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	var deleted int64
	for _, o := range r.store.orders.snapshot() {
		if o.CustomerID == customerID {
			if _, ok := r.store.orders.delete(o.ID); ok {
				deleted++
			}
		}
	}
	return deleted, nil
}

// matching snapshots the collection, filters and sorts it.
// matching 对集合做快照，然后过滤并排序。
func (r *orders) matching(f query.Filter, s query.Sort) []model.Order {
	var matched []model.Order
	for _, o := range r.store.orders.snapshot() {
		o := o
		if matchFilter(f, func(name string) any { return orderField(o, name) }) {
			matched = append(matched, o)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		less := lessByField(orderField(matched[i], s.Field), orderField(matched[j], s.Field))
		if s.Desc {
			return lessByField(orderField(matched[j], s.Field), orderField(matched[i], s.Field))
		}
		return less
	})
	return matched
}
