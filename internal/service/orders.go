package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/auth"
	"github.com/weblarek/backend/internal/events"
	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/sanitize"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// Orders carries the order use cases: gated listing, the cross-collection
// search, basket-validated creation and the status lifecycle. Lifecycle
// changes are announced on the event bus best-effort; a publish failure is
// logged and never fails the request.
//
// Orders 承载订单用例：受闸门保护的列表、跨集合搜索、经购物篮校验的创建
// 以及状态生命周期。生命周期变化尽力在事件总线上广播；
// 发布失败只记录日志，绝不使请求失败。
type Orders struct {
	orders   store.OrderRepository
	products store.ProductRepository
	bus      events.Publisher
	log      *zap.Logger
}

func NewOrders(orders store.OrderRepository, products store.ProductRepository, bus events.Publisher, log *zap.Logger) *Orders {
	return &Orders{orders: orders, products: products, bus: bus, log: log}
}

// OrderCreateInput is the validated shape of an order submission. Items are
// product ids; Total must equal the sum of their prices exactly.
//
// OrderCreateInput 是订单提交的已校验形状。Items是产品id；
// Total必须与它们的价格之和完全相等。
type OrderCreateInput struct {
	Items   []string
	Payment string
	Email   string
	Phone   string
	Address string
	Comment string
	Total   float64
}

// List returns an order page. Non-admin callers are silently scoped to their
// own orders before the filter runs, so no parameter combination can widen
// what they see. Admin searches run the store-side aggregation; customer
// searches correlate in memory over the already-scoped rows.
//
// List 返回一页订单。非管理员调用者在过滤器运行前就被静默限定到自己的订单，
// 因此任何参数组合都无法扩大其可见范围。管理员搜索走存储端聚合；
// 顾客搜索在已限定的行上做内存内关联。
func (s *Orders) List(ctx context.Context, who auth.Identity, p query.OrderListParams) ([]model.Order, model.Pagination, error) {
	filter, err := query.BuildOrderFilter(p)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if !who.IsAdmin() {
		filter["customer"] = query.Cond{Eq: who.ID}
	}
	return s.page(ctx, who, filter, p)
}

// ListMine lists the caller's own orders regardless of role. The search, if
// any, always takes the in-memory path: the scoped row set is at most one
// customer's orders, so no aggregation is warranted.
//
// ListMine 列出调用者自己的订单，与角色无关。如有搜索则始终走内存内路径：
// 限定后的行集至多是一位顾客的订单，不需要聚合。
func (s *Orders) ListMine(ctx context.Context, who auth.Identity, p query.OrderListParams) ([]model.Order, model.Pagination, error) {
	filter, err := query.BuildOrderFilter(p)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	filter["customer"] = query.Cond{Eq: who.ID}
	return s.page(ctx, auth.Identity{ID: who.ID, Role: model.RoleCustomer}, filter, p)
}

func (s *Orders) page(ctx context.Context, who auth.Identity, filter query.Filter, p query.OrderListParams) ([]model.Order, model.Pagination, error) {
	pageNum, limit := query.ClampPage(p.Page), query.ClampLimit(p.Limit)
	opts := store.ListOptions{
		Filter: filter,
		Sort:   query.OrderSort(p.SortField, p.SortOrder),
		Page:   pageNum,
		Limit:  limit,
	}

	term := strings.TrimSpace(p.Search)
	if term == "" {
		orders, total, err := s.orders.List(ctx, opts)
		if err != nil {
			return nil, model.Pagination{}, err
		}
		return orders, query.NewPagination(total, pageNum, limit), nil
	}

	escaped := sanitize.EscapeRegex(term)
	if who.IsAdmin() {
		orders, total, err := s.orders.Search(ctx, opts, escaped)
		if err != nil {
			return nil, model.Pagination{}, err
		}
		return orders, query.NewPagination(total, pageNum, limit), nil
	}
	return s.searchScoped(ctx, opts, escaped)
}

// searchScoped filters the scoped rows by the search predicate without
// touching the aggregation machinery: fetch all rows the filter admits,
// resolve their product titles through the (possibly cached) product
// repository, keep rows whose titles match or whose number equals the term.
//
// searchScoped 在不触碰聚合机制的情况下按搜索谓词过滤限定行：
// 取出过滤器允许的全部行，通过（可能带缓存的）产品仓库解析其产品标题，
// 保留标题匹配或订单号等于搜索词的行。
func (s *Orders) searchScoped(ctx context.Context, opts store.ListOptions, term string) ([]model.Order, model.Pagination, error) {
	all, err := s.orders.ListAll(ctx, opts.Filter, opts.Sort)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	re, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return nil, model.Pagination{}, errors.Internal(fmt.Errorf("failed to compile search term: %w", err))
	}
	var number *int64
	if n, err := strconv.ParseInt(term, 10, 64); err == nil {
		number = &n
	}

	titles, err := s.titlesFor(ctx, all)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	matched := make([]model.Order, 0, len(all))
	for _, o := range all {
		if s.matchesTerm(o, re, number, titles) {
			matched = append(matched, o)
		}
	}
	total := int64(len(matched))
	start, end := query.SliceBounds(total, opts.Page, opts.Limit)
	return matched[start:end], query.NewPagination(total, opts.Page, opts.Limit), nil
}

func (s *Orders) titlesFor(ctx context.Context, orders []model.Order) (map[string]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range orders {
		for _, pid := range o.Products {
			if _, ok := seen[pid]; ok {
				continue
			}
			seen[pid] = struct{}{}
			ids = append(ids, pid)
		}
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(products))
	for _, p := range products {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

func (s *Orders) matchesTerm(o model.Order, re *regexp.Regexp, number *int64, titles map[string]string) bool {
	for _, pid := range o.Products {
		if title, ok := titles[pid]; ok && re.MatchString(title) {
			return true
		}
	}
	return number != nil && *number == o.OrderNumber
}

// GetByNumber returns one order. A customer asking about someone else's
// order gets not-found, never forbidden.
//
// GetByNumber 返回单个订单。顾客询问他人订单时得到not-found，绝不是forbidden。
func (s *Orders) GetByNumber(ctx context.Context, who auth.Identity, number int64) (*model.Order, error) {
	o, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !who.IsAdmin() && o.CustomerID != who.ID {
		return nil, errors.NotFound("order")
	}
	return o, nil
}

// Create validates the basket and persists a new order owned by the caller.
// Every item must be a well-formed id of an existing, priced product, and the
// declared total must equal the basket sum exactly. Markup-bearing fields are
// cleaned on the way in.
//
// Create 校验购物篮并持久化一个属于调用者的新订单。每个条目都必须是
// 存在且有定价产品的合法id，声明的总额必须与购物篮之和完全相等。
// 携带标记的字段在进入时即被清理。
func (s *Orders) Create(ctx context.Context, who auth.Identity, in OrderCreateInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, errors.BadRequest("order must contain at least one item")
	}
	byID, err := s.basketProducts(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, id := range in.Items {
		p, ok := byID[id]
		if !ok {
			return nil, errors.Newf(errors.KindBadRequest, "product %s is not available", id)
		}
		if !p.Sellable() {
			return nil, errors.Newf(errors.KindBadRequest, "product %s is not for sale", id)
		}
		sum += *p.Price
	}
	if sum != in.Total {
		return nil, errors.BadRequest("total amount does not match the basket sum")
	}

	order := &model.Order{
		Status:          model.StatusNew,
		TotalAmount:     in.Total,
		DeliveryAddress: sanitize.CleanHTML(in.Address),
		Comment:         sanitize.CleanHTML(in.Comment),
		Payment:         in.Payment,
		Email:           sanitize.CleanHTML(in.Email),
		Phone:           sanitize.CleanHTML(in.Phone),
		CustomerID:      who.ID,
		Products:        in.Items,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderCreated, created)
	return created, nil
}

func (s *Orders) basketProducts(ctx context.Context, items []string) (map[string]model.Product, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, id := range items {
		if !store.ValidID(id) {
			return nil, errors.Newf(errors.KindBadRequest, "malformed product id %q", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// UpdateStatus moves an order to a new lifecycle state. Unknown states are
// rejected, unlike listing where an unknown status filter is ignored: a write
// must never persist a value reads would have to tolerate.
//
// UpdateStatus 将订单推进到新的生命周期状态。未知状态会被拒绝——
// 这与列表中忽略未知状态过滤器不同：写入绝不能持久化读取端需要容忍的值。
func (s *Orders) UpdateStatus(ctx context.Context, number int64, status string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, errors.Newf(errors.KindBadRequest, "invalid status %q", status)
	}
	updated, err := s.orders.UpdateStatus(ctx, number, model.Status(status))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderStatusChanged, updated)
	return updated, nil
}

// Delete removes one order by id.
// Delete 按id删除单个订单。
func (s *Orders) Delete(ctx context.Context, id string) (*model.Order, error) {
	if !store.ValidID(id) {
		return nil, errors.BadRequest("malformed order id")
	}
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderDeleted, deleted)
	return deleted, nil
}

func (s *Orders) publish(ctx context.Context, typ string, o *model.Order) {
	if err := s.bus.Publish(ctx, events.FromOrder(typ, o)); err != nil {
		s.log.Warn("failed to publish order event",
			zap.String("type", typ),
			zap.String("order", o.ID),
			zap.Error(err))
	}
}
