package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/auth"
	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/sanitize"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// Customers carries the customer use cases. Every read goes through the
// visibility gate: admins see the whole collection, customers only see
// themselves, and a cross-account access fails as not-found rather than
// forbidden so the existence of other accounts leaks nothing.
//
// Customers 承载顾客用例。每次读取都经过可见性闸门：管理员可见整个集合，
// 顾客只能看到自己；跨账户访问以not-found而非forbidden失败，
// 使其他账户的存在不泄露任何信息。
type Customers struct {
	customers store.CustomerRepository
	orders    store.OrderRepository
	log       *zap.Logger
}

func NewCustomers(customers store.CustomerRepository, orders store.OrderRepository, log *zap.Logger) *Customers {
	return &Customers{customers: customers, orders: orders, log: log}
}

// CustomerUpdateInput holds the mutable customer fields; nil means keep.
// CustomerUpdateInput 保存可变的顾客字段；nil表示保持不变。
type CustomerUpdateInput struct {
	Name  *string
	Email *string
	Phone *string
}

// List returns a customer page. For non-admin callers the listing collapses
// to the caller's own record, reported as a single-item page so the response
// shape stays uniform. An admin search resolves in two round-trips: first the
// order-side correlation yields the owning customer ids, then those ids
// constrain the customer query alongside the regular filters.
//
// List 返回一页顾客。对非管理员调用者，列表坍缩为调用者自己的记录，
// 以单条目页的形式返回以保持响应形状一致。管理员搜索分两次往返：
// 先由订单侧关联得到拥有者顾客id，再用这些id与常规过滤器一起约束顾客查询。
func (s *Customers) List(ctx context.Context, who auth.Identity, p query.CustomerListParams) ([]model.Customer, model.Pagination, error) {
	if !who.IsAdmin() {
		self, err := s.customers.Get(ctx, who.ID)
		if err != nil {
			return nil, model.Pagination{}, err
		}
		page := model.Pagination{TotalItems: 1, TotalPages: 1, CurrentPage: 1, PageSize: 1}
		return []model.Customer{*self}, page, nil
	}

	filter, err := query.BuildCustomerFilter(p)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	pageNum, limit := query.ClampPage(p.Page), query.ClampLimit(p.Limit)

	if term := strings.TrimSpace(p.Search); term != "" {
		owners, err := s.orders.SearchOwners(ctx, sanitize.EscapeRegex(term))
		if err != nil {
			return nil, model.Pagination{}, err
		}
		if len(owners) == 0 {
			return []model.Customer{}, query.NewPagination(0, pageNum, limit), nil
		}
		filter["_id"] = query.Cond{In: owners}
	}

	opts := store.ListOptions{
		Filter: filter,
		Sort:   query.CustomerSort(p.SortField, p.SortOrder),
		Page:   pageNum,
		Limit:  limit,
	}
	customers, total, err := s.customers.List(ctx, opts)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return customers, query.NewPagination(total, pageNum, limit), nil
}

// Get returns one customer, admin or self only.
// Get 返回单个顾客，仅限管理员或本人。
func (s *Customers) Get(ctx context.Context, who auth.Identity, id string) (*model.Customer, error) {
	if !store.ValidID(id) {
		return nil, errors.BadRequest("malformed customer id")
	}
	if !who.IsAdmin() && who.ID != id {
		return nil, errors.NotFound("customer")
	}
	return s.customers.Get(ctx, id)
}

// Update patches a customer's contact fields, admin or self only. Markup is
// stripped from every incoming value before it reaches the store.
//
// Update 更新顾客的联系字段，仅限管理员或本人。
// 每个传入值在到达存储前都会剥离标记。
func (s *Customers) Update(ctx context.Context, who auth.Identity, id string, in CustomerUpdateInput) (*model.Customer, error) {
	if !store.ValidID(id) {
		return nil, errors.BadRequest("malformed customer id")
	}
	if !who.IsAdmin() && who.ID != id {
		return nil, errors.NotFound("customer")
	}
	upd := store.CustomerUpdate{
		Name:  cleanField(in.Name),
		Email: cleanField(in.Email),
		Phone: cleanField(in.Phone),
	}
	return s.customers.Update(ctx, id, upd)
}

// Delete removes a customer and cascades to the customer's orders, so no
// order is left pointing at a vanished account.
//
// Delete 删除顾客并级联到该顾客的订单，不留下指向已消失账户的订单。
func (s *Customers) Delete(ctx context.Context, id string) (*model.Customer, error) {
	if !store.ValidID(id) {
		return nil, errors.BadRequest("malformed customer id")
	}
	deleted, err := s.customers.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	orphaned, err := s.orders.DeleteByCustomer(ctx, id)
	if err != nil {
		s.log.Error("failed to cascade order deletion",
			zap.String("customer", id), zap.Error(err))
		return deleted, nil
	}
	if orphaned > 0 {
		s.log.Info("cascaded order deletion",
			zap.String("customer", id), zap.Int64("orders", orphaned))
	}
	return deleted, nil
}

func cleanField(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := sanitize.CleanHTML(*v)
	return &cleaned
}
