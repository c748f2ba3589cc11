// Package store defines the repository interfaces the services depend on.
// The persistence engine is an external collaborator reachable through a
// query/aggregation interface; two implementations exist (mongo, memory)
// selected by configuration, and both consume the engine-independent
// Filter Expression from the query package.
//
// Package store 定义服务依赖的仓储接口。持久化引擎是通过查询/聚合接口
// 访问的外部协作者；存在两种实现（mongo、memory），由配置选择，
// 两者都消费query包中与引擎无关的过滤表达式。
package store

import (
	"context"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
)

// ListOptions carries the filter, sort and page window of a list query.
// ListOptions 携带列表查询的过滤、排序和分页窗口。
type ListOptions struct {
	Filter query.Filter
	Sort   query.Sort
	Page   int64
	Limit  int64
}

// CustomerUpdate is a partial update of a customer's contact fields.
// Nil fields are left untouched.
//
// CustomerUpdate 是客户联系字段的部分更新。nil字段保持不变。
type CustomerUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// CustomerRepository provides access to the customers collection.
// CustomerRepository 提供对客户集合的访问。
type CustomerRepository interface {
	// List returns one page of customers matching the filter along with the
	// post-filter total.
	List(ctx context.Context, opts ListOptions) ([]model.Customer, int64, error)

	// Get returns the customer with the given identity.
	Get(ctx context.Context, id string) (*model.Customer, error)

	// Update applies a partial update and returns the updated record.
	Update(ctx context.Context, id string, upd CustomerUpdate) (*model.Customer, error)

	// Delete removes the customer and returns the deleted record.
	Delete(ctx context.Context, id string) (*model.Customer, error)
}

// OrderRepository provides access to the orders collection.
// OrderRepository 提供对订单集合的访问。
type OrderRepository interface {
	// List returns one page of orders matching the filter along with the
	// post-filter total.
	List(ctx context.Context, opts ListOptions) ([]model.Order, int64, error)

	// ListAll returns every order matching the filter, sorted but not
	// paginated. It backs the in-memory search path, which must slice after
	// correlation.
	ListAll(ctx context.Context, filter query.Filter, sort query.Sort) ([]model.Order, error)

	// Search runs the cross-collection aggregation path: the filter plus a
	// product-title/order-number predicate over the joined products. The
	// term must already be regex-escaped. Implementations re-validate the
	// filter with the aggregation sanitizer before building the pipeline.
	Search(ctx context.Context, opts ListOptions, term string) ([]model.Order, int64, error)

	// SearchOwners returns the distinct identities of customers owning at
	// least one order matched by the product-title/order-number predicate.
	// It is the first of the two round-trips behind the customer search.
	SearchOwners(ctx context.Context, term string) ([]string, error)

	// GetByNumber returns the order with the given human-facing number.
	GetByNumber(ctx context.Context, number int64) (*model.Order, error)

	// Create persists a new order, assigning its identity and the unique
	// order number, and returns the stored record.
	Create(ctx context.Context, o *model.Order) (*model.Order, error)

	// UpdateStatus sets the status of the order with the given number and
	// returns the updated record.
	UpdateStatus(ctx context.Context, number int64, status model.Status) (*model.Order, error)

	// Delete removes the order by identity and returns the deleted record.
	Delete(ctx context.Context, id string) (*model.Order, error)

	// DeleteByCustomer removes every order owned by the customer and
	// returns the number of removed records. Used by the cascade on
	// customer deletion.
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}

// ProductRepository provides read-only access to the catalog, which is
// owned by an external collaborator.
//
// ProductRepository 提供对目录的只读访问，目录由外部协作者拥有。
type ProductRepository interface {
	List(ctx context.Context, page, limit int64) ([]model.Product, int64, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}
