// Package model defines the persisted entities of the order/customer backend
// and the pagination envelope shared by every list endpoint.
//
// Package model 定义订单/客户后端的持久化实体以及所有列表端点共享的分页信封。
package model

import "time"

// Role tags a customer record with its access level.
// Role 用访问级别标记客户记录。
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Status is the order status enumeration. Status transitions happen only
// through the values defined here; anything else is rejected on update.
//
// Status 是订单状态枚举。状态转换只能在这里定义的值之间发生；
// 更新时其他任何值都会被拒绝。
type Status string

const (
	StatusNew        Status = "new"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is a member of the status enumeration.
// ValidStatus 报告s是否为状态枚举的成员。
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusNew, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Customer is a registered user. Name, Email and Phone are markup-bearing:
// they are sanitized on write and re-sanitized on every read. TotalAmount,
// OrderCount and LastOrderDate are denormalized aggregates maintained by an
// external collaborator reacting to order lifecycle events.
//
// Customer 是注册用户。Name、Email和Phone是可能携带标记的字段：
// 写入时清理，每次读取时再次清理。TotalAmount、OrderCount和LastOrderDate
// 是由外部协作者响应订单生命周期事件维护的反规范化聚合字段。
type Customer struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Role          Role       `bson:"role" json:"role"`
	Name          string     `bson:"name" json:"name"`
	Email         string     `bson:"email" json:"email"`
	Phone         string     `bson:"phone" json:"phone"`
	TotalAmount   float64    `bson:"totalAmount" json:"totalAmount"`
	OrderCount    int        `bson:"orderCount" json:"orderCount"`
	LastOrderDate *time.Time `bson:"lastOrderDate,omitempty" json:"lastOrderDate,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
}

// IsAdmin reports whether the customer carries the admin role.
// IsAdmin 报告客户是否携带管理员角色。
func (c *Customer) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Order is a placed order. OrderNumber is the human-facing unique key
// assigned by the persistence layer and used for customer-facing lookups.
// DeliveryAddress and Comment are markup-bearing. Products holds product IDs
// only: products are referenced, never owned, and outlive any single order.
//
// Order 是已下的订单。OrderNumber 是由持久层分配的面向用户的唯一键，
// 用于面向客户的查询。DeliveryAddress和Comment可能携带标记。
// Products 只保存产品ID：产品是被引用的，从不被拥有，并且比任何单个订单存在更久。
type Order struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	OrderNumber     int64     `bson:"orderNumber" json:"orderNumber"`
	Status          Status    `bson:"status" json:"status"`
	TotalAmount     float64   `bson:"totalAmount" json:"totalAmount"`
	DeliveryAddress string    `bson:"deliveryAddress" json:"deliveryAddress"`
	Comment         string    `bson:"comment" json:"comment"`
	Payment         string    `bson:"payment" json:"payment"`
	Email           string    `bson:"email" json:"email"`
	Phone           string    `bson:"phone" json:"phone"`
	CustomerID      string    `bson:"customer" json:"customer"`
	Products        []string  `bson:"products" json:"products"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// Product is the catalog entity owned by an external collaborator; this
// backend reads it for basket validation and title search only. A nil Price
// means the product is not for sale and blocks order creation.
//
// Product 是由外部协作者拥有的目录实体；本后端仅在购物篮校验和标题搜索时
// 读取它。Price为nil表示商品不可售，并阻止订单创建。
type Product struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Price       *float64 `bson:"price" json:"price"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Image       string   `bson:"image,omitempty" json:"image,omitempty"`
	Category    string   `bson:"category,omitempty" json:"category,omitempty"`
}

// Sellable reports whether the product can be part of a new order.
// Sellable 报告商品是否可以成为新订单的一部分。
func (p *Product) Sellable() bool {
	return p.Price != nil
}

// Pagination is the envelope attached to every list response.
// Invariants: PageSize ∈ [1,10], CurrentPage ≥ 1, and
// TotalPages = ceil(TotalItems/PageSize) computed after filtering and
// before slicing.
//
// Pagination 是附加到每个列表响应的信封。
// 不变量：PageSize ∈ [1,10]，CurrentPage ≥ 1，
// TotalPages = ceil(TotalItems/PageSize)，在过滤之后、切片之前计算。
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	PageSize    int64 `json:"pageSize"`
}
