package sanitize

import "github.com/weblarek/backend/internal/model"

// The output pass re-applies the markup sanitizer to every markup-bearing
// field of a record before it is serialized, independently of whatever
// sanitization happened at write time. Every read endpoint goes through it,
// including freshly created and freshly updated records.
//
// 输出清理在记录序列化之前对每个可能携带标记的字段重新应用标记清理器，
// 与写入时的清理无关。每个读取端点都会经过它，包括刚创建和刚更新的记录。

// CleanCustomer sanitizes the markup-bearing fields of a customer record.
// It returns the same pointer for call-site convenience.
//
// CleanCustomer 清理客户记录中可能携带标记的字段。为方便调用方返回同一指针。
func CleanCustomer(c *model.Customer) *model.Customer {
	c.Name = CleanHTML(c.Name)
	c.Email = CleanHTML(c.Email)
	c.Phone = CleanHTML(c.Phone)
	return c
}

// CleanCustomers sanitizes a slice of customer records in place.
// CleanCustomers 就地清理客户记录切片。
func CleanCustomers(cs []model.Customer) []model.Customer {
	for i := range cs {
		CleanCustomer(&cs[i])
	}
	return cs
}

// CleanOrder sanitizes the markup-bearing fields of an order record.
// CleanOrder 清理订单记录中可能携带标记的字段。
func CleanOrder(o *model.Order) *model.Order {
	o.DeliveryAddress = CleanHTML(o.DeliveryAddress)
	o.Comment = CleanHTML(o.Comment)
	o.Email = CleanHTML(o.Email)
	o.Phone = CleanHTML(o.Phone)
	return o
}

// CleanOrders sanitizes a slice of order records in place.
// CleanOrders 就地清理订单记录切片。
func CleanOrders(os []model.Order) []model.Order {
	for i := range os {
		CleanOrder(&os[i])
	}
	return os
}

// CleanProduct sanitizes the markup-bearing fields of a product record.
// CleanProduct 清理产品记录中可能携带标记的字段。
func CleanProduct(p *model.Product) *model.Product {
	p.Title = CleanHTML(p.Title)
	p.Description = CleanHTML(p.Description)
	return p
}

// CleanProducts sanitizes a slice of product records in place.
// CleanProducts 就地清理产品记录切片。
func CleanProducts(ps []model.Product) []model.Product {
	for i := range ps {
		CleanProduct(&ps[i])
	}
	return ps
}
