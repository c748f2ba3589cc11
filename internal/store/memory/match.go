package memory

import (
	"time"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
)

// Filter evaluation over plain records. Field access is explicit per
// entity: the filter builders only ever emit names from the allowed field
// sets, so an unknown name here means "no value" and the constraint fails.
//
// 对普通记录求值过滤表达式。字段访问按实体显式实现：过滤构建器只会产生
// 允许字段集合中的名字，因此这里的未知名字意味着"无值"，约束不成立。

func customerField(c model.Customer, name string) any {
	switch name {
	case "_id":
		return c.ID
	case "role":
		return string(c.Role)
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "totalAmount":
		return c.TotalAmount
	case "orderCount":
		return float64(c.OrderCount)
	case "lastOrderDate":
		if c.LastOrderDate == nil {
			return nil
		}
		return *c.LastOrderDate
	case "createdAt":
		return c.CreatedAt
	}
	return nil
}

func orderField(o model.Order, name string) any {
	switch name {
	case "_id":
		return o.ID
	case "orderNumber":
		return float64(o.OrderNumber)
	case "status":
		return string(o.Status)
	case "totalAmount":
		return o.TotalAmount
	case "customer":
		return o.CustomerID
	case "createdAt":
		return o.CreatedAt
	}
	return nil
}

// matchFilter reports whether every condition of f holds for the record
// whose fields are read through field.
//
// matchFilter 报告f的每个条件是否对通过field读取字段的记录成立。
func matchFilter(f query.Filter, field func(string) any) bool {
	for name, cond := range f {
		if !matchCond(field(name), cond) {
			return false
		}
	}
	return true
}

func matchCond(v any, cond query.Cond) bool {
	switch {
	case cond.In != nil:
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, candidate := range cond.In {
			if s == candidate {
				return true
			}
		}
		return false
	case cond.Range != nil:
		return matchRange(v, cond.Range)
	default:
		return equalValue(v, cond.Eq)
	}
}

// matchRange checks an inclusive range. A record with no value for the
// field (e.g. a customer who never ordered) fails any range constraint.
//
// matchRange 检查闭区间。字段无值的记录（例如从未下单的客户）
// 不满足任何区间约束。
func matchRange(v any, r *query.Range) bool {
	if v == nil {
		return false
	}
	if r.From != nil && compareValues(v, r.From) < 0 {
		return false
	}
	if r.To != nil && compareValues(v, r.To) > 0 {
		return false
	}
	return true
}

func equalValue(v, want any) bool {
	if s, ok := v.(string); ok {
		if ws, ok := want.(string); ok {
			return s == ws
		}
	}
	return compareValues(v, want) == 0
}

// compareValues orders two field values of the same family (number, time
// or string). Values of mismatched or unknown families compare as unequal
// and sort before everything else.
//
// compareValues 对同族（数值、时间或字符串）的两个字段值排序。
// 族不匹配或未知的值视为不相等，并排在所有值之前。
func compareValues(a, b any) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
			return 0
		}
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// lessByField orders records for sorting; nil field values sort first.
// lessByField 对记录排序；nil字段值排在最前。
func lessByField(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return compareValues(a, b) < 0
}
