package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/weblarek/backend/internal/query"
)

// toBSON renders the engine-independent Filter Expression into a query
// document. This is the only place filter operators are introduced; by the
// time a filter reaches this function it has already passed the input
// firewall and, on the aggregation path, the aggregation sanitizer.
//
// toBSON 将与引擎无关的过滤表达式渲染为查询文档。这是唯一引入过滤操作符
// 的地方；当过滤器到达此函数时，它已经通过了输入防火墙，在聚合路径上还
// 通过了聚合清理器。
func toBSON(f query.Filter) bson.M {
	m := bson.M{}
	for field, cond := range f {
		switch {
		case cond.Range != nil:
			r := bson.M{}
			if cond.Range.From != nil {
				r["$gte"] = cond.Range.From
			}
			if cond.Range.To != nil {
				r["$lte"] = cond.Range.To
			}
			m[field] = r
		case cond.In != nil:
			m[field] = bson.M{"$in": cond.In}
		default:
			m[field] = cond.Eq
		}
	}
	return m
}

// toSort renders a Sort into a sort document.
// toSort 将Sort渲染为排序文档。
func toSort(s query.Sort) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: s.Field, Value: dir}}
}
