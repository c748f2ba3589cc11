package mongodb

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// orders implements store.OrderRepository on the orders collection.
// Order numbers come from an atomic $inc on the counters collection.
//
// orders 在订单集合上实现store.OrderRepository。
// 订单号来自计数器集合上的原子$inc。
type orders struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func (r *orders) List(ctx context.Context, opts store.ListOptions) ([]model.Order, int64, error) {
	match := toBSON(opts.Filter)
	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	findOpts := options.Find().
		SetSort(toSort(opts.Sort)).
		SetSkip(query.Skip(opts.Page, opts.Limit)).
		SetLimit(query.ClampLimit(opts.Limit))
	cur, err := r.col.Find(ctx, match, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	var out []model.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return out, total, nil
}

func (r *orders) ListAll(ctx context.Context, filter query.Filter, sort query.Sort) ([]model.Order, error) {
	cur, err := r.col.Find(ctx, toBSON(filter), options.Find().SetSort(toSort(sort)))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	var out []model.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return out, nil
}

// Search runs the cross-collection aggregation: join the referenced
// products, flatten, match the term against product titles or the order
// number, then regroup to one row per order. The filter is re-validated by
// the aggregation sanitizer before any stage is built.
//
// Search 运行跨集合聚合：连接被引用的产品、展开、将搜索词与产品标题或
// 订单号匹配，然后重新分组为每个订单一行。在构建任何阶段之前，
// 过滤器都会由聚合清理器重新校验。
func (r *orders) Search(ctx context.Context, opts store.ListOptions, term string) ([]model.Order, int64, error) {
	if err := query.SanitizeAggregate(opts.Filter); err != nil {
		return nil, 0, err
	}

	base := mongo.Pipeline{
		bson.D{{Key: "$match", Value: toBSON(opts.Filter)}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         productsCollection,
			"localField":   "products",
			"foreignField": "_id",
			"as":           "matchedProducts",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$matchedProducts",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$match", Value: bson.M{"$or": searchPredicate(term)}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": "$_id",
			"doc": bson.M{"$first": "$$ROOT"},
		}}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$doc"}}},
		bson.D{{Key: "$project", Value: bson.M{"matchedProducts": 0}}},
	}

	total, err := r.searchTotal(ctx, base)
	if err != nil {
		return nil, 0, err
	}

	page := append(base,
		bson.D{{Key: "$sort", Value: toSort(opts.Sort)}},
		bson.D{{Key: "$skip", Value: query.Skip(opts.Page, opts.Limit)}},
		bson.D{{Key: "$limit", Value: query.ClampLimit(opts.Limit)}},
	)
	cur, err := r.col.Aggregate(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search orders: %w", err)
	}
	var out []model.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode searched orders: %w", err)
	}
	return out, total, nil
}

// searchPredicate matches the term case-insensitively against the joined
// product titles and, when it parses as an integer, against the order number.
//
// searchPredicate 将搜索词大小写不敏感地匹配到连接的产品标题上；
// 当搜索词可解析为整数时，也匹配订单号。
func searchPredicate(term string) bson.A {
	or := bson.A{
		bson.M{"matchedProducts.title": primitive.Regex{Pattern: term, Options: "i"}},
	}
	if number, err := strconv.ParseInt(term, 10, 64); err == nil {
		or = append(or, bson.M{"orderNumber": number})
	}
	return or
}

// SearchOwners resolves the customer side of a search: it reuses the same
// join and predicate as Search but groups by owner, yielding the distinct set
// of customer ids whose orders matched.
//
// SearchOwners 解析搜索的顾客一侧：它复用与Search相同的连接与谓词，
// 但按所有者分组，得到其订单匹配的去重顾客id集合。
func (r *orders) SearchOwners(ctx context.Context, term string) ([]string, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         productsCollection,
			"localField":   "products",
			"foreignField": "_id",
			"as":           "matchedProducts",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$matchedProducts",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$match", Value: bson.M{"$or": searchPredicate(term)}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$customer"}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search order owners: %w", err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode order owners: %w", err)
	}
	owners := make([]string, 0, len(rows))
	for _, row := range rows {
		owners = append(owners, row.ID)
	}
	return owners, nil
}

func (r *orders) searchTotal(ctx context.Context, base mongo.Pipeline) (int64, error) {
	cur, err := r.col.Aggregate(ctx, append(base, bson.D{{Key: "$count", Value: "total"}}))
	if err != nil {
		return 0, fmt.Errorf("failed to count searched orders: %w", err)
	}
	var counts []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &counts); err != nil {
		return 0, fmt.Errorf("failed to decode search count: %w", err)
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0].Total, nil
}

func (r *orders) GetByNumber(ctx context.Context, number int64) (*model.Order, error) {
	var o model.Order
	err := r.col.FindOne(ctx, bson.M{"orderNumber": number}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("order")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", number, err)
	}
	return &o, nil
}

func (r *orders) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	number, err := r.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	o.ID = primitive.NewObjectID().Hex()
	o.OrderNumber = number
	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

// nextOrderNumber atomically increments the order counter and returns the
// new value. The counter document is created on first use.
//
// nextOrderNumber 原子地递增订单计数器并返回新值。计数器文档在首次使用时创建。
func (r *orders) nextOrderNumber(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": ordersCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate order number: %w", err)
	}
	return counter.Seq, nil
}

func (r *orders) UpdateStatus(ctx context.Context, number int64, status model.Status) (*model.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o model.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"orderNumber": number},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("order")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", number, err)
	}
	return &o, nil
}

func (r *orders) Delete(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("order")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return &o, nil
}

func (r *orders) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"customer": customerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders of customer %s: %w", customerID, err)
	}
	return res.DeletedCount, nil
}
