// Package mongodb implements the store repositories on MongoDB. Filters
// arrive as the engine-independent Filter Expression and are translated to
// query documents here; the admin search path is a multi-stage aggregation
// pipeline re-validated by the aggregation sanitizer before it runs.
//
// Package mongodb 在MongoDB上实现存储仓储。过滤条件以与引擎无关的过滤
// 表达式形式到达，并在此翻译为查询文档；管理员搜索路径是一个多阶段聚合
// 管道，在运行前由聚合清理器重新校验。
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/store"
)

// Collection names.
const (
	customersCollection = "customers"
	ordersCollection    = "orders"
	productsCollection  = "products"
	countersCollection  = "counters"
)

// Store owns the client connection and hands out repositories bound to the
// configured database.
//
// Store 拥有客户端连接，并分发绑定到所配置数据库的仓储。
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// Connect establishes the client connection, verifies it with a ping, and
// ensures the indexes the repositories rely on.
//
// Connect 建立客户端连接，通过ping验证，并确保仓储依赖的索引存在。
func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(database), log: log}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close disconnects the underlying client.
// Close 断开底层客户端连接。
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Customers returns the customer repository.
func (s *Store) Customers() store.CustomerRepository {
	return &customers{col: s.db.Collection(customersCollection)}
}

// Orders returns the order repository.
func (s *Store) Orders() store.OrderRepository {
	return &orders{
		col:      s.db.Collection(ordersCollection),
		counters: s.db.Collection(countersCollection),
	}
}

// Products returns the read-only product repository.
func (s *Store) Products() store.ProductRepository {
	return &products{col: s.db.Collection(productsCollection)}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	orderIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customer", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := s.db.Collection(ordersCollection).Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	customerIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := s.db.Collection(customersCollection).Indexes().CreateMany(ctx, customerIndexes); err != nil {
		return fmt.Errorf("failed to create customer indexes: %w", err)
	}
	return nil
}
