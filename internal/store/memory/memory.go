// Package memory implements the store repositories on a sharded in-memory
// document store. It is the "memory" storage engine: the keyspace of each
// collection is split across shards to reduce lock contention, and every
// repository evaluates the engine-independent Filter Expression directly.
// It backs local development and the service-level tests.
//
// Package memory 在分片内存文档存储上实现存储仓储。它是"memory"存储引擎：
// 每个集合的键空间被分片以减少锁竞争，每个仓储直接求值与引擎无关的
// 过滤表达式。它支撑本地开发和服务级测试。
package memory

import (
	"hash/fnv"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/store"
)

// defaultShardCount is the number of shards per collection.
// Power of 2 is chosen so the shard index is a single mask operation.
//
// defaultShardCount 是每个集合的分片数量。选择2的幂使分片索引只需一次掩码运算。
const defaultShardCount = 16

// shard is one lock-guarded slice of a collection's keyspace.
// shard 是集合键空间中由一把锁保护的一片。
type shard[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// collection is a sharded map from record identity to record.
// collection 是从记录标识到记录的分片映射。
type collection[T any] struct {
	shards    []*shard[T]
	shardMask uint64
}

func newCollection[T any]() *collection[T] {
	c := &collection[T]{
		shards:    make([]*shard[T], defaultShardCount),
		shardMask: defaultShardCount - 1,
	}
	for i := range c.shards {
		c.shards[i] = &shard[T]{items: make(map[string]T)}
	}
	return c
}

// shardFor selects the shard owning key using an FNV-1a hash.
// shardFor 使用FNV-1a哈希选择拥有key的分片。
func (c *collection[T]) shardFor(key string) *shard[T] {
	h := fnv.New64a()
	h.Write([]byte(key))
	return c.shards[h.Sum64()&c.shardMask]
}

func (c *collection[T]) get(key string) (T, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (c *collection[T]) put(key string, value T) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

func (c *collection[T]) delete(key string) (T, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

// snapshot copies every record out under shard read locks. Repositories
// filter and sort the copy, never the live maps.
//
// snapshot 在分片读锁下复制所有记录。仓储对副本进行过滤和排序，
// 绝不直接操作活动映射。
func (c *collection[T]) snapshot() []T {
	var out []T
	for _, s := range c.shards {
		s.mu.RLock()
		for _, v := range s.items {
			out = append(out, v)
		}
		s.mu.RUnlock()
	}
	return out
}

// Store is the in-memory document store holding the three collections and
// the order-number counter.
//
// Store 是持有三个集合和订单号计数器的内存文档存储。
type Store struct {
	customers   *collection[model.Customer]
	orders      *collection[model.Order]
	products    *collection[model.Product]
	orderNumber atomic.Int64
}

// New creates an empty in-memory store.
// New 创建一个空的内存存储。
func New() *Store {
	return &Store{
		customers: newCollection[model.Customer](),
		orders:    newCollection[model.Order](),
		products:  newCollection[model.Product](),
	}
}

// SeedCustomer inserts or replaces a customer record, assigning an identity
// when absent. Registration itself belongs to the external auth
// collaborator; seeding exists for the memory engine and tests.
//
// SeedCustomer 插入或替换客户记录，缺少标识时分配一个。注册本身属于外部
// 认证协作者；种子数据用于memory引擎和测试。
func (s *Store) SeedCustomer(c model.Customer) model.Customer {
	if c.ID == "" {
		c.ID = newID()
	}
	s.customers.put(c.ID, c)
	return c
}

// SeedProduct inserts or replaces a catalog record, assigning an identity
// when absent. The catalog is written by the external catalog collaborator;
// seeding exists for the memory engine and tests.
//
// SeedProduct 插入或替换目录记录，缺少标识时分配一个。目录由外部目录
// 协作者写入；种子数据用于memory引擎和测试。
func (s *Store) SeedProduct(p model.Product) model.Product {
	if p.ID == "" {
		p.ID = newID()
	}
	s.products.put(p.ID, p)
	return p
}

// Customers returns the customer repository.
func (s *Store) Customers() store.CustomerRepository {
	return &customers{store: s}
}

// Orders returns the order repository.
func (s *Store) Orders() store.OrderRepository {
	return &orders{store: s}
}

// Products returns the read-only product repository.
func (s *Store) Products() store.ProductRepository {
	return &products{store: s}
}

// newID allocates a record identity with the same shape as the mongo
// engine's, so identities validate identically across engines.
//
// newID 分配与mongo引擎形状相同的记录标识，使标识在两种引擎间校验一致。
func newID() string {
	return primitive.NewObjectID().Hex()
}
