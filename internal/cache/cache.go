// Package cache provides a small sharded in-process cache with TTL-based
// expiration and a background cleaner. It fronts the product repository:
// basket validation and search correlation hit product lookups on every
// request, and the catalog changes rarely.
//
// Package cache 提供一个带TTL过期和后台清理器的小型分片进程内缓存。
// 它位于产品仓储之前：购物篮校验和搜索关联在每个请求上都会进行产品查询，
// 而目录很少变化。
package cache

import (
	"hash/fnv"
	"sync"
	"time"
)

const (
	// defaultShardCount is the default number of shards.
	// Power of 2 is chosen to keep the shard index a single mask operation.
	//
	// defaultShardCount 是默认分片数量。选择2的幂使分片索引只需一次掩码运算。
	defaultShardCount = 16

	// defaultCleanupInterval is how often the cleaner sweeps expired entries.
	// defaultCleanupInterval 是清理器清扫过期条目的频率。
	defaultCleanupInterval = time.Minute
)

// entry is a cached value with its expiration instant (UnixNano).
// entry 是带过期时刻（UnixNano）的缓存值。
type entry struct {
	value    any
	expireAt int64
}

func (e entry) expired(now int64) bool {
	return now > e.expireAt
}

// shard is one lock-guarded slice of the keyspace.
// shard 是键空间中由一把锁保护的一片。
type shard struct {
	mu    sync.RWMutex
	items map[string]entry
}

// Cache is a sharded TTL cache. All entries share one TTL; eviction is
// purely time-based, which fits a small read-through catalog cache.
//
// Cache 是分片TTL缓存。所有条目共享一个TTL；淘汰完全基于时间，
// 适合小型读穿目录缓存。
type Cache struct {
	shards    []*shard
	shardMask uint64
	ttl       time.Duration
	closeChan chan struct{}
	closeOnce sync.Once
}

// New creates a cache with the given shard count (rounded up to a power of
// 2, defaulted when non-positive) and TTL, and starts the background
// cleaner.
//
// New 使用给定的分片数（向上取整到2的幂，非正数时使用默认值）和TTL
// 创建缓存，并启动后台清理器。
func New(shardCount int, ttl, cleanupInterval time.Duration) *Cache {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	shardCount = nextPowerOfTwo(shardCount)
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	c := &Cache{
		shards:    make([]*shard, shardCount),
		shardMask: uint64(shardCount - 1),
		ttl:       ttl,
		closeChan: make(chan struct{}),
	}
	for i := range c.shards {
		c.shards[i] = &shard{items: make(map[string]entry)}
	}
	go c.cleaner(cleanupInterval)
	return c
}

// Get returns the cached value for key if present and unexpired.
// Get 返回key对应的未过期缓存值（如果存在）。
func (c *Cache) Get(key string) (any, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || e.expired(time.Now().UnixNano()) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache-wide TTL.
// Set 以缓存级TTL将value存储在key下。
func (c *Cache) Set(key string, value any) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.items[key] = entry{value: value, expireAt: time.Now().Add(c.ttl).UnixNano()}
	s.mu.Unlock()
}

// Delete removes key from the cache.
// Delete 从缓存中移除key。
func (c *Cache) Delete(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Len returns the number of entries, expired ones included until the next
// sweep.
// Len 返回条目数量，过期条目在下次清扫前也计入。
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Close stops the background cleaner. The cache stays usable afterwards;
// expired entries are then only dropped lazily on Get.
//
// Close 停止后台清理器。之后缓存仍可使用；过期条目只在Get时惰性丢弃。
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.closeChan) })
}

// cleaner periodically sweeps expired entries shard by shard.
// cleaner 周期性地逐分片清扫过期条目。
func (c *Cache) cleaner(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.closeChan:
			return
		case <-ticker.C:
			now := time.Now().UnixNano()
			for _, s := range c.shards {
				s.mu.Lock()
				for key, e := range s.items {
					if e.expired(now) {
						delete(s.items, key)
					}
				}
				s.mu.Unlock()
			}
		}
	}
}

func (c *Cache) shardFor(key string) *shard {
	h := fnv.New64a()
	h.Write([]byte(key))
	return c.shards[h.Sum64()&c.shardMask]
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
