package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetDelete(t *testing.T) {
	c := New(4, time.Minute, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestExpiration(t *testing.T) {
	c := New(4, 10*time.Millisecond, time.Hour)
	defer c.Close()

	c.Set("a", "v")
	time.Sleep(25 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestShardCountRounding(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, defaultShardCount}, {1, 1}, {3, 4}, {16, 16}, {17, 32},
	}
	for _, tt := range tests {
		c := New(tt.in, time.Minute, time.Hour)
		assert.Len(t, c.shards, tt.want, "shard count for %d", tt.in)
		c.Close()
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(16, time.Minute, time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%50)
				c.Set(key, g)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
