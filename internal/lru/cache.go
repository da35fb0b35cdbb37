package lru

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var ErrIllegalCapacity = errors.New("illegal lru cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

// OnEvict runs synchronously inside the shard lock, keep it cheap.
type OnEvict func(k uint64, v []byte)

// Cache is a byte bounded LRU split into shards. Each shard owns an
// equal slice of the byte budget and its own lock, so hot keys on
// different shards never contend.
type Cache struct {
	capacity uint64
	shards   []*lruShard
}

func NewCache(shards int, maxTotalBytes uint64, onEvict OnEvict) (*Cache, error) {
	if shards < 1 {
		return nil, ErrInvalidSharding
	}

	if maxTotalBytes < uint64(shards) {
		return nil, ErrIllegalCapacity
	}

	c := Cache{
		capacity: uint64(shards),
		shards:   make([]*lruShard, shards),
	}

	shardMaxBytes := maxTotalBytes / c.capacity
	for i := range c.shards {
		c.shards[i] = newLruShard(shardMaxBytes, onEvict)
	}

	return &c, nil
}

// Add - stores value under key. Returns how many cold entries had to
// go to make room.
func (c *Cache) Add(key uint64, value []byte) int {
	return c.getShard(key).add(key, value)
}

func (c *Cache) Get(key uint64) ([]byte, bool) {
	return c.getShard(key).get(key)
}

func (c *Cache) Remove(key uint64) bool {
	return c.getShard(key).remove(key)
}

func (c *Cache) Purge() {
	var wg sync.WaitGroup

	wg.Add(len(c.shards))
	for i := range c.shards {
		go func(i int) {
			defer wg.Done()
			c.shards[i].purge()
		}(i)
	}

	wg.Wait()
}

func (c *Cache) Count() int {
	var n int
	for i := range c.shards {
		n += c.shards[i].len()
	}

	return n
}

func (c *Cache) Bytes() uint64 {
	var n uint64
	for i := range c.shards {
		n += c.shards[i].bytes()
	}

	return n
}

func (c *Cache) getShard(key uint64) *lruShard {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, key)
	hash := xxhash.Sum64(bs)

	return c.shards[hash%c.capacity]
}
