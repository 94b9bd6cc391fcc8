package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedRWMutex spreads per-key locking over a fixed set of read/write
// mutexes so that writers for different owners rarely contend.
type ShardedRWMutex struct {
	shards [shardCount]sync.RWMutex
}

func NewShardedRWMutex() *ShardedRWMutex {
	return &ShardedRWMutex{}
}

func (m *ShardedRWMutex) Lock(key string)    { m.shards[shardFor(key)].Lock() }
func (m *ShardedRWMutex) Unlock(key string)  { m.shards[shardFor(key)].Unlock() }
func (m *ShardedRWMutex) RLock(key string)   { m.shards[shardFor(key)].RLock() }
func (m *ShardedRWMutex) RUnlock(key string) { m.shards[shardFor(key)].RUnlock() }

// shardFor maps a key to its shard. The empty key always lands on shard 0.
func shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
