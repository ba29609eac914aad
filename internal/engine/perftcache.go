package engine

import (
	"sync"
	"sync/atomic"
)

// Number of shards for cache locking (power of 2 for fast modulo)
const cacheShardCount = 256
const cacheShardMask = cacheShardCount - 1

// perftEntry caches the leaf count of a subtree.
type perftEntry struct {
	Key   uint64 // Full 64-bit Zobrist hash for verification
	Nodes uint64
	Depth int8
}

// PerftCache is a hash table of perft subtree counts. Clobber trees are
// full of transpositions, so deep perft runs revisit the same positions
// many times. Safe for concurrent use.
type PerftCache struct {
	entries []perftEntry
	shards  [cacheShardCount]sync.RWMutex
	size    uint64
	mask    uint64

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewPerftCache creates a cache with the given size in MB.
func NewPerftCache(sizeMB int) *PerftCache {
	entrySize := uint64(24)
	numEntries := roundDownToPowerOf2((uint64(sizeMB) * 1024 * 1024) / entrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	return &PerftCache{
		entries: make([]perftEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe returns the cached count for hash at depth.
func (c *PerftCache) Probe(hash uint64, depth int) (uint64, bool) {
	c.probes.Add(1)

	idx := hash & c.mask
	shard := idx & cacheShardMask

	c.shards[shard].RLock()
	entry := c.entries[idx]
	c.shards[shard].RUnlock()

	if entry.Key == hash && int(entry.Depth) == depth {
		c.hits.Add(1)
		return entry.Nodes, true
	}
	return 0, false
}

// Store saves a count, replacing shallower or different entries.
func (c *PerftCache) Store(hash uint64, depth int, nodes uint64) {
	idx := hash & c.mask
	shard := idx & cacheShardMask

	c.shards[shard].Lock()
	entry := &c.entries[idx]
	if entry.Key != hash || depth >= int(entry.Depth) {
		entry.Key = hash
		entry.Nodes = nodes
		entry.Depth = int8(depth)
	}
	c.shards[shard].Unlock()
}

// Clear empties the cache.
func (c *PerftCache) Clear() {
	for i := range c.entries {
		c.entries[i] = perftEntry{}
	}
	c.hits.Store(0)
	c.probes.Store(0)
}

// HitRate returns the cache hit rate as a percentage.
func (c *PerftCache) HitRate() float64 {
	probes := c.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the cache.
func (c *PerftCache) Size() uint64 {
	return c.size
}
