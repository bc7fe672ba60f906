package routing

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultPathCacheCapacity bounds how many (src,dst) path entries a
// PathCache keeps before evicting via its ARC policy.
const DefaultPathCacheCapacity = 4096

// PathCache holds the full node-id path currently chosen for each
// (src,dst) pair a load-balanced policy has routed — needed because the
// routing table itself only stores the next hop, but path-update and
// advisory logic need to see the whole path to find its interior nodes.
type PathCache struct {
	mu    sync.RWMutex
	cache *lru.ARCCache
}

// NewPathCache constructs a PathCache backed by an ARC eviction policy.
func NewPathCache(capacity int) *PathCache {
	if capacity <= 0 {
		capacity = DefaultPathCacheCapacity
	}
	c, err := lru.NewARC(capacity)
	if err != nil {
		// Only returns an error for a non-positive size, which is
		// already guarded above.
		panic(fmt.Sprintf("routing: building path cache: %v", err))
	}
	return &PathCache{cache: c}
}

func pathKey(src, dst uint64) [2]uint64 {
	return [2]uint64{src, dst}
}

// Get returns the cached path for (src,dst), if any.
func (pc *PathCache) Get(src, dst uint64) ([]uint64, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	v, ok := pc.cache.Get(pathKey(src, dst))
	if !ok {
		return nil, false
	}
	return v.([]uint64), true
}

// Put stores the path chosen for (src,dst).
func (pc *PathCache) Put(src, dst uint64, path []uint64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cache.Add(pathKey(src, dst), path)
}
