package facts

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"aramcoach/internal/types"
)

// CachedSource wraps a FactSource with an LRU keyed by patch id. FactSets
// are immutable after load, so serving the same pointer to concurrent runs
// is safe.
type CachedSource struct {
	src   types.FactSource
	cache *lru.Cache[string, *types.FactSet]
}

// NewCachedSource wraps src with room for size patches. size <= 0 uses 8.
func NewCachedSource(src types.FactSource, size int) (*CachedSource, error) {
	if size <= 0 {
		size = 8
	}
	cache, err := lru.New[string, *types.FactSet](size)
	if err != nil {
		return nil, err
	}
	return &CachedSource{src: src, cache: cache}, nil
}

// LoadFacts returns the cached FactSet for patch or loads it through the
// wrapped source. Load errors are never cached.
func (c *CachedSource) LoadFacts(ctx context.Context, patch string) (*types.FactSet, error) {
	if fs, ok := c.cache.Get(patch); ok {
		return fs, nil
	}
	fs, err := c.src.LoadFacts(ctx, patch)
	if err != nil {
		return nil, err
	}
	c.cache.Add(patch, fs)
	return fs, nil
}
