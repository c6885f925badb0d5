package pgsearch

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultFragmentCacheSize = 1024

type cacheKey struct {
	scope string
	query string
}

// fragmentCache is safe for concurrent use; lru.Cache locks internally.
type fragmentCache struct {
	c *lru.Cache[cacheKey, *Fragment]
}

func newFragmentCache(size int) *fragmentCache {
	if size <= 0 {
		size = DefaultFragmentCacheSize
	}
	c, _ := lru.New[cacheKey, *Fragment](size)
	return &fragmentCache{c: c}
}

// get and add copy fragments in and out.
func (fc *fragmentCache) get(scope, query string) (*Fragment, bool) {
	f, ok := fc.c.Get(cacheKey{scope: scope, query: query})
	if !ok {
		return nil, false
	}
	return f.clone(), true
}

func (fc *fragmentCache) add(scope, query string, f *Fragment) {
	fc.c.Add(cacheKey{scope: scope, query: query}, f.clone())
}

func (fc *fragmentCache) len() int { return fc.c.Len() }
