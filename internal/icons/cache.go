package icons

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spf13/afero"
)

// Lookup is satisfied by Resolver and CachedResolver.
type Lookup interface {
	Resolve(app string) (afero.File, string, bool)
}

// CachedResolver remembers which path an app id resolved to. Only the most
// specific candidate is remembered, so an icon added to an earlier tier is
// picked up on the next lookup. A remembered path that can no longer be
// opened is dropped and the chain re-run.
type CachedResolver struct {
	resolver *Resolver
	paths    *expirable.LRU[string, string]
}

// NewCachedResolver wraps r. A size <= 0 returns r unwrapped.
func NewCachedResolver(r *Resolver, size int, ttl time.Duration) Lookup {
	if size <= 0 {
		return r
	}
	return &CachedResolver{
		resolver: r,
		paths:    expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (c *CachedResolver) Resolve(app string) (afero.File, string, bool) {
	if p, ok := c.paths.Get(app); ok {
		if f, found := c.resolver.Open(p); found {
			return f, p, true
		}
		c.paths.Remove(app)
	}

	f, p, ok := c.resolver.Resolve(app)
	if ok && p == c.resolver.Candidates(app)[0] {
		c.paths.Add(app, p)
	}
	return f, p, ok
}
