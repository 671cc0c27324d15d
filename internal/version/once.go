package version

import (
	"context"
	"sync"
	"sync/atomic"
)

// Once resolves the version the first time it is asked for and hands the
// same Result to every later caller.
type Once struct {
	resolver *Resolver
	root     string

	once     sync.Once
	resolved atomic.Bool
	res      Result
}

func NewOnce(r *Resolver, root string) *Once {
	if r == nil {
		r = NewResolver()
	}
	return &Once{resolver: r, root: root}
}

// Get returns the resolved version, resolving it on first use.
func (o *Once) Get(ctx context.Context) Result {
	o.once.Do(func() {
		o.res = o.resolver.Resolve(ctx, o.root)
		o.resolved.Store(true)
	})
	return o.res
}

// Resolved reports whether Get has completed at least once.
func (o *Once) Resolved() bool { return o.resolved.Load() }
