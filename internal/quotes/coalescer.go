package quotes

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Coalescer collapses concurrent requests for the same key into a single
// upstream call. While a call for a key is in flight, additional callers
// attach to it and receive the identical result (same value on success, same
// error on failure). The in-flight handle is retired the instant the call
// settles, so an error is never cached as a future result and the next call
// for that key starts fresh.
type Coalescer struct {
	group singleflight.Group

	calls    atomic.Int64
	upstream atomic.Int64
}

// NewCoalescer creates an empty coalescer.
func NewCoalescer() *Coalescer {
	return &Coalescer{}
}

// Do runs producer under key, collapsing concurrent duplicates. Exactly one
// producer runs per key at any instant; every caller observes that
// producer's result.
func (c *Coalescer) Do(key string, producer func() (any, error)) (any, error) {
	c.calls.Add(1)
	value, err, _ := c.group.Do(key, func() (any, error) {
		c.upstream.Add(1)
		return producer()
	})
	return value, err
}

// UpstreamCalls returns the number of producer invocations actually made.
func (c *Coalescer) UpstreamCalls() int64 { return c.upstream.Load() }

// CoalescedCalls returns the number of calls that attached to another
// caller's in-flight producer instead of starting their own.
func (c *Coalescer) CoalescedCalls() int64 { return c.calls.Load() - c.upstream.Load() }
