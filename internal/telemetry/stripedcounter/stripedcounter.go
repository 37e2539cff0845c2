// Copyright 2026 The diffenc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stripedcounter provides a lock-free throughput counter split
// across padded stripes to collapse contention when many worker goroutines
// (one per shard, see internal/sharding) increment the same logical total
// concurrently. A single shared atomic.Int64 becomes the bottleneck once
// enough cores hammer it; striping trades a little memory for avoiding that
// cache-line ping-pong, at the cost of a slower, infrequent Sum().
package stripedcounter

import (
	"runtime"
	"sync/atomic"
)

// cache line size varies across platforms; over-pad to 128 bytes so
// adjacent stripes never share a line.
const padSize = 128 - 8 // atomic.Int64 is 8 bytes; remainder to reach >=128

type stripe struct {
	val atomic.Int64
	_   [padSize]byte
}

// Counter is a striped, monotonic (or signed) throughput counter. The zero
// value is not usable; construct with New.
type Counter struct {
	stripes []stripe
	mask    uint64
	chooser atomic.Uint64
}

// New constructs a Counter with nextPow2(clamp(GOMAXPROCS, [8,64])) stripes,
// the same default sizing heuristic this package's striped-atomic
// precedent uses for its hot-path counters.
func New() *Counter {
	return NewWithStripes(0)
}

// NewWithStripes constructs a Counter with a caller-chosen stripe count,
// rounded up to the next power of two and clamped to [8, 64]. stripes <= 0
// selects the GOMAXPROCS-derived default.
func NewWithStripes(stripes int) *Counter {
	var s int
	if stripes > 0 {
		s = nextPow2(clamp(stripes, 8, 64))
	} else {
		s = nextPow2(clamp(runtime.GOMAXPROCS(0), 8, 64))
	}
	return &Counter{stripes: make([]stripe, s), mask: uint64(s - 1)}
}

// Add increments the counter by delta (which may be negative), choosing a
// stripe via a round-robin atomic counter to spread contention evenly
// across callers.
func (c *Counter) Add(delta int64) {
	idx := c.chooser.Add(1) & c.mask
	c.stripes[idx].val.Add(delta)
}

// Sum reads the current total across every stripe. Not linearizable with
// concurrent Add calls (the usual striped-counter trade: reads may observe
// a value between any two interleavings of the stripe writes), which is
// acceptable for a throughput gauge but not for a gating decision.
func (c *Counter) Sum() int64 {
	var total int64
	for i := range c.stripes {
		total += c.stripes[i].val.Load()
	}
	return total
}

// Reset zeroes every stripe. Not atomic as a whole; intended for use
// between benchmark/load-generator phases, not on a live hot path.
func (c *Counter) Reset() {
	for i := range c.stripes {
		c.stripes[i].val.Store(0)
	}
}

func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return x + 1
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
