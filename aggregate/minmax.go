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

package aggregate

import "container/heap"

// MinMaxAggregate carries a map from value to signed count; the live min and
// max are the smallest and largest keys with positive net count. It is
// backed by two binary heaps (min-heap, max-heap) kept in sync with the
// count map so that reads are O(log n) amortized rather than O(n); the
// count map remains the externally visible source of truth per the
// aggregate's documented semantics, and the heaps are lazily pruned of
// stale/zero-count entries on read.
type MinMaxAggregate struct {
	counts map[OrderedFloat]int64
	minH   *floatHeap
	maxH   *floatHeap
}

// NewMinMaxAggregate constructs the zero (empty) aggregate.
func NewMinMaxAggregate() *MinMaxAggregate {
	minH := &floatHeap{max: false}
	maxH := &floatHeap{max: true}
	heap.Init(minH)
	heap.Init(maxH)
	return &MinMaxAggregate{counts: make(map[OrderedFloat]int64), minH: minH, maxH: maxH}
}

// MinMaxOfValue constructs the singleton aggregate for one observation of
// value with the given multiplicity.
func MinMaxOfValue(value float64, multiplicity int64) *MinMaxAggregate {
	a := NewMinMaxAggregate()
	a.add(OrderedFloat(value), multiplicity)
	return a
}

func (a *MinMaxAggregate) add(v OrderedFloat, delta int64) {
	newCount := a.counts[v] + delta
	if newCount == 0 {
		delete(a.counts, v)
	} else {
		a.counts[v] = newCount
	}
	heap.Push(a.minH, v)
	heap.Push(a.maxH, v)
}

// PlusEquals merges other's signed counts into a.
func (a *MinMaxAggregate) PlusEquals(other *MinMaxAggregate) {
	for v, c := range other.counts {
		a.add(v, c)
	}
}

// IsZero reports whether every key's net count is zero (i.e. the map is
// empty after pruning).
func (a *MinMaxAggregate) IsZero() bool { return len(a.counts) == 0 }

// Negate returns the aggregate with every count's sign flipped.
func (a *MinMaxAggregate) Negate() *MinMaxAggregate {
	out := NewMinMaxAggregate()
	for v, c := range a.counts {
		out.add(v, -c)
	}
	return out
}

// Read returns (min, range) where range = max - min. Returns ErrEmpty if
// the aggregate has no live keys.
func (a *MinMaxAggregate) Read() (min, rng float64, err error) {
	a.prune(a.minH)
	a.prune(a.maxH)
	if a.minH.Len() == 0 || a.maxH.Len() == 0 {
		return 0, 0, ErrEmpty
	}
	mn := float64(a.minH.peek())
	mx := float64(a.maxH.peek())
	return mn, mx - mn, nil
}

// prune pops stale entries (keys whose net count is zero or negative) off
// the top of h until the top reflects a currently live key.
func (a *MinMaxAggregate) prune(h *floatHeap) {
	for h.Len() > 0 {
		top := h.peek()
		if c, ok := a.counts[top]; ok && c > 0 {
			return
		}
		heap.Pop(h)
	}
}

// floatHeap is a container/heap-compatible min- or max-heap of OrderedFloat,
// allowing duplicate/stale pushes that are pruned lazily by the owning
// MinMaxAggregate.
type floatHeap struct {
	data []OrderedFloat
	max  bool
}

func (h *floatHeap) Len() int { return len(h.data) }
func (h *floatHeap) Less(i, j int) bool {
	if h.max {
		return h.data[j].Less(h.data[i])
	}
	return h.data[i].Less(h.data[j])
}
func (h *floatHeap) Swap(i, j int) { h.data[i], h.data[j] = h.data[j], h.data[i] }
func (h *floatHeap) Push(x any)    { h.data = append(h.data, x.(OrderedFloat)) }
func (h *floatHeap) Pop() any {
	old := h.data
	n := len(old)
	x := old[n-1]
	h.data = old[:n-1]
	return x
}
func (h *floatHeap) peek() OrderedFloat { return h.data[0] }
