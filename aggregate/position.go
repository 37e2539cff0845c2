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

import "sort"

// PositionAssignmentAggregate maintains a live bijection between observed
// values of type T and contiguous-ish positions in a dense vector. It backs
// OrdinalEncoder, OneHotEncoder, and CountVectorizer's vocabulary
// assignment.
//
// T must be comparable (it is used as a map key); a Less function orders T
// so that compaction reassigns indices deterministically instead of relying
// on Go's unordered map iteration. Callers that key by value.RowValue use
// RowValue.Hash()'s string output as T, since only Integer and Text are
// hashable in the value model and a string Less is trivially available.
type PositionAssignmentAggregate[T comparable] struct {
	less func(a, b T) bool

	valToIndex map[T]int
	valToCount map[T]int64

	freeIndices []int
	nextIndex   int
	width       int
	rowCount    int64
}

// NewPositionAssignmentAggregate constructs the zero (empty) aggregate.
func NewPositionAssignmentAggregate[T comparable](less func(a, b T) bool) *PositionAssignmentAggregate[T] {
	return &PositionAssignmentAggregate[T]{
		less:       less,
		valToIndex: make(map[T]int),
		valToCount: make(map[T]int64),
	}
}

// PositionAssignmentOfValue constructs the singleton delta for one
// observation of value with the given multiplicity (negative encodes a
// retraction). Used as the per-record contribution merged into the running
// aggregate by PlusEquals.
func PositionAssignmentOfValue[T comparable](less func(a, b T) bool, value T, multiplicity int64) *PositionAssignmentAggregate[T] {
	a := NewPositionAssignmentAggregate(less)
	a.rowCount = multiplicity
	a.applyValueCount(value, multiplicity)
	return a
}

// PositionAssignmentOfValues constructs the singleton delta for a document
// contributing every one of values (e.g. CountVectorizer's per-document
// token list), each counted once per multiplicity.
func PositionAssignmentOfValues[T comparable](less func(a, b T) bool, values []T, multiplicity int64) *PositionAssignmentAggregate[T] {
	a := NewPositionAssignmentAggregate(less)
	a.rowCount = multiplicity
	for _, v := range values {
		a.applyValueCount(v, multiplicity)
	}
	return a
}

func (a *PositionAssignmentAggregate[T]) assignIndex() int {
	if n := len(a.freeIndices); n > 0 {
		idx := a.freeIndices[n-1]
		a.freeIndices = a.freeIndices[:n-1]
		return idx
	}
	idx := a.nextIndex
	a.nextIndex++
	return idx
}

// applyValueCount updates value's live count by countToAdd, allocating or
// freeing an index on the ≤0→>0 / >0→≤0 threshold crossings, and growing or
// compacting width accordingly.
func (a *PositionAssignmentAggregate[T]) applyValueCount(value T, countToAdd int64) {
	count, existed := a.valToCount[value]
	newCount := count + countToAdd
	if newCount == 0 {
		delete(a.valToCount, value)
	} else {
		a.valToCount[value] = newCount
	}

	switch {
	case existed && count > 0 && newCount <= 0:
		idx := a.valToIndex[value]
		delete(a.valToIndex, value)
		a.freeIndices = append(a.freeIndices, idx)
		a.maybeShrink()
	case (!existed || count <= 0) && newCount > 0:
		a.valToIndex[value] = a.assignIndex()
		a.maybeGrow()
	}
}

// maybeGrow grows width geometrically (x1.5) until it covers the current
// live value count, matching the spec's growth-only-on-insert policy (so
// width stays nondecreasing absent retractions).
func (a *PositionAssignmentAggregate[T]) maybeGrow() {
	live := len(a.valToIndex)
	if live <= a.width {
		return
	}
	w := a.width
	for w < live {
		if w == 0 {
			w = 1
		} else {
			w = (w*3 + 1) / 2 // ceil(w * 1.5)
		}
	}
	a.width = w
}

// maybeShrink compacts and shrinks width once the live value count drops to
// two thirds of the current width or below, reassigning consecutive indices
// 0..n-1 in T's order for determinism.
func (a *PositionAssignmentAggregate[T]) maybeShrink() {
	live := len(a.valToIndex)
	if a.width == 0 || live*3 > a.width*2 {
		return
	}
	a.compact()
	a.width = live
}

func (a *PositionAssignmentAggregate[T]) compact() {
	keys := make([]T, 0, len(a.valToIndex))
	for v := range a.valToIndex {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool { return a.less(keys[i], keys[j]) })
	newIndex := make(map[T]int, len(keys))
	for i, v := range keys {
		newIndex[v] = i
	}
	a.valToIndex = newIndex
	a.freeIndices = a.freeIndices[:0]
	a.nextIndex = len(keys)
}

// PlusEquals merges other's live and pending (not-yet-live) value counts
// into a. Unlike the source this module is based on (which iterates only
// other's currently-live val_to_index, silently dropping singleton
// retraction deltas that never crossed into "live"), this iterates
// other.valToCount directly so every contribution — insert or retract — is
// applied, which is required for the aggregate group law (negate then
// merge must yield exactly zero).
func (a *PositionAssignmentAggregate[T]) PlusEquals(other *PositionAssignmentAggregate[T]) {
	for v, c := range other.valToCount {
		a.applyValueCount(v, c)
	}
	a.rowCount += other.rowCount
}

// IsZero reports whether the aggregate carries no net row contribution.
func (a *PositionAssignmentAggregate[T]) IsZero() bool { return a.rowCount == 0 && len(a.valToCount) == 0 }

// Negate returns the aggregate with every value count and the row count
// sign-flipped; non-live (pending) entries flip too so a subsequent merge
// cancels them exactly.
func (a *PositionAssignmentAggregate[T]) Negate() *PositionAssignmentAggregate[T] {
	out := NewPositionAssignmentAggregate[T](a.less)
	out.rowCount = -a.rowCount
	for v, c := range a.valToCount {
		out.applyValueCount(v, -c)
	}
	return out
}

// Index returns the current index assigned to value and whether value is
// currently live (net positive count).
func (a *PositionAssignmentAggregate[T]) Index(value T) (int, bool) {
	idx, ok := a.valToIndex[value]
	return idx, ok
}

// Width returns the current nominal vector width.
func (a *PositionAssignmentAggregate[T]) Width() int { return a.width }

// Live returns the number of currently live (net positive count) values.
func (a *PositionAssignmentAggregate[T]) Live() int { return len(a.valToIndex) }
