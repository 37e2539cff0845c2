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

package collection

// InputSession is the driver-facing handle for feeding records into a
// Collection over time: Insert/Remove stage updates, AdvanceTo declares the
// current epoch settled, and Flush clears the pending marker without an
// epoch change (Snapshot reflects staged updates either way). It also accumulates
// the full live multiset so Snapshot can hand combinators a consolidated
// view rather than a raw insert/remove log.
type InputSession[T any] struct {
	keyOf   func(T) string
	live    map[string]*Update[T]
	order   []string
	tracked map[string]bool
	epoch   int64
	pending bool
}

// NewInputSession constructs a session. keyOf must return a stable string
// identity for a record (e.g. its hash or a composite of its identifying
// fields); records with equal keyOf are merged by summing multiplicity.
func NewInputSession[T any](keyOf func(T) string) *InputSession[T] {
	return &InputSession[T]{keyOf: keyOf, live: make(map[string]*Update[T]), tracked: make(map[string]bool)}
}

// Insert stages an insertion (multiplicity +1) of v.
func (s *InputSession[T]) Insert(v T) { s.stage(v, 1) }

// Remove stages a retraction (multiplicity -1) of v.
func (s *InputSession[T]) Remove(v T) { s.stage(v, -1) }

// stage records a signed contribution for v's key. order accumulates each
// key's first-seen position exactly once, tracked by a side set rather than
// a blind append: a key's slot in order survives its entry being deleted
// from live (a net-zero retraction) and re-created later by a subsequent
// insert, so a retract-then-reinsert of the same key (the usual way a
// driver represents a row update) never duplicates that key in order —
// which would otherwise make Snapshot emit the same key twice.
func (s *InputSession[T]) stage(v T, diff int64) {
	k := s.keyOf(v)
	if e, ok := s.live[k]; ok {
		e.Diff += diff
		if e.Diff == 0 {
			delete(s.live, k)
		}
	} else if diff != 0 {
		s.live[k] = &Update[T]{Data: v, Diff: diff}
		if !s.tracked[k] {
			s.tracked[k] = true
			s.order = append(s.order, k)
		}
	}
	s.pending = true
}

// AdvanceTo declares epoch settled. The session's current multiset becomes
// visible to the next call to Snapshot.
func (s *InputSession[T]) AdvanceTo(epoch int64) {
	s.epoch = epoch
	s.pending = false
}

// Flush is a no-op marker that staged updates should be considered visible
// immediately, without waiting for an explicit AdvanceTo; Snapshot always
// reflects the current live set regardless, so Flush exists for symmetry
// with the runtime interface spec.md enumerates (and for driver code that
// wants an explicit "I'm done staging for now" checkpoint).
func (s *InputSession[T]) Flush() { s.pending = false }

// Epoch returns the most recently advanced-to epoch.
func (s *InputSession[T]) Epoch() int64 { return s.epoch }

// Pending reports whether updates have been staged since the last
// AdvanceTo/Flush.
func (s *InputSession[T]) Pending() bool { return s.pending }

// Snapshot returns the current consolidated multiset as a Collection, one
// Update per distinct key with nonzero net multiplicity, in first-seen
// order.
func (s *InputSession[T]) Snapshot() Collection[T] {
	out := make([]Update[T], 0, len(s.order))
	for _, k := range s.order {
		if e, ok := s.live[k]; ok {
			out = append(out, *e)
		}
	}
	return Collection[T]{Updates: out}
}
