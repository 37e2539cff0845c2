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

// Package aggregate implements the totally-ordered float wrapper and the
// four monoidal, commutative-group aggregates used as difference types by
// collection.ThresholdWith: VarianceAggregate, MinMaxAggregate,
// DocumentFrequencyAggregate, and PositionAssignmentAggregate.
//
// Every aggregate in this package is a commutative group: it has a zero
// value, PlusEquals is commutative and associative, and Negate is its exact
// inverse, so that retracting a record is exactly the negation of inserting
// it. These properties must hold exactly, not approximately, since they
// back incremental correctness under retraction.
package aggregate

import "errors"

// ErrEmpty is returned by Read when an aggregate has no live contributions
// (count/value sum is zero).
var ErrEmpty = errors.New("aggregate: read of empty aggregate")

// Group is the commutative-group contract shared by every aggregate in this
// package. D is the concrete aggregate type implementing the interface via
// pointer receiver (PlusEquals mutates in place, matching the merge
// semantics aggregates are specified with).
type Group[D any] interface {
	PlusEquals(other D)
	IsZero() bool
	Negate() D
}

// OrderedFloat wraps float64 so it can serve as a totally ordered map key:
// NaN is treated as the maximum element, which is what makes the wrapped
// order total (plain float64 comparison is only a partial order because NaN
// compares false against everything). Every aggregate and encoder in this
// module that needs float64 as a map key must route through OrderedFloat;
// mixing raw float64 comparisons back in would silently reintroduce the
// partial-order bug this wrapper exists to close.
type OrderedFloat float64

// Compare returns -1, 0, or 1 comparing o to other, with NaN sorting above
// every non-NaN value and two NaNs comparing equal.
func (o OrderedFloat) Compare(other OrderedFloat) int {
	a, b := float64(o), float64(other)
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether o sorts strictly before other under Compare.
func (o OrderedFloat) Less(other OrderedFloat) bool { return o.Compare(other) < 0 }
